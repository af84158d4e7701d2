package gormstore

import (
	"context"
	"fmt"

	"ingredient-engine/internal/pkg/common"
)

func (s *Store) FindKnownIngredientsAll(ctx context.Context) ([]common.KnownIngredient, error) {
	var rows []ingredientRow
	if err := s.db.WithContext(ctx).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	out := make([]common.KnownIngredient, 0, len(rows))
	for _, r := range rows {
		ing, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}

func (s *Store) FindKnownUnitsAll(ctx context.Context) ([]common.KnownUnit, error) {
	var rows []unitRow
	if err := s.db.WithContext(ctx).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	out := make([]common.KnownUnit, 0, len(rows))
	for _, r := range rows {
		u, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *Store) FindKnownModifiersAll(ctx context.Context) ([]common.KnownModifier, error) {
	var rows []modifierRow
	if err := s.db.WithContext(ctx).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list modifiers: %w", err)
	}
	out := make([]common.KnownModifier, 0, len(rows))
	for _, r := range rows {
		m, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) CreateIngredient(ctx context.Context, ing common.KnownIngredient) (common.KnownIngredient, error) {
	if ing.ID == "" {
		ing.ID = common.GenerateUUID()
	}
	row, err := newIngredientRow(ing)
	if err != nil {
		return common.KnownIngredient{}, err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return common.KnownIngredient{}, fmt.Errorf("create ingredient %q: %w", ing.Name, err)
	}
	return row.model()
}

func (s *Store) CreateUnit(ctx context.Context, u common.KnownUnit) (common.KnownUnit, error) {
	if u.ID == "" {
		u.ID = common.GenerateUUID()
	}
	row, err := newUnitRow(u)
	if err != nil {
		return common.KnownUnit{}, err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return common.KnownUnit{}, fmt.Errorf("create unit %q: %w", u.Name, err)
	}
	return row.model()
}

func (s *Store) CreateModifier(ctx context.Context, m common.KnownModifier) (common.KnownModifier, error) {
	if m.ID == "" {
		m.ID = common.GenerateUUID()
	}
	row, err := newModifierRow(m)
	if err != nil {
		return common.KnownModifier{}, err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return common.KnownModifier{}, fmt.Errorf("create modifier %q: %w", m.Name, err)
	}
	return row.model()
}

func (s *Store) UpdateIngredientAliases(ctx context.Context, id string, aliases []string) error {
	return s.updateAliases(ctx, &ingredientRow{}, "ingredient", id, aliases)
}

func (s *Store) UpdateUnitAliases(ctx context.Context, id string, aliases []string) error {
	return s.updateAliases(ctx, &unitRow{}, "unit", id, aliases)
}

func (s *Store) UpdateModifierAliases(ctx context.Context, id string, aliases []string) error {
	return s.updateAliases(ctx, &modifierRow{}, "modifier", id, aliases)
}

func (s *Store) updateAliases(ctx context.Context, model interface{}, kind, id string, aliases []string) error {
	raw, err := stringsJSON(aliases)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("aliases", raw)
	if res.Error != nil {
		return fmt.Errorf("update %s aliases: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, common.ErrNotFound)
	}
	return nil
}
