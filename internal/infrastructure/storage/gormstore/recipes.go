package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ingredient-engine/internal/pkg/common"
)

// FindRecipeByNameAndOwner 以小寫名稱欄位比對，不分大小寫
func (s *Store) FindRecipeByNameAndOwner(ctx context.Context, ownerID, name string) (common.Recipe, error) {
	var row recipeRow
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND name_key = ?", ownerID, nameKey(name)).
		Order("seq").
		First(&row).Error
	if err != nil {
		return common.Recipe{}, notFound(err, fmt.Sprintf("recipe %q", name))
	}
	return row.model()
}

func (s *Store) CreateRecipe(ctx context.Context, r common.Recipe) (common.Recipe, error) {
	if r.ID == "" {
		r.ID = common.GenerateUUID()
	}
	row, err := newRecipeRow(r)
	if err != nil {
		return common.Recipe{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&recipeRow{}).Where("id = ?", r.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("recipe %s: %w", r.ID, common.ErrConflict)
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return common.Recipe{}, fmt.Errorf("create recipe: %w", err)
	}
	return row.model()
}

// UpdateRecipe 保留 ID、擁有者與建立時間
func (s *Store) UpdateRecipe(ctx context.Context, r common.Recipe) (common.Recipe, error) {
	var saved recipeRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing recipeRow
		if err := tx.Where("id = ?", r.ID).First(&existing).Error; err != nil {
			return notFound(err, "recipe "+r.ID)
		}

		row, err := newRecipeRow(r)
		if err != nil {
			return err
		}
		row.Seq = existing.Seq
		row.OwnerID = existing.OwnerID
		row.NameKey = nameKey(row.Name)
		row.CreatedAt = existing.CreatedAt

		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		saved = row
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Recipe{}, err
		}
		return common.Recipe{}, fmt.Errorf("update recipe: %w", err)
	}
	return saved.model()
}

func (s *Store) GetRecipe(ctx context.Context, id string) (common.Recipe, error) {
	var row recipeRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return common.Recipe{}, notFound(err, "recipe "+id)
	}
	return row.model()
}

// ListRecipes ownerID 為空時回傳全部
func (s *Store) ListRecipes(ctx context.Context, ownerID string) ([]common.Recipe, error) {
	q := s.db.WithContext(ctx).Order("seq")
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	var rows []recipeRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	out := make([]common.Recipe, 0, len(rows))
	for _, row := range rows {
		r, err := row.model()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
