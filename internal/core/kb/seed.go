package kb

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ingredient-engine/internal/pkg/common"
)

// SeedData 靜態種子資料
type SeedData struct {
	Ingredients []common.KnownIngredient
	Units       []common.KnownUnit
	Modifiers   []common.KnownModifier
}

// SeedResult seeding 統計
type SeedResult struct {
	IngredientsCreated int `json:"ingredients_created"`
	UnitsCreated       int `json:"units_created"`
	ModifiersCreated   int `json:"modifiers_created"`
	AliasesAdded       int `json:"aliases_added"`
}

// Seed 依正式名稱 insert-if-absent；已存在者只合併新別名，不會刪減
func Seed(ctx context.Context, store Store, data SeedData) (SeedResult, error) {
	var res SeedResult

	ings, err := store.FindKnownIngredientsAll(ctx)
	if err != nil {
		return res, fmt.Errorf("seed ingredients: %w", err)
	}
	byName := make(map[string]common.KnownIngredient, len(ings))
	for _, ing := range ings {
		byName[ing.Name] = ing
	}
	for _, seed := range data.Ingredients {
		existing, ok := byName[seed.Name]
		if !ok {
			seed.Aliases = lowerAliases(seed.Aliases)
			created, err := store.CreateIngredient(ctx, seed)
			if err != nil {
				return res, fmt.Errorf("seed ingredient %q: %w", seed.Name, err)
			}
			byName[created.Name] = created
			res.IngredientsCreated++
			continue
		}
		merged, added := unionAliases(existing.Aliases, seed.Aliases)
		if added == 0 {
			continue
		}
		if err := store.UpdateIngredientAliases(ctx, existing.ID, merged); err != nil {
			return res, fmt.Errorf("grow aliases of %q: %w", seed.Name, err)
		}
		existing.Aliases = merged
		byName[existing.Name] = existing
		res.AliasesAdded += added
	}

	units, err := store.FindKnownUnitsAll(ctx)
	if err != nil {
		return res, fmt.Errorf("seed units: %w", err)
	}
	unitsByName := make(map[string]common.KnownUnit, len(units))
	for _, u := range units {
		unitsByName[u.Name] = u
	}
	for _, seed := range data.Units {
		existing, ok := unitsByName[seed.Name]
		if !ok {
			seed.Aliases = lowerAliases(seed.Aliases)
			created, err := store.CreateUnit(ctx, seed)
			if err != nil {
				return res, fmt.Errorf("seed unit %q: %w", seed.Name, err)
			}
			unitsByName[created.Name] = created
			res.UnitsCreated++
			continue
		}
		merged, added := unionAliases(existing.Aliases, seed.Aliases)
		if added == 0 {
			continue
		}
		if err := store.UpdateUnitAliases(ctx, existing.ID, merged); err != nil {
			return res, fmt.Errorf("grow aliases of %q: %w", seed.Name, err)
		}
		existing.Aliases = merged
		unitsByName[existing.Name] = existing
		res.AliasesAdded += added
	}

	mods, err := store.FindKnownModifiersAll(ctx)
	if err != nil {
		return res, fmt.Errorf("seed modifiers: %w", err)
	}
	modsByName := make(map[string]common.KnownModifier, len(mods))
	for _, m := range mods {
		modsByName[m.Name] = m
	}
	for _, seed := range data.Modifiers {
		existing, ok := modsByName[seed.Name]
		if !ok {
			seed.Aliases = lowerAliases(seed.Aliases)
			created, err := store.CreateModifier(ctx, seed)
			if err != nil {
				return res, fmt.Errorf("seed modifier %q: %w", seed.Name, err)
			}
			modsByName[created.Name] = created
			res.ModifiersCreated++
			continue
		}
		merged, added := unionAliases(existing.Aliases, seed.Aliases)
		if added == 0 {
			continue
		}
		if err := store.UpdateModifierAliases(ctx, existing.ID, merged); err != nil {
			return res, fmt.Errorf("grow aliases of %q: %w", seed.Name, err)
		}
		existing.Aliases = merged
		modsByName[existing.Name] = existing
		res.AliasesAdded += added
	}

	common.LogInfo("知識庫 seeding 完成",
		zap.Int("ingredients_created", res.IngredientsCreated),
		zap.Int("units_created", res.UnitsCreated),
		zap.Int("modifiers_created", res.ModifiersCreated),
		zap.Int("aliases_added", res.AliasesAdded),
	)
	return res, nil
}

// unionAliases 保留既有順序，附加新的小寫別名
func unionAliases(existing, incoming []string) ([]string, int) {
	merged := append([]string(nil), existing...)
	seen := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		seen[Key(a)] = struct{}{}
	}
	added := 0
	for _, a := range incoming {
		k := Key(a)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, k)
		added++
	}
	return merged, added
}
