package kb

import (
	"context"

	"ingredient-engine/internal/pkg/common"
)

// Reader 知識庫讀取介面
type Reader interface {
	FindKnownIngredientsAll(ctx context.Context) ([]common.KnownIngredient, error)
	FindKnownUnitsAll(ctx context.Context) ([]common.KnownUnit, error)
	FindKnownModifiersAll(ctx context.Context) ([]common.KnownModifier, error)
}

// Writer 知識庫寫入介面，只在明確的建立或 seeding 時使用
type Writer interface {
	CreateIngredient(ctx context.Context, ing common.KnownIngredient) (common.KnownIngredient, error)
	CreateUnit(ctx context.Context, unit common.KnownUnit) (common.KnownUnit, error)
	CreateModifier(ctx context.Context, mod common.KnownModifier) (common.KnownModifier, error)
	UpdateIngredientAliases(ctx context.Context, id string, aliases []string) error
	UpdateUnitAliases(ctx context.Context, id string, aliases []string) error
	UpdateModifierAliases(ctx context.Context, id string, aliases []string) error
}

// Store 讀寫合併
type Store interface {
	Reader
	Writer
}
