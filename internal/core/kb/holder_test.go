package kb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/infrastructure/storage/memory"
	"ingredient-engine/internal/pkg/common"
)

func seededHolder(t *testing.T) (*kb.Holder, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	_, err := kb.Seed(context.Background(), store, kb.DefaultSeed())
	require.NoError(t, err)
	h := kb.NewHolder(store)
	_, err = h.Reload(context.Background())
	require.NoError(t, err)
	return h, store
}

func TestHolderReloadBumpsVersion(t *testing.T) {
	t.Parallel()
	h, _ := seededHolder(t)

	v1 := h.Current().Version()
	snap, err := h.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, v1+1, snap.Version())
	assert.Same(t, snap, h.Current())
}

func TestHolderFindOrCreateIngredient(t *testing.T) {
	t.Parallel()
	h, store := seededHolder(t)
	ctx := context.Background()

	existing, created, err := h.FindOrCreateIngredient(ctx, "scallions")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Green Onion", existing.Name)

	before := h.Current().Version()
	ing, created, err := h.FindOrCreateIngredient(ctx, "  dragon   fruit ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Dragon fruit", ing.Name)
	assert.Equal(t, common.CategoryOther, ing.Category)
	assert.Empty(t, ing.Aliases)
	assert.NotEmpty(t, ing.ID)
	assert.Greater(t, h.Current().Version(), before)

	again, created, err := h.FindOrCreateIngredient(ctx, "dragon fruit")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, ing.ID, again.ID)

	all, err := store.FindKnownIngredientsAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(kb.DefaultSeed().Ingredients)+1)

	_, _, err = h.FindOrCreateIngredient(ctx, "   ")
	assert.True(t, common.IsValidationError(err))
}

func TestSeedIsInsertIfAbsentAndGrowsAliases(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()

	first, err := kb.Seed(ctx, store, kb.DefaultSeed())
	require.NoError(t, err)
	assert.Equal(t, len(kb.DefaultSeed().Ingredients), first.IngredientsCreated)

	second, err := kb.Seed(ctx, store, kb.DefaultSeed())
	require.NoError(t, err)
	assert.Zero(t, second.IngredientsCreated)
	assert.Zero(t, second.UnitsCreated)
	assert.Zero(t, second.AliasesAdded)

	grow := kb.SeedData{Ingredients: []common.KnownIngredient{
		{Name: "Onion", Category: common.CategoryProduce, Aliases: []string{"Cebolla", "yellow onion"}},
	}}
	third, err := kb.Seed(ctx, store, grow)
	require.NoError(t, err)
	assert.Equal(t, 1, third.AliasesAdded)

	ings, err := store.FindKnownIngredientsAll(ctx)
	require.NoError(t, err)
	for _, ing := range ings {
		if ing.Name == "Onion" {
			assert.Contains(t, ing.Aliases, "cebolla")
			assert.Contains(t, ing.Aliases, "white onion")
		}
	}
}

func TestDefaultSeedHasNoConflicts(t *testing.T) {
	t.Parallel()
	h, _ := seededHolder(t)
	assert.Empty(t, h.Current().Conflicts())
}
