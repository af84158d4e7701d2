package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingredient-engine/internal/infrastructure/storage/memory"
	"ingredient-engine/internal/pkg/common"
)

func newList(t *testing.T, store *memory.Store) common.ShoppingList {
	t.Helper()
	l, err := store.CreateList(context.Background(), common.ShoppingList{
		OwnerID: "alice",
		Name:    "Weekly",
		Items: []common.ShoppingListItem{
			{Name: "Onion", Position: 0},
			{Name: "Salt", Position: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, l.Items, 2)
	return l
}

func TestSaveItemsIsAllOrNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()
	l := newList(t, store)

	renamed := l.Items[0]
	renamed.Name = "CHANGED"
	_, err := store.SaveItems(ctx, l.ID, []common.ShoppingListItem{
		renamed,
		{Name: "Garlic"},
		{ID: "missing", Name: "Ghost"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	got, err := store.GetListWithItems(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Onion", got.Items[0].Name)
	assert.Equal(t, "Salt", got.Items[1].Name)
}

func TestSaveItemsCreatesAndUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()
	l := newList(t, store)

	checked := l.Items[1]
	checked.IsChecked = true
	saved, err := store.SaveItems(ctx, l.ID, []common.ShoppingListItem{
		checked,
		{Name: "Garlic", Position: 2},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, checked.ID, saved[0].ID)
	assert.NotEmpty(t, saved[1].ID)
	assert.Equal(t, l.ID, saved[1].ListID)

	got, err := store.GetListWithItems(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 3)
	assert.True(t, got.Items[1].IsChecked)
	assert.Equal(t, "Garlic", got.Items[2].Name)
}

func TestDeleteItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()
	l := newList(t, store)

	require.NoError(t, store.DeleteItem(ctx, l.ID, l.Items[0].ID))
	err := store.DeleteItem(ctx, l.ID, l.Items[0].ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	got, err := store.GetListWithItems(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Salt", got.Items[0].Name)
}

func TestFindRecipeByNameAndOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()

	created, err := store.CreateRecipe(ctx, common.Recipe{OwnerID: "alice", Name: "Pancakes"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		owner  string
		lookup string
		found  bool
	}{
		{name: "exact", owner: "alice", lookup: "Pancakes", found: true},
		{name: "case and spaces", owner: "alice", lookup: "  pancakes ", found: true},
		{name: "other owner", owner: "bob", lookup: "Pancakes", found: false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := store.FindRecipeByNameAndOwner(ctx, tc.owner, tc.lookup)
			if !tc.found {
				assert.True(t, errors.Is(err, common.ErrNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
		})
	}
}
