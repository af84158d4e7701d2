package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingredient-engine/internal/pkg/common"
)

func fixture() *Snapshot {
	return NewSnapshot(1,
		[]common.KnownIngredient{
			{ID: "onion", Name: "Onion", Category: common.CategoryProduce, Aliases: []string{"Yellow Onion", "yellow onion"}},
			{ID: "green-onion", Name: "Green Onion", Category: common.CategoryProduce, Aliases: []string{"scallion"}},
			{ID: "chive", Name: "Chive", Category: common.CategoryProduce, Aliases: []string{"scallion", "onion"}},
		},
		[]common.KnownUnit{
			{ID: "tbsp", Name: "tablespoon", Abbreviation: "tbsp", Aliases: []string{"tablespoons"}, Type: common.UnitVolume},
		},
		[]common.KnownModifier{
			{ID: "diced", Name: "diced", Type: common.ModifierPreparation},
		},
	)
}

func TestSnapshotMatchIngredient(t *testing.T) {
	t.Parallel()
	snap := fixture()

	tests := []struct {
		name   string
		input  string
		wantID string
	}{
		{name: "canonical name", input: "Onion", wantID: "onion"},
		{name: "case insensitive and trimmed", input: "  oNiOn ", wantID: "onion"},
		{name: "alias", input: "yellow onion", wantID: "onion"},
		{name: "shared alias resolves to first inserted", input: "scallion", wantID: "green-onion"},
		{name: "canonical name beats later alias", input: "onion", wantID: "onion"},
		{name: "miss", input: "dragonfruit", wantID: ""},
		{name: "empty", input: "  ", wantID: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := snap.MatchIngredient(tc.input)
			if tc.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.wantID, got.ID)
		})
	}
}

func TestSnapshotMatchUnitAndModifier(t *testing.T) {
	t.Parallel()
	snap := fixture()

	u := snap.MatchUnit("TBSP")
	require.NotNil(t, u)
	assert.Equal(t, "tablespoon", u.Name)

	assert.NotNil(t, snap.MatchUnit("tablespoons"))
	assert.Nil(t, snap.MatchUnit("bucket"))

	m := snap.MatchModifier("  DICED ")
	require.NotNil(t, m)
	assert.Equal(t, "diced", m.ID)
	assert.Equal(t, common.ModifierPreparation, m.Type)
	assert.Nil(t, snap.MatchModifier("onion"))

	assert.True(t, snap.IsModifier("Diced"))
	assert.False(t, snap.IsModifier("onion"))
}

func TestSnapshotConflicts(t *testing.T) {
	t.Parallel()
	snap := fixture()

	conflicts := snap.Conflicts()
	require.Len(t, conflicts, 2)

	byText := map[string]AliasConflict{}
	for _, c := range conflicts {
		byText[c.Text] = c
	}
	assert.Equal(t, "Green Onion", byText["scallion"].Winner)
	assert.Equal(t, "Chive", byText["scallion"].Loser)
	assert.Equal(t, "Onion", byText["onion"].Winner)
	assert.Equal(t, KindIngredient, byText["onion"].Kind)
}

func TestSnapshotAliasesAreLowercasedAndUnique(t *testing.T) {
	t.Parallel()
	snap := fixture()
	assert.Equal(t, []string{"yellow onion"}, snap.Ingredients()[0].Aliases)
}

func TestSnapshotSuggest(t *testing.T) {
	t.Parallel()
	snap := fixture()

	ing, score, ok := snap.Suggest("oniom")
	require.True(t, ok)
	assert.Equal(t, "Onion", ing.Name)
	assert.GreaterOrEqual(t, score, SuggestThreshold)

	_, _, ok = snap.Suggest("xylophone")
	assert.False(t, ok)
}

func TestSnapshotWithIngredient(t *testing.T) {
	t.Parallel()
	snap := fixture()

	next := snap.withIngredient(2, common.KnownIngredient{ID: "kiwi", Name: "Kiwi"})
	assert.Nil(t, snap.MatchIngredient("kiwi"))
	require.NotNil(t, next.MatchIngredient("kiwi"))
	assert.Equal(t, int64(2), next.Version())
}

func TestSnapshotIngredientByID(t *testing.T) {
	t.Parallel()
	snap := fixture()

	got := snap.IngredientByID("chive")
	require.NotNil(t, got)
	assert.Equal(t, "Chive", got.Name)
	assert.Nil(t, snap.IngredientByID("missing"))
	assert.Nil(t, snap.IngredientByID(""))
}
