package importer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ingredient-engine/internal/core/importer"
	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/core/parser"
	"ingredient-engine/internal/infrastructure/storage/memory"
	"ingredient-engine/internal/pkg/common"
)

type fixture struct {
	holder     *kb.Holder
	store      *memory.Store
	reconciler *importer.Reconciler
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	_, err := kb.Seed(ctx, store, kb.DefaultSeed())
	require.NoError(t, err)
	holder := kb.NewHolder(store)
	_, err = holder.Reload(ctx)
	require.NoError(t, err)
	return fixture{
		holder:     holder,
		store:      store,
		reconciler: importer.NewReconciler(store, parser.NewRuleParser(holder), holder),
	}
}

func lines(texts ...string) []importer.IngredientLine {
	out := make([]importer.IngredientLine, len(texts))
	for i, t := range texts {
		out[i] = importer.IngredientLine{Text: t}
	}
	return out
}

func TestReconcileDuplicateInBatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	report := f.reconciler.Reconcile(context.Background(), "alice", []importer.RecipeInput{
		{Name: "Pancakes", Ingredients: lines("2 cups flour", "3 eggs", "1 cup milk")},
		{Name: "pancakes ", Ingredients: lines("1 cup flour")},
	})

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Updated)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "pancakes", report.Skipped[0].Name)
	assert.Equal(t, "Duplicate in import batch", report.Skipped[0].Reason)
	assert.Empty(t, report.Failed)
	assert.Empty(t, report.RecipesWithParsingIssues)

	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, []importer.State{importer.StateNew, importer.StateCreate}, report.Outcomes[0].Path)
	assert.Equal(t, importer.StateDuplicateInBatch, report.Outcomes[1].State)

	saved, err := f.store.FindRecipeByNameAndOwner(context.Background(), "alice", "Pancakes")
	require.NoError(t, err)
	require.Len(t, saved.Ingredients, 3)
	assert.False(t, saved.HasUnparsedIngredients)
}

func TestReconcileReimportPreservesID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	input := importer.RecipeInput{
		Name:        "Fruit Salad",
		Ingredients: lines("2 cups dragon fruit", "1 lime"),
	}

	first := f.reconciler.Reconcile(ctx, "alice", []importer.RecipeInput{input})
	require.Equal(t, 1, first.Created)
	require.Len(t, first.RecipesWithParsingIssues, 1)
	issues := first.RecipesWithParsingIssues[0]
	require.Len(t, issues.Ingredients, 1)
	assert.Equal(t, "2 cups dragon fruit", issues.Ingredients[0].OriginalText)
	assert.Equal(t, "dragon fruit", issues.Ingredients[0].Ingredient)
	assert.Equal(t, "2", issues.Ingredients[0].Quantity)
	assert.Equal(t, "cups", issues.Ingredients[0].Unit)
	originalID := first.Outcomes[0].RecipeID

	before, err := f.store.GetRecipe(ctx, originalID)
	require.NoError(t, err)
	assert.True(t, before.HasUnparsedIngredients)

	_, created, err := f.holder.FindOrCreateIngredient(ctx, "dragon fruit")
	require.NoError(t, err)
	require.True(t, created)

	input.Description = "now with a description"
	second := f.reconciler.Reconcile(ctx, "alice", []importer.RecipeInput{input})
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)
	assert.Empty(t, second.RecipesWithParsingIssues)
	assert.Equal(t, []importer.State{
		importer.StateNew, importer.StateExistsWithUnparsed, importer.StateUpdate,
	}, second.Outcomes[0].Path)
	assert.Equal(t, originalID, second.Outcomes[0].RecipeID)

	after, err := f.store.GetRecipe(ctx, originalID)
	require.NoError(t, err)
	assert.False(t, after.HasUnparsedIngredients)
	assert.Equal(t, "now with a description", after.Description)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Equal(t, "alice", after.OwnerID)

	third := f.reconciler.Reconcile(ctx, "alice", []importer.RecipeInput{input})
	require.Len(t, third.Skipped, 1)
	assert.Equal(t, importer.ReasonAlreadyParsed, third.Skipped[0].Reason)
	assert.Equal(t, importer.StateExistsFullyParsed, third.Outcomes[0].State)
}

func TestReconcileScreensAndSections(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	report := f.reconciler.Reconcile(context.Background(), "alice", []importer.RecipeInput{{
		Name: "Layered Cake",
		Ingredients: []importer.IngredientLine{
			{Text: "--- Batter ---"},
			{Text: "2 cups flour"},
			{Text: "2 cups"},
			{Text: "chopped"},
			{Text: "-----"},
			{Text: "3 eggs"},
			{Text: "For the frosting:"},
			{Text: "1 cup butter"},
			{Text: "1 cup sugar", Section: "Syrup"},
		},
		Instructions: []string{"  Mix. ", "", "Bake."},
	}})

	require.Equal(t, 1, report.Created)
	saved, err := f.store.GetRecipe(context.Background(), report.Outcomes[0].RecipeID)
	require.NoError(t, err)

	require.Len(t, saved.Ingredients, 4)
	assert.Equal(t, "Batter", saved.Ingredients[0].Section)
	assert.Equal(t, "Batter", saved.Ingredients[1].Section)
	assert.Equal(t, "Frosting", saved.Ingredients[2].Section)
	assert.Equal(t, "Syrup", saved.Ingredients[3].Section)
	assert.Equal(t, []string{"Mix.", "Bake."}, saved.Instructions)
}

func TestReconcileReportsSuggestions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	report := f.reconciler.Reconcile(context.Background(), "alice", []importer.RecipeInput{{
		Name:        "Typo Shake",
		Ingredients: lines("1 cup milkk", "2 cups flour"),
	}})

	require.Len(t, report.RecipesWithParsingIssues, 1)
	issue := report.RecipesWithParsingIssues[0].Ingredients[0]
	assert.Contains(t, issue.Reason, `No known ingredient matches "milkk"`)
	assert.Contains(t, issue.Reason, `did you mean "Milk"?`)
}

func TestReconcileEmptyNameAndCancelled(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	report := f.reconciler.Reconcile(context.Background(), "alice", []importer.RecipeInput{{Name: "   "}})
	require.Len(t, report.Failed, 1)
	assert.Equal(t, common.ErrEmptyRecipeName.Message, report.Failed[0].Reason)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report = f.reconciler.Reconcile(ctx, "alice", []importer.RecipeInput{{Name: "Soup"}})
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Reason, "cancelled")
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindRecipeByNameAndOwner(ctx context.Context, ownerID, name string) (common.Recipe, error) {
	args := m.Called(ctx, ownerID, name)
	return args.Get(0).(common.Recipe), args.Error(1)
}

func (m *mockStore) CreateRecipe(ctx context.Context, r common.Recipe) (common.Recipe, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(common.Recipe), args.Error(1)
}

func (m *mockStore) UpdateRecipe(ctx context.Context, r common.Recipe) (common.Recipe, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(common.Recipe), args.Error(1)
}

func TestReconcileFailuresDoNotAbortBatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	store := &mockStore{}

	store.On("FindRecipeByNameAndOwner", mock.Anything, "alice", "Broken").
		Return(common.Recipe{}, errors.New("connection reset"))
	store.On("FindRecipeByNameAndOwner", mock.Anything, "alice", mock.Anything).
		Return(common.Recipe{}, common.ErrNotFound)
	store.On("CreateRecipe", mock.Anything, mock.MatchedBy(func(r common.Recipe) bool { return r.Name == "Explodes" })).
		Run(func(mock.Arguments) { panic("boom") })
	store.On("CreateRecipe", mock.Anything, mock.MatchedBy(func(r common.Recipe) bool { return r.Name == "Full Disk" })).
		Return(common.Recipe{}, errors.New("disk full"))
	store.On("CreateRecipe", mock.Anything, mock.Anything).
		Return(common.Recipe{ID: "new-id"}, nil)

	r := importer.NewReconciler(store, parser.NewRuleParser(f.holder), f.holder)
	report := r.Reconcile(context.Background(), "alice", []importer.RecipeInput{
		{Name: "Broken", Ingredients: lines("1 egg")},
		{Name: "Explodes", Ingredients: lines("1 egg")},
		{Name: "Full Disk", Ingredients: lines("1 egg")},
		{Name: "Fine", Ingredients: lines("1 egg")},
	})

	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Failed, 3)
	assert.Contains(t, report.Failed[0].Reason, "connection reset")
	assert.Contains(t, report.Failed[1].Reason, "boom")
	assert.Contains(t, report.Failed[2].Reason, "disk full")
	assert.Equal(t, "new-id", report.Outcomes[3].RecipeID)
	store.AssertExpectations(t)
}

type countingParser struct {
	inner parser.Parser
	calls int
}

func (p *countingParser) Parse(ctx context.Context, line string) common.ParsedIngredient {
	p.calls++
	return p.inner.Parse(ctx, line)
}

func (p *countingParser) CallDelay() time.Duration { return 0 }

func TestReconcileParsesOnlyWhatItSaves(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := &countingParser{inner: parser.NewRuleParser(f.holder)}
	r := importer.NewReconciler(f.store, p, f.holder)

	r.Reconcile(context.Background(), "alice", []importer.RecipeInput{
		{Name: "Omelette", Ingredients: lines("3 eggs", "--- Filling ---", "1 cup milk")},
		{Name: "Omelette", Ingredients: lines("3 eggs", "1 cup milk")},
	})
	assert.Equal(t, 2, p.calls)
}
