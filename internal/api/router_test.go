package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingredient-engine/internal/api"
	"ingredient-engine/internal/api/middleware"
	"ingredient-engine/internal/core/importer"
	"ingredient-engine/internal/core/kb"
	"ingredient-engine/internal/core/parser"
	"ingredient-engine/internal/core/recipe"
	"ingredient-engine/internal/core/shopping"
	"ingredient-engine/internal/infrastructure/config"
	"ingredient-engine/internal/infrastructure/storage/memory"
	"ingredient-engine/internal/pkg/common"
)

func testConfig() *config.Config {
	return &config.Config{
		App:         config.AppConfig{Debug: true, Version: "test"},
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		Parser:      config.ParserConfig{Mode: config.ParserModeRule},
		DedupWindow: time.Minute,
	}
}

func newTestRouter(t *testing.T, load bool) *gin.Engine {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	_, err := kb.Seed(ctx, store, kb.DefaultSeed())
	require.NoError(t, err)

	holder := kb.NewHolder(store)
	if load {
		_, err = holder.Reload(ctx)
		require.NoError(t, err)
	}

	p := parser.NewRuleParser(holder)
	return api.SetupRouter(testConfig(), api.Services{
		KB:       holder,
		Parser:   p,
		Importer: importer.NewReconciler(store, p, holder),
		Recipes:  recipe.NewService(store, p, holder),
		Shopping: shopping.NewService(store, store, common.RangeLower),
		Storage:  store,
	})
}

func do(t *testing.T, r http.Handler, method, path, owner string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set(middleware.OwnerHeader, owner)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("ready after knowledge base load", func(t *testing.T) {
		t.Parallel()
		r := newTestRouter(t, true)
		assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/health", "", nil).Code)
		assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/ready", "", nil).Code)
		assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/live", "", nil).Code)
	})

	t.Run("not ready before load", func(t *testing.T) {
		t.Parallel()
		r := newTestRouter(t, false)
		w := do(t, r, http.MethodGet, "/ready", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), common.ErrCodeServiceUnavailable)
		assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/live", "", nil).Code)
	})
}

func TestUnknownRoutes(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t, true)

	w := do(t, r, http.MethodGet, "/api/v1/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeNotFound)

	w = do(t, r, http.MethodDelete, "/api/v1/parse", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeMethodNotAllowed)
}

func TestParseEndpoints(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t, true)

	w := do(t, r, http.MethodPost, "/api/v1/parse", "", gin.H{"text": "2 cups milk"})
	require.Equal(t, http.StatusOK, w.Code)
	var parsed common.ParsedIngredient
	decode(t, w, &parsed)
	assert.True(t, parsed.Parsed)
	require.NotNil(t, parsed.Ingredient)
	assert.Equal(t, "Milk", parsed.Ingredient.Name)
	require.NotNil(t, parsed.Unit)
	assert.Equal(t, "cup", parsed.Unit.Name)

	w = do(t, r, http.MethodPost, "/api/v1/parse", "", gin.H{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/parse/batch", "", gin.H{"lines": []string{"1 egg", "a pinch of mystery dust"}})
	require.Equal(t, http.StatusOK, w.Code)
	var batch struct {
		Items    []common.ParsedIngredient `json:"items"`
		Parsed   int                       `json:"parsed"`
		Unparsed int                       `json:"unparsed"`
	}
	decode(t, w, &batch)
	require.Len(t, batch.Items, 2)
	assert.Equal(t, "1 egg", batch.Items[0].OriginalText)
	assert.Equal(t, 1, batch.Parsed)
	assert.Equal(t, 1, batch.Unparsed)
}

func TestKnowledgeBaseEndpoints(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t, true)

	w := do(t, r, http.MethodPost, "/api/v1/kb/ingredients", "", gin.H{"name": "dragon fruit"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Ingredient common.KnownIngredient `json:"ingredient"`
		Created    bool                   `json:"created"`
	}
	decode(t, w, &created)
	assert.True(t, created.Created)
	assert.Equal(t, "Dragon fruit", created.Ingredient.Name)

	w = do(t, r, http.MethodPost, "/api/v1/kb/ingredients", "", gin.H{"name": "Dragon Fruit"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/kb/conflicts", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/kb/reload", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func importBatch(t *testing.T, r http.Handler, owner string, recipes interface{}) importer.Report {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/imports", owner, gin.H{"recipes": recipes})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report importer.Report
	decode(t, w, &report)
	return report
}

func TestImportAndShoppingFlow(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t, true)
	const owner = "alice"

	report := importBatch(t, r, owner, []gin.H{
		{"name": "Pancakes", "ingredients": []string{"2 cups milk", "2 eggs"}},
		{"name": "pancakes", "ingredients": []string{"1 cup milk"}},
		{"name": "Latte", "ingredients": []string{"1 cup milk"}},
	})
	assert.Equal(t, 2, report.Created)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, importer.ReasonDuplicateInBatch, report.Skipped[0].Reason)

	// same body again inside the window
	w := do(t, r, http.MethodPost, "/api/v1/imports", owner, gin.H{"recipes": []gin.H{
		{"name": "Pancakes", "ingredients": []string{"2 cups milk", "2 eggs"}},
		{"name": "pancakes", "ingredients": []string{"1 cup milk"}},
		{"name": "Latte", "ingredients": []string{"1 cup milk"}},
	}})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/recipes", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Recipes []common.Recipe `json:"recipes"`
	}
	decode(t, w, &listed)
	require.Len(t, listed.Recipes, 2)

	w = do(t, r, http.MethodGet, "/api/v1/recipes", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var others struct {
		Recipes []common.Recipe `json:"recipes"`
	}
	decode(t, w, &others)
	assert.Empty(t, others.Recipes)

	ids := map[string]string{}
	for _, rec := range listed.Recipes {
		ids[rec.Name] = rec.ID
	}

	w = do(t, r, http.MethodPost, "/api/v1/shopping-lists", owner, gin.H{
		"name":       "Weekend",
		"recipe_ids": []string{ids["Pancakes"]},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var list common.ShoppingList
	decode(t, w, &list)
	require.Len(t, list.Items, 2)

	w = do(t, r, http.MethodGet, "/api/v1/shopping-lists/"+list.ID, "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// check the milk line, then append a recipe that adds more milk
	var milkID string
	for _, it := range list.Items {
		if it.Unit == "cup" {
			milkID = it.ID
		}
	}
	require.NotEmpty(t, milkID)
	w = do(t, r, http.MethodPatch, "/api/v1/shopping-lists/"+list.ID+"/items/"+milkID, owner, gin.H{"is_checked": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/api/v1/shopping-lists/"+list.ID+"/recipes", owner, gin.H{
		"recipe_ids": []string{ids["Latte"]},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var appended struct {
		List    common.ShoppingList `json:"list"`
		Changes struct {
			Updated []common.ShoppingListItem `json:"updated"`
			Created []common.ShoppingListItem `json:"created"`
		} `json:"changes"`
	}
	decode(t, w, &appended)
	assert.Empty(t, appended.Changes.Created)
	require.Len(t, appended.Changes.Updated, 1)
	milk := appended.Changes.Updated[0]
	require.NotNil(t, milk.Quantity)
	assert.Equal(t, 3.0, *milk.Quantity)
	assert.False(t, milk.IsChecked)

	w = do(t, r, http.MethodDelete, "/api/v1/shopping-lists/"+list.ID+"/items/"+milkID, owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/shopping-lists/"+list.ID, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var after common.ShoppingList
	decode(t, w, &after)
	assert.Len(t, after.Items, 1)
}

func TestRecipeIngredientEndpoints(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t, true)

	report := importBatch(t, r, "", []gin.H{
		{"name": "Seasoning", "ingredients": []string{"salt and pepper"}},
	})
	require.Len(t, report.Outcomes, 1)
	id := report.Outcomes[0].RecipeID
	require.NotEmpty(t, id)

	w := do(t, r, http.MethodPost, "/api/v1/recipes/"+id+"/ingredients/x/split", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/recipes/"+id+"/ingredients/5/split", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/recipes/"+id+"/ingredients/0/split", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var split common.Recipe
	decode(t, w, &split)
	require.Len(t, split.Ingredients, 2)
	assert.True(t, split.HasUnparsedIngredients)

	w = do(t, r, http.MethodPut, "/api/v1/recipes/"+id+"/ingredients/0", "", gin.H{"text": "1 tsp salt"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, r, http.MethodPut, "/api/v1/recipes/"+id+"/ingredients/1", "", gin.H{"text": "1/2 tsp black pepper"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var edited common.Recipe
	decode(t, w, &edited)
	assert.False(t, edited.HasUnparsedIngredients)

	w = do(t, r, http.MethodPost, "/api/v1/recipes/"+id+"/repair", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var repaired recipe.RepairResult
	decode(t, w, &repaired)
	assert.False(t, repaired.Changed)

	w = do(t, r, http.MethodPost, "/api/v1/recipes/repair", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/recipes/"+id, "someone-else", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
