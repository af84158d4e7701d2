package parser

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ingredient-engine/internal/pkg/common"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMapCache() *mapCache { return &mapCache{data: map[string]string{}} }

func (c *mapCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", common.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func TestRemoteParserUsesRemoteBreakdown(t *testing.T) {
	t.Parallel()
	snap := seededSnapshot(t)
	client := &mockCompleter{}
	client.On("Complete", mock.Anything, mock.Anything).
		Return("```json\n{\"quantity\": \"2-3\", \"unit\": \"Cloves\", \"name\": \"garlic\", \"note\": \"\", \"modifiers\": [\"minced\"]}\n```", nil).
		Once()

	p := NewRemoteParser(snap, client, newMapCache(), 500*time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, p.CallDelay())

	got := p.Parse(context.Background(), "2-3 garlic cloves, minced")
	assert.Equal(t, common.RangeQuantity("2-3"), got.Quantity)
	assert.Equal(t, "cloves", got.UnitText)
	require.NotNil(t, got.Unit)
	assert.Equal(t, "clove", got.Unit.Name)
	require.NotNil(t, got.Ingredient)
	assert.Equal(t, "Garlic", got.Ingredient.Name)
	assert.Equal(t, []string{"minced"}, got.ModifierTexts)
	assert.Equal(t, "2-3 garlic cloves, minced", got.OriginalText)

	// second call is served from the cache
	again := p.Parse(context.Background(), "2-3 garlic cloves, minced")
	assert.Equal(t, got, again)
	client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestRemoteParserFallsBackToRules(t *testing.T) {
	t.Parallel()
	snap := seededSnapshot(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "transport error", err: errors.New("connection refused")},
		{name: "malformed json", reply: "sorry, I cannot help"},
		{name: "empty name", reply: `{"quantity": 1, "unit": "", "name": ""}`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := &mockCompleter{}
			client.On("Complete", mock.Anything, mock.Anything).Return(tc.reply, tc.err)

			remote := NewRemoteParser(snap, client, nil, 0)
			rule := NewRuleParser(snap)

			line := "2 tbsp olive oil"
			assert.Equal(t, rule.Parse(ctx, line), remote.Parse(ctx, line))
			client.AssertExpectations(t)
		})
	}
}

func TestRemoteParserSkipsBlankLines(t *testing.T) {
	t.Parallel()
	client := &mockCompleter{}
	p := NewRemoteParser(seededSnapshot(t), client, nil, 0)

	got := p.Parse(context.Background(), "  ")
	assert.False(t, got.Parsed)
	client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}
