package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingredient-engine/internal/infrastructure/config"
	"ingredient-engine/internal/pkg/common"
)

func TestClientComplete(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "split: 2 eggs", req.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Response{
			ID:      "cmpl-1",
			Choices: []Choice{{Message: Message{Role: "assistant", Content: ` {"name":"eggs"} `}}},
		})
	}))
	defer srv.Close()

	c := NewClient(config.RemoteConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "test-model", MaxTokens: 100})
	out, err := c.Complete(context.Background(), "  split: 2 eggs ")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"eggs"}`, out)
}

func TestClientCompleteErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "api error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := NewClient(config.RemoteConfig{BaseURL: srv.URL, APIKey: "k"})
			_, err := c.Complete(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrRemoteParseError))
		})
	}
}
