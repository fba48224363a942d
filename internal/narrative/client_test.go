package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	require.ErrorIs(t, err, errMissingAPIKey)
}

func TestClient_Complete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.InDelta(t, 0.3, req.Temperature, 1e-9)
		assert.Equal(t, 8192, req.MaxTokens)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, "analyse this", req.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"ok\":true}"},"finish_reason":"stop"}]}`)
	}))
	defer ts.Close()

	c, err := NewClient(ClientConfig{APIKey: "secret", BaseURL: ts.URL + "/v1/", Model: "test-model"})
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), "analyse this")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, got)
}

func TestClient_Complete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "api error", status: http.StatusTooManyRequests, body: `{"error":{"message":"quota exceeded"}}`},
		{name: "bad status", status: http.StatusBadGateway, body: `{}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "garbage", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			c, err := NewClient(ClientConfig{APIKey: "k", BaseURL: ts.URL})
			require.NoError(t, err)

			_, err = c.Complete(context.Background(), "p")
			assert.Error(t, err)
		})
	}
}
