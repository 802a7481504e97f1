package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	var gotReq map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "  Last week in Widgets\n\nA busy week.  "}}]}`))
	}))
	defer server.Close()

	p := NewOpenRouterProvider("test/model", server.URL, "test-key")

	out, err := p.Summarize(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, "Last week in Widgets\n\nA busy week.", out, "completion text is trimmed")

	assert.Equal(t, "test/model", gotReq["model"])
	messages, ok := gotReq["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "summarize this", msg["content"])
}

func TestSummarize_HTTPErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	p := NewOpenRouterProvider("test/model", server.URL, "test-key")

	_, err := p.Summarize(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestSummarize_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	p := NewOpenRouterProvider("test/model", server.URL, "test-key")

	_, err := p.Summarize(context.Background(), "prompt")
	assert.ErrorContains(t, err, "no choices")
}

func TestSummarize_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	p := NewOpenRouterProvider("test/model", server.URL, "test-key")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Summarize(ctx, "prompt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewOpenRouterProvider_Defaults(t *testing.T) {
	p := NewOpenRouterProvider("test/model", "", "key")
	assert.Equal(t, DefaultBaseURL, p.baseURL)
	assert.Equal(t, "test/model", p.Model())

	trimmed := NewOpenRouterProvider("test/model", "http://example.com/v1/", "key")
	assert.Equal(t, "http://example.com/v1", trimmed.baseURL)
}
