package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stratagem-io/stratagem/llm"
	_ "github.com/stratagem-io/stratagem/llm/providers" // Register providers
	"github.com/stratagem-io/stratagem/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRegistry builds a single-model registry pointing at the given URL.
func testRegistry(t *testing.T, provider, url string) *model.Registry {
	t.Helper()
	reg, err := model.NewRegistry(map[string]*model.Endpoint{
		"test-model": {
			Provider:  provider,
			URL:       url,
			Model:     "test-model",
			MaxTokens: 1000,
		},
	}, "test-model")
	require.NoError(t, err)
	return reg
}

func openAIFixture(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": 1677652288,
		"model":   "test-model",
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]string{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     10,
			"completion_tokens": 8,
			"total_tokens":      18,
		},
	}
}

func TestClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAIFixture(`{"selected_modules": []}`))
	}))
	defer server.Close()

	client := llm.NewClient(testRegistry(t, "ollama", server.URL))

	resp, err := client.Complete(context.Background(), llm.Request{
		Model: "test-model",
		Messages: []llm.Message{
			{Role: "user", Content: "Analyze this challenge"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"selected_modules": []}`, resp.Content)
	assert.Equal(t, 18, resp.Usage.TotalTokens)
	assert.NotEmpty(t, resp.RequestID)
	assert.False(t, resp.Cached)
}

func TestClient_Complete_MissingCredential(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Setenv("OPENAI_API_KEY", "")

	client := llm.NewClient(testRegistry(t, "openai", server.URL))

	_, err := client.Complete(context.Background(), llm.Request{
		Model:    "test-model",
		Messages: []llm.Message{{Role: "user", Content: "hello"}},
	})

	require.Error(t, err)
	assert.True(t, llm.IsConfiguration(err))
	assert.Equal(t, int64(0), hits.Load(), "no network call may be attempted without a credential")
}

func TestClient_Complete_UnknownModel(t *testing.T) {
	client := llm.NewClient(testRegistry(t, "ollama", "http://localhost:1"))

	_, err := client.Complete(context.Background(), llm.Request{
		Model:    "not-on-the-list",
		Messages: []llm.Message{{Role: "user", Content: "hello"}},
	})

	require.Error(t, err)
	assert.True(t, llm.IsConfiguration(err))
}

func TestClient_Complete_ServiceError(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := llm.NewClient(testRegistry(t, "ollama", server.URL))

	_, err := client.Complete(context.Background(), llm.Request{
		Model:    "test-model",
		Messages: []llm.Message{{Role: "user", Content: "hello"}},
	})

	require.Error(t, err)
	assert.True(t, llm.IsService(err))
	// Single best-effort attempt: no retries.
	assert.Equal(t, int64(1), hits.Load())
}

func TestClient_Complete_FatalStatusesAreConfiguration(t *testing.T) {
	// 400/401/403 cannot be fixed by retriggering the round; they are
	// the operator's problem, not the service's.
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "rejected"}`, status)
		}))

		client := llm.NewClient(testRegistry(t, "ollama", server.URL))

		_, err := client.Complete(context.Background(), llm.Request{
			Model:    "test-model",
			Messages: []llm.Message{{Role: "user", Content: "hello"}},
		})

		require.Error(t, err)
		assert.True(t, llm.IsConfiguration(err), "status %d must classify as configuration", status)
		server.Close()
	}
}

func TestClient_Complete_CacheHit(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAIFixture("cached answer"))
	}))
	defer server.Close()

	client := llm.NewClient(testRegistry(t, "ollama", server.URL),
		llm.WithCache(llm.NewCache(llm.DefaultCacheTTL)))

	req := llm.Request{
		Model:    "test-model",
		Messages: []llm.Message{{Role: "user", Content: "same prompt"}},
	}

	first, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Content, second.Content)
	assert.NotEqual(t, first.RequestID, second.RequestID)

	assert.Equal(t, int64(1), hits.Load(), "identical (prompt, model) pair must be served from cache")

	// A different prompt misses the cache.
	_, err = client.Complete(context.Background(), llm.Request{
		Model:    "test-model",
		Messages: []llm.Message{{Role: "user", Content: "different prompt"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}
