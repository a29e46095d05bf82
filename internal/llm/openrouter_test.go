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

func openRouterServer(t *testing.T, handler http.HandlerFunc) Config {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := DefaultConfig()
	cfg.OpenRouterEndpoint = srv.URL
	cfg.OpenRouterKey = "sk-or-test"
	cfg.TimeoutMs = 5000
	return cfg
}

func TestOpenRouter_SendSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatCompletionRequest
	cfg := openRouterServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"choices":[{"message":{"content":"안녕하세요"}}]}`))
	})

	client := NewOpenRouterClient(cfg, NoopObserver{})
	reply, err := client.Send(context.Background(), "system context", []Message{{Role: RoleUser, Content: "hi"}}, 0.3)

	require.NoError(t, err)
	assert.Equal(t, "안녕하세요", reply.Text)
	assert.Equal(t, fallbackModels[0], reply.Model)
	assert.Empty(t, reply.Citations)
	assert.Equal(t, "Bearer sk-or-test", gotAuth)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.InDelta(t, 0.3, gotReq.Temperature, 1e-9)
}

func TestOpenRouter_FallsBackAcrossModels(t *testing.T) {
	var models []string
	cfg := openRouterServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		models = append(models, req.Model)
		if len(models) < 3 {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"message":"model not found"}}`))
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	client := NewOpenRouterClient(cfg, NoopObserver{})
	reply, err := client.Send(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}}, 0)

	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Text)
	assert.Equal(t, fallbackModels[:3], models)
	assert.Equal(t, fallbackModels[2], reply.Model)
}

func TestOpenRouter_ExplicitModelTriedFirst(t *testing.T) {
	var models []string
	cfg := openRouterServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})
	cfg.OpenRouterModel = "qwen/qwen-2.5-7b-instruct:free"

	client := NewOpenRouterClient(cfg, NoopObserver{})
	_, err := client.Send(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}}, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"qwen/qwen-2.5-7b-instruct:free"}, models)
}

func TestOpenRouter_FailsOnlyAfterEveryCandidate(t *testing.T) {
	calls := 0
	cfg := openRouterServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})

	client := NewOpenRouterClient(cfg, NoopObserver{})
	_, err := client.Send(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}}, 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllModelsFailed)
	assert.Equal(t, len(fallbackModels), calls)
	// Structured error body wins over HTTP status text.
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.NotContains(t, err.Error(), "Too Many Requests")
}

func TestOpenRouter_TransportClassSurvivesFallbackWrap(t *testing.T) {
	cfg := openRouterServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"No auth credentials found"}}`))
	})

	client := NewOpenRouterClient(cfg, NoopObserver{})
	_, err := client.Send(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}}, 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllModelsFailed)
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestOpenRouter_StatusTextWhenBodyUnstructured(t *testing.T) {
	cfg := openRouterServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})

	client := NewOpenRouterClient(cfg, NoopObserver{})
	_, err := client.Send(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}}, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
