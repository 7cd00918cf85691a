package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewLLMService(Config{BaseURL: server.URL})
}

func TestLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(Config{})

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultModel, svc.ModelName())
}

func TestLLMService_Chat(t *testing.T) {
	var gotReq chatRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := chatResponse{Done: true}
		resp.Message.Content = "The clinic opens at 9am."
		_ = json.NewEncoder(w).Encode(resp)
	})

	reply, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: "system", Content: "Answer from the documents."},
		{Role: "user", Content: "When does the clinic open?"},
	}, driven.ChatOptions{MaxTokens: 256, Temperature: 0.1})

	require.NoError(t, err)
	assert.Equal(t, "The clinic opens at 9am.", reply)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	require.NotNil(t, gotReq.Options)
	assert.Equal(t, 256, gotReq.Options.NumPredict)
}

func TestLLMService_Chat_DaemonError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse{Error: "model not found"})
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "hi"}}, driven.ChatOptions{})

	require.Error(t, err)
	assert.True(t, domain.IsBackendError(err, domain.BackendTransient))
}

func TestLLMService_Chat_RateLimit(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "hi"}}, driven.ChatOptions{})

	require.Error(t, err)
	assert.True(t, domain.IsBackendError(err, domain.BackendRateLimit))
}

func TestLLMService_Ping(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
}

func TestLLMService_Ping_Unreachable(t *testing.T) {
	svc := NewLLMService(Config{BaseURL: "http://127.0.0.1:1"})

	err := svc.Ping(context.Background())

	require.Error(t, err)
	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
}
