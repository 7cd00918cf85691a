package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewEmbeddingService(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})

	assert.ErrorIs(t, err, domain.ErrAPIKeyMissing)
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "test-key"})

	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.model)
	assert.Equal(t, 1536, svc.dimensions)
}

func TestNewEmbeddingService_DimensionsOverride(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "test-key", Dimensions: 256})

	require.NoError(t, err)
	assert.Equal(t, 256, svc.dimensions)
}

func TestEmbeddingService_Config(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "test-key"})
	require.NoError(t, err)

	cfg := svc.Config()

	assert.Equal(t, domain.EmbeddingConfigVersion, cfg.FormatVersion)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, 1536, cfg.Dimensions)
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	var gotAuth string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/embeddings", r.URL.Path)

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"first", "second"}, req.Input)

		// Return data out of order to exercise index-based placement
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.3, 0.4}, "index": 1},
				{"embedding": []float64{0.1, 0.2}, "index": 0},
			},
		})
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})

	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2}, embeddings[0])
	assert.Equal(t, []float32{0.3, 0.4}, embeddings[1])
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestEmbeddingService_EmbedBatch_Empty(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty input")
	})

	embeddings, err := svc.EmbedBatch(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, embeddings)
}

func TestEmbeddingService_Embed(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{1, 2, 3}, "index": 0},
			},
		})
	})

	embedding, err := svc.Embed(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, embedding)
}

func TestEmbeddingService_EmbedBatch_AuthError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"text"})

	require.Error(t, err)
	assert.True(t, domain.IsBackendError(err, domain.BackendAuth))
}

func TestEmbeddingService_EmbedBatch_RateLimit(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"text"})

	require.Error(t, err)
	assert.True(t, domain.IsBackendError(err, domain.BackendRateLimit))
}

func TestEmbeddingService_EmbedBatch_ServerError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"text"})

	require.Error(t, err)
	assert.True(t, domain.IsBackendError(err, domain.BackendTransient))
}

func TestEmbeddingService_Ping(t *testing.T) {
	calls := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, svc.Ping(context.Background()))
	require.NoError(t, svc.Ping(context.Background()))

	// The connectivity check is cached after the first call
	assert.Equal(t, 1, calls)
}

func TestEmbeddingService_Ping_AuthError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	err := svc.Ping(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsBackendError(err, domain.BackendAuth))
}
