// Package ollama provides an embedding service adapter using Ollama.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
	"github.com/intellidoc-labs/intellidoc-cli/internal/logger"
	"github.com/intellidoc-labs/intellidoc-cli/internal/ratelimit"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "all-minilm"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 384 // all-minilm default

	backendName = "ollama"
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: all-minilm).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Dimensions is the embedding vector size (model-dependent).
	Dimensions int

	// RateLimit configures client-side throttling of outbound calls.
	RateLimit ratelimit.Config
}

// EmbeddingService generates embeddings using Ollama.
//
// Ollama loads model weights on the first embedding request. The warm
// up is guarded by a once-lock: the first caller blocks until the model
// is resident, later callers reuse it.
type EmbeddingService struct {
	client     *http.Client
	limiter    *ratelimit.Limiter
	baseURL    string
	model      string
	dimensions int

	warmOnce sync.Once
	warmErr  error
}

// embedRequest is the Ollama API request format.
type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embedResponse is the Ollama API response format.
type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    ratelimit.New(cfg.RateLimit),
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	s.warmOnce.Do(func() {
		s.warmErr = s.warm(ctx)
	})
	if s.warmErr != nil {
		return nil, s.warmErr
	}

	return s.embed(ctx, text)
}

// EmbedBatch generates embeddings for multiple texts. The Ollama
// embeddings endpoint is single-prompt, so the batch is sequential.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d of %d: %w", i+1, len(texts), err)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// warm forces the model to load by embedding a trivial prompt.
func (s *EmbeddingService) warm(ctx context.Context) error {
	logger.Debug("ollama: warming embedding model %s", s.model)
	_, err := s.embed(ctx, "warmup")
	return err
}

func (s *EmbeddingService) embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, s.wrapErr(err)
	}

	reqBody := embedRequest{
		Model:  s.model,
		Prompt: text,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/embeddings",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.wrapErr(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.wrapErr(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, s.statusErr(resp.StatusCode, body)
	}

	var embedResp embedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(embedResp.Embedding) == 0 {
		return nil, &domain.BackendError{
			Kind:    domain.BackendTransient,
			Backend: backendName,
			Err:     errors.New("empty embedding returned"),
		}
	}

	embedding := make([]float32, len(embedResp.Embedding))
	for i, v := range embedResp.Embedding {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

// Config returns the embedding configuration record for this service.
func (s *EmbeddingService) Config() domain.EmbeddingConfig {
	return domain.EmbeddingConfig{
		FormatVersion: domain.EmbeddingConfigVersion,
		Model:         s.model,
		Dimensions:    s.dimensions,
		Normalised:    false,
	}
}

// Ping validates the Ollama server is reachable.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return s.wrapErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return s.statusErr(resp.StatusCode, body)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// wrapErr classifies a transport-level failure.
func (s *EmbeddingService) wrapErr(err error) error {
	kind := domain.BackendTransient
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = domain.BackendTimeout
	}
	return &domain.BackendError{Kind: kind, Backend: backendName, Err: err}
}

// statusErr classifies an HTTP error response.
func (s *EmbeddingService) statusErr(status int, body []byte) error {
	kind := domain.BackendTransient
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = domain.BackendAuth
	case http.StatusTooManyRequests:
		kind = domain.BackendRateLimit
		s.limiter.RecordRateLimitError(0)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		kind = domain.BackendTimeout
	}
	return &domain.BackendError{
		Kind:    kind,
		Backend: backendName,
		Err:     fmt.Errorf("status %d: %s", status, string(body)),
	}
}
