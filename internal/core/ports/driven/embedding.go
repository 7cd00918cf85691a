package driven

import (
	"context"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - OpenAI-compatible APIs (text-embedding-3-small, ...)
//   - Ollama (nomic-embed-text, all-minilm)
//
// Implementations load or warm their model at most once per process;
// the first caller blocks until the model is ready and later callers
// reuse it.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Config returns the embedding configuration record. Every index
	// built with this service carries this record, and loads are
	// refused when it does not match.
	Config() domain.EmbeddingConfig

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
