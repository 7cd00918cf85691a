package driven

import (
	"context"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

// VectorIndex is a loaded, immutable similarity index over one corpus.
// A loaded index is a complete snapshot: queries never observe a
// partially written index, and concurrent searches are safe.
type VectorIndex interface {
	// Search finds the k nearest passages to the query vector, ordered
	// by descending similarity. Ties are broken by insertion order.
	// At most min(k, Len()) results are returned.
	Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedPassage, error)

	// Passages returns the indexed passages in insertion order.
	Passages() []domain.Passage

	// Len returns the number of indexed passages.
	Len() int

	// Config returns the embedding configuration the index was built
	// with.
	Config() domain.EmbeddingConfig
}

// IndexStore builds vector indexes and moves them to and from durable
// storage. An index is persisted as two coupled artifacts (the vector
// structure and its embedding configuration); both must be present and
// mutually consistent for Load to succeed.
type IndexStore interface {
	// Build constructs an index from passages and their vectors.
	// It fails with domain.ErrInvalidInput when the slices differ in
	// length or a vector does not match cfg.Dimensions.
	Build(passages []domain.Passage, vectors [][]float32, cfg domain.EmbeddingConfig) (VectorIndex, error)

	// Save persists the index under the given name, replacing any
	// previous artifacts atomically: a failed save never leaves a
	// half-written index behind.
	Save(ctx context.Context, name string, index VectorIndex) error

	// Load reads the index persisted under name. It fails with
	// domain.ErrNotFound when no artifacts exist and with
	// domain.ErrCorruptIndex when they are unreadable or were built
	// under a configuration incompatible with expect.
	Load(ctx context.Context, name string, expect domain.EmbeddingConfig) (VectorIndex, error)

	// Exists reports whether both artifacts are present for name,
	// without reading them.
	Exists(name string) bool
}
