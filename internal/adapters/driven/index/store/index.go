package store

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an immutable in-memory similarity index. Searches scan all
// vectors; corpora here are small enough that brute force beats the
// bookkeeping of an approximate structure.
type Index struct {
	passages []domain.Passage
	norms    []float64
	cfg      domain.EmbeddingConfig
}

// newIndex wraps passages whose Embedding fields are already set.
// Vector norms are precomputed once so each search only pays for the
// dot products.
func newIndex(passages []domain.Passage, cfg domain.EmbeddingConfig) *Index {
	norms := make([]float64, len(passages))
	for i, p := range passages {
		norms[i] = vectorNorm(p.Embedding)
	}
	return &Index{
		passages: passages,
		norms:    norms,
		cfg:      cfg,
	}
}

// Search finds the k most similar passages to the query vector,
// ordered by descending cosine similarity. Ties keep insertion order.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedPassage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d: %w", k, domain.ErrInvalidInput)
	}
	if len(query) != idx.cfg.Dimensions {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(query), idx.cfg.Dimensions, domain.ErrInvalidInput)
	}

	queryNorm := vectorNorm(query)

	hits := make([]domain.RetrievedPassage, len(idx.passages))
	for i, p := range idx.passages {
		hits[i] = domain.RetrievedPassage{
			Passage: p,
			Score:   cosine(query, queryNorm, p.Embedding, idx.norms[i]),
		}
	}

	// Stable sort keeps insertion order for equal scores
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Passages returns the indexed passages in insertion order.
func (idx *Index) Passages() []domain.Passage {
	return idx.passages
}

// Len returns the number of indexed passages.
func (idx *Index) Len() int {
	return len(idx.passages)
}

// Config returns the embedding configuration the index was built with.
func (idx *Index) Config() domain.EmbeddingConfig {
	return idx.cfg
}

// cosine computes cosine similarity given precomputed norms.
// A zero vector on either side scores zero rather than NaN.
func cosine(query []float32, queryNorm float64, vec []float32, vecNorm float64) float64 {
	if queryNorm == 0 || vecNorm == 0 {
		return 0
	}
	var dot float64
	for i := range query {
		dot += float64(query[i]) * float64(vec[i])
	}
	return dot / (queryNorm * vecNorm)
}

func vectorNorm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
