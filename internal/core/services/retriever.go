package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driving"
	"github.com/intellidoc-labs/intellidoc-cli/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// DefaultTopK is the number of passages retrieved when the caller does
// not specify one.
const DefaultTopK = 3

// RetrieverService answers similarity queries over the persisted
// index. Each query loads the current index snapshot, so a rebuild
// that completes between queries is picked up without restarting.
type RetrieverService struct {
	embedder  driven.EmbeddingService
	store     driven.IndexStore
	indexName string
	defaultK  int
}

// RetrieverOption configures the retriever service.
type RetrieverOption func(*RetrieverService)

// WithRetrieverIndexName sets the name of the index queried.
func WithRetrieverIndexName(name string) RetrieverOption {
	return func(s *RetrieverService) {
		if name != "" {
			s.indexName = name
		}
	}
}

// WithDefaultTopK sets the passage count used when k is not given.
func WithDefaultTopK(k int) RetrieverOption {
	return func(s *RetrieverService) {
		if k > 0 {
			s.defaultK = k
		}
	}
}

// NewRetrieverService creates a new retriever service.
func NewRetrieverService(
	embedder driven.EmbeddingService,
	store driven.IndexStore,
	opts ...RetrieverOption,
) *RetrieverService {
	s := &RetrieverService{
		embedder:  embedder,
		store:     store,
		indexName: DefaultIndexName,
		defaultK:  DefaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retrieve embeds the query and returns the k most similar passages.
func (s *RetrieverService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedPassage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = s.defaultK
	}

	logger.Debug("Retrieving top %d passages for %q", k, query)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	index, err := s.store.Load(ctx, s.indexName, s.embedder.Config())
	if err != nil {
		return nil, err
	}

	hits, err := index.Search(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	logger.Debug("Retrieved %d passages", len(hits))
	return hits, nil
}
