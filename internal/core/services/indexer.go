package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driving"
	"github.com/intellidoc-labs/intellidoc-cli/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.Indexer = (*IndexerService)(nil)

// Default indexer settings.
const (
	// DefaultIndexName is the name the corpus index is persisted
	// under.
	DefaultIndexName = "corpus"

	// DefaultEmbedBatchSize is the number of passages embedded per
	// backend call.
	DefaultEmbedBatchSize = 64
)

// IndexerService rebuilds the persisted vector index from a set of
// files. A rebuild is all-or-nothing: the previous index artifacts
// stay in place until the new ones are complete.
type IndexerService struct {
	loader   driven.DocumentLoader
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	store    driven.IndexStore

	indexName string
	batchSize int

	// In-flight rebuild tracking, keyed by index name
	mu     sync.Mutex
	active map[string]struct{}
}

// IndexerOption configures the indexer service.
type IndexerOption func(*IndexerService)

// WithIndexName sets the name the index is persisted under.
func WithIndexName(name string) IndexerOption {
	return func(s *IndexerService) {
		if name != "" {
			s.indexName = name
		}
	}
}

// WithEmbedBatchSize sets the number of passages embedded per call.
func WithEmbedBatchSize(n int) IndexerOption {
	return func(s *IndexerService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewIndexerService creates a new indexer service.
func NewIndexerService(
	loader driven.DocumentLoader,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	store driven.IndexStore,
	opts ...IndexerOption,
) *IndexerService {
	s := &IndexerService{
		loader:    loader,
		pipeline:  pipeline,
		embedder:  embedder,
		store:     store,
		indexName: DefaultIndexName,
		batchSize: DefaultEmbedBatchSize,
		active:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IndexName returns the name the index is persisted under.
func (s *IndexerService) IndexName() string {
	return s.indexName
}

// Rebuild indexes the union of new and existing file paths and
// atomically replaces the persisted index.
func (s *IndexerService) Rebuild(ctx context.Context, newPaths, existingPaths []string) (domain.RebuildResult, error) {
	var result domain.RebuildResult

	paths, err := mergePaths(newPaths, existingPaths)
	if err != nil {
		return result, err
	}
	if len(paths) == 0 {
		return result, domain.ErrEmptyCorpus
	}

	if err := s.acquire(s.indexName); err != nil {
		return result, err
	}
	defer s.release(s.indexName)

	logger.Section("Index Rebuild")
	logger.Info("Rebuilding index %q from %d files", s.indexName, len(paths))

	var passages []domain.Passage
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		doc, err := s.loader.Load(ctx, path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			result.FilesSkipped++
			continue
		}

		docPassages, err := s.pipeline.Process(ctx, doc)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			result.FilesSkipped++
			continue
		}
		if len(docPassages) == 0 {
			logger.Warn("Skipping %s: no extractable text", path)
			result.FilesSkipped++
			continue
		}

		logger.Debug("Loaded %s: %d passages", path, len(docPassages))
		result.FilesProcessed++
		passages = append(passages, docPassages...)
	}

	if len(passages) == 0 {
		return domain.RebuildResult{}, domain.ErrNoContent
	}

	vectors, err := s.embedAll(ctx, passages)
	if err != nil {
		// The previous index artifacts are untouched
		return domain.RebuildResult{}, fmt.Errorf("embedding passages: %w", err)
	}

	index, err := s.store.Build(passages, vectors, s.embedder.Config())
	if err != nil {
		return domain.RebuildResult{}, fmt.Errorf("building index: %w", err)
	}
	if err := s.store.Save(ctx, s.indexName, index); err != nil {
		return domain.RebuildResult{}, fmt.Errorf("saving index: %w", err)
	}

	result.PassagesIndexed = len(passages)
	logger.Info("Rebuild complete: %d files, %d skipped, %d passages",
		result.FilesProcessed, result.FilesSkipped, result.PassagesIndexed)
	return result, nil
}

// embedAll embeds passage texts in batches.
func (s *IndexerService) embedAll(ctx context.Context, passages []domain.Passage) ([][]float32, error) {
	vectors := make([][]float32, 0, len(passages))

	for start := 0; start < len(passages); start += s.batchSize {
		end := start + s.batchSize
		if end > len(passages) {
			end = len(passages)
		}

		texts := make([]string, 0, end-start)
		for _, p := range passages[start:end] {
			texts = append(texts, p.Content)
		}

		batch, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedding backend returned %d vectors for %d texts: %w",
				len(batch), len(texts), domain.ErrInvalidInput)
		}
		vectors = append(vectors, batch...)

		logger.Debug("Embedded %d/%d passages", end, len(passages))
	}

	return vectors, nil
}

// acquire registers an in-flight rebuild for the index name.
func (s *IndexerService) acquire(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, running := s.active[name]; running {
		return fmt.Errorf("index %q: %w", name, domain.ErrRebuildInProgress)
	}
	s.active[name] = struct{}{}
	return nil
}

// release clears the in-flight marker for the index name.
func (s *IndexerService) release(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, name)
}

// mergePaths resolves, deduplicates and sorts the union of both path
// sets. Sorting makes rebuild processing order deterministic.
func mergePaths(newPaths, existingPaths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var merged []string

	for _, path := range append(append([]string{}, newPaths...), existingPaths...) {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		merged = append(merged, abs)
	}

	sort.Strings(merged)
	return merged, nil
}
