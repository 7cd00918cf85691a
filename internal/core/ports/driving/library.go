package driving

import (
	"context"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

// IndexStatus reports whether persisted index artifacts exist for the
// configured index name.
type IndexStatus struct {
	// Ready is true when both index artifacts are present.
	Ready bool

	// Documents is the number of files currently in the corpus
	// directory.
	Documents int
}

// Library manages the corpus directory backing the index.
// Removing a file does not touch an already-built index; staleness is
// tolerated until the next explicit rebuild.
type Library interface {
	// List returns the corpus files, sorted by name.
	List(ctx context.Context) ([]domain.DocumentInfo, error)

	// Add copies the file at srcPath into the corpus directory and
	// returns its entry.
	Add(ctx context.Context, srcPath string) (domain.DocumentInfo, error)

	// Remove deletes the named corpus file. It fails with
	// domain.ErrNotFound when no such file exists.
	Remove(ctx context.Context, name string) error

	// Paths returns the full paths of all corpus files, for passing
	// to Indexer.Rebuild as the existing corpus.
	Paths(ctx context.Context) ([]string, error)

	// Status reports corpus size and whether index artifacts exist.
	Status(ctx context.Context) (IndexStatus, error)
}
