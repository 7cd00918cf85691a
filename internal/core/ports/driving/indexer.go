package driving

import (
	"context"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

// Indexer rebuilds the persisted index for a corpus of files.
// This is the contract the upload surface calls after saving files.
type Indexer interface {
	// Rebuild indexes the union of newly uploaded file paths and the
	// paths already known to the corpus, deduplicated by resolved
	// path, and atomically replaces the persisted index artifacts.
	//
	// It fails with domain.ErrEmptyCorpus when the merged set is
	// empty, domain.ErrNoContent when no file yields text, and
	// domain.ErrRebuildInProgress when a rebuild for the same index
	// name is already running. Files that cannot be parsed are
	// skipped and counted, not fatal.
	Rebuild(ctx context.Context, newPaths, existingPaths []string) (domain.RebuildResult, error)
}
