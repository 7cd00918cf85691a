package driving

import (
	"context"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

// Retriever answers "top-k passages for this query" over a loaded
// index. It has no side effects.
type Retriever interface {
	// Retrieve embeds the query and returns the k most similar
	// passages, most similar first. k <= 0 selects the configured
	// default.
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedPassage, error)
}
