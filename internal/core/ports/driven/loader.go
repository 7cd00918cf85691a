package driven

import (
	"context"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

// DocumentLoader extracts plain text from a source file.
// Loading is a pure read; a file that cannot be parsed fails in
// isolation and the caller decides whether to skip it.
type DocumentLoader interface {
	// Extensions returns the lower-case file extensions this loader
	// handles, including the leading dot (e.g. ".pdf").
	Extensions() []string

	// Load extracts the document at path. The returned document has
	// its ID set to the resolved absolute path and Content populated
	// with the full extracted text.
	Load(ctx context.Context, path string) (*domain.Document, error)
}
