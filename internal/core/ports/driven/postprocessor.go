package driven

import (
	"context"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

// PostProcessor processes document content to produce passages.
// PostProcessors are chained in a pipeline (e.g. cleaning, chunking).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns passages. A processor that
	// modifies passages receives and returns them; a processor that
	// creates passages (the chunker) receives nil and returns new ones.
	Process(ctx context.Context, doc *domain.Document, passages []domain.Passage) ([]domain.Passage, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order and
	// returns the final passages.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Passage, error)
}
