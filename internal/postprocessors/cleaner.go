package postprocessors

import (
	"context"
	"regexp"
	"strings"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
)

// Ensure Cleaner implements the interface.
var _ driven.PostProcessor = (*Cleaner)(nil)

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

// Cleaner normalises whitespace in extracted text before chunking.
// PDF extraction tends to produce ragged spacing and long newline runs;
// cleaning them keeps chunk boundaries meaningful.
//
// Cleaner rewrites doc.Content in place and passes passages through
// untouched, so it must run before the chunker in the pipeline.
type Cleaner struct{}

// NewCleaner creates a new whitespace cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Name returns the processor name.
func (c *Cleaner) Name() string {
	return "cleaner"
}

// Process normalises the document content.
func (c *Cleaner) Process(_ context.Context, doc *domain.Document, passages []domain.Passage) ([]domain.Passage, error) {
	if doc == nil {
		return passages, nil
	}

	content := doc.Content
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = spaceRun.ReplaceAllString(content, " ")
	content = newlineRun.ReplaceAllString(content, "\n\n")
	content = strings.TrimSpace(content)

	doc.Content = content
	return passages, nil
}
