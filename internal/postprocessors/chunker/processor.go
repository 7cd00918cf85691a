// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per passage.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// sentenceEnders are the characters that may close a sentence.
const sentenceEnders = ".!?"

// Processor splits document content into overlapping passages.
//
// Cuts prefer natural boundaries. Within a tolerance window before the
// hard cut point the processor looks for, in order: a paragraph break,
// a sentence end, a word boundary. When none is found it falls back to
// a hard cut at the chunk size. Splitting is deterministic: the same
// content and parameters always yield the same passages.
type Processor struct {
	chunkSize int
	overlap   int
	window    int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum passage size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between passages in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithBoundaryWindow sets how far before the hard cut point the
// processor searches for a natural boundary.
func WithBoundaryWindow(window int) Option {
	return func(p *Processor) {
		if window >= 0 {
			p.window = window
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		window:    -1,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	// Default boundary window is a fifth of the chunk size
	if p.window < 0 {
		p.window = p.chunkSize / 5
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into passages.
// Input passages are ignored; this processor creates new passages from
// document content. All offsets and sizes are in runes, so a hard cut
// never lands inside a multibyte character and every passage is valid
// UTF-8.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Passage) ([]domain.Passage, error) {
	if doc == nil || doc.Content == "" {
		// Empty content produces no passages
		return nil, nil
	}

	content := []rune(doc.Content)
	contentLen := len(content)

	estimated := (contentLen / (p.chunkSize - p.overlap)) + 1
	passages := make([]domain.Passage, 0, estimated)

	position := 0
	start := 0

	for start < contentLen {
		end := start + p.chunkSize
		if end >= contentLen {
			end = contentLen
		} else {
			end = p.cutPoint(content, start, end)
		}

		passages = append(passages, domain.Passage{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    string(content[start:end]),
			Position:   position,
		})
		position++

		if end == contentLen {
			break
		}

		// The next passage starts overlap characters before the cut,
		// so consecutive passages share exactly that many characters.
		start = end - p.overlap
	}

	return passages, nil
}

// cutPoint finds where to end the passage starting at start whose hard
// limit is hardEnd. It returns an index in (start+overlap, hardEnd].
func (p *Processor) cutPoint(content []rune, start, hardEnd int) int {
	// A cut at or before start+overlap would make no forward progress.
	floor := start + p.overlap + 1
	low := hardEnd - p.window
	if low < floor {
		low = floor
	}
	if low >= hardEnd {
		return hardEnd
	}

	// Paragraph break: cut before the blank line.
	for i := hardEnd - 2; i >= low; i-- {
		if content[i] == '\n' && content[i+1] == '\n' {
			return i
		}
	}

	// Sentence end: cut after the punctuation and its trailing space.
	for i := hardEnd - 1; i > low; i-- {
		if isSpace(content[i]) && strings.ContainsRune(sentenceEnders, content[i-1]) {
			return i
		}
	}

	// Word boundary: cut at the last space.
	for i := hardEnd - 1; i >= low; i-- {
		if isSpace(content[i]) {
			return i
		}
	}

	// No boundary in the window: hard cut.
	return hardEnd
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n'
}
