// Package pdf provides a document loader for PDF files.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
	"github.com/intellidoc-labs/intellidoc-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader extracts plain text from PDF files.
// Extraction is a pure read; a file that cannot be parsed (corrupt,
// encrypted, not a PDF) fails in isolation without affecting the rest
// of a batch.
type Loader struct{}

// New creates a new PDF loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".pdf"}
}

// Load extracts the text of the PDF at path, page by page in order.
// Pages are separated by blank lines. Pages whose text cannot be
// decoded are skipped with a warning; only a file that yields no
// readable structure at all is an error.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}

	file, reader, err := pdf.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", abs, err)
	}
	defer file.Close()

	var text strings.Builder
	pageCount := reader.NumPage()

	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("pdf: skipping page %d of %s: %v", i, abs, err)
			continue
		}

		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(pageText)
	}

	logger.Debug("pdf: extracted %d pages from %s", pageCount, abs)

	return &domain.Document{
		ID:         abs,
		Path:       abs,
		Title:      strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)),
		Content:    text.String(),
		SizeBytes:  info.Size(),
		IngestedAt: time.Now(),
	}, nil
}
