package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.chunkSize)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap >= p.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p := New()
	doc := &domain.Document{
		ID:      "test-doc",
		Content: "",
	}

	passages, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passages) != 0 {
		t.Errorf("expected 0 passages for empty content, got %d", len(passages))
	}
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{
		ID:      "test-doc",
		Content: "This is a small piece of content.",
	}

	passages, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passages) != 1 {
		t.Fatalf("expected 1 passage for small content, got %d", len(passages))
	}

	if passages[0].DocumentID != doc.ID {
		t.Errorf("expected DocumentID '%s', got '%s'", doc.ID, passages[0].DocumentID)
	}
	if passages[0].Content != doc.Content {
		t.Errorf("expected passage content to match document content")
	}
	if passages[0].Position != 0 {
		t.Errorf("expected position 0, got %d", passages[0].Position)
	}
}

func TestProcessor_Process_LengthBound(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))

	doc := &domain.Document{
		ID:      "test-doc",
		Content: strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50),
	}

	passages, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passages) < 2 {
		t.Fatalf("expected multiple passages, got %d", len(passages))
	}

	for i, passage := range passages {
		if len(passage.Content) > 100 {
			t.Errorf("passage %d exceeds chunk size: %d chars", i, len(passage.Content))
		}
		if passage.Position != i {
			t.Errorf("passage %d has position %d", i, passage.Position)
		}
	}
}

func TestProcessor_Process_OverlapShared(t *testing.T) {
	p := New(WithChunkSize(120), WithOverlap(30))

	doc := &domain.Document{
		ID:      "test-doc",
		Content: strings.Repeat("Indexing turns documents into searchable passages. ", 40),
	}

	passages, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every consecutive pair shares exactly the configured overlap.
	for i := 1; i < len(passages); i++ {
		prev := passages[i-1].Content
		tail := prev[len(prev)-30:]
		head := passages[i].Content[:30]
		if tail != head {
			t.Fatalf("passages %d/%d do not share the overlap:\n%q\n%q", i-1, i, tail, head)
		}
	}
}

func TestProcessor_Process_Reconstruction(t *testing.T) {
	// Concatenating the first passage with every later passage's
	// non-overlap region must reproduce the original text exactly.
	contents := []string{
		strings.Repeat("Paragraph one.\n\nParagraph two has more words in it. ", 30),
		strings.Repeat("x", 997),
		"short",
		strings.Repeat("No breaks here whatsoever", 60),
	}

	p := New(WithChunkSize(200), WithOverlap(40))

	for _, content := range contents {
		doc := &domain.Document{ID: "doc", Content: content}
		passages, err := p.Process(context.Background(), doc, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var rebuilt strings.Builder
		for i, passage := range passages {
			if i == 0 {
				rebuilt.WriteString(passage.Content)
				continue
			}
			rebuilt.WriteString(passage.Content[40:])
		}

		if rebuilt.String() != content {
			t.Fatalf("reconstruction mismatch: got %d chars, want %d",
				rebuilt.Len(), len(content))
		}
	}
}

func TestProcessor_Process_Deterministic(t *testing.T) {
	p := New(WithChunkSize(150), WithOverlap(25))
	doc := &domain.Document{
		ID:      "doc",
		Content: strings.Repeat("Same input must always produce the same cuts. ", 40),
	}

	first, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("passage counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Content != second[i].Content {
			t.Fatalf("passage %d differs between runs", i)
		}
	}
}

func TestProcessor_Process_PrefersSentenceBoundary(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(10), WithBoundaryWindow(40))

	// Sentences of ~30 chars; a cut inside a sentence would only
	// happen if the boundary search failed.
	doc := &domain.Document{
		ID:      "doc",
		Content: strings.Repeat("Every sentence here ends well. ", 20),
	}

	passages, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, passage := range passages[:len(passages)-1] {
		trimmed := strings.TrimRight(passage.Content, " \n")
		if !strings.HasSuffix(trimmed, ".") {
			t.Errorf("passage %d does not end at a sentence boundary: %q", i, passage.Content)
		}
	}
}

func TestProcessor_Process_HardCutFallback(t *testing.T) {
	p := New(WithChunkSize(50), WithOverlap(10))

	// No spaces or punctuation anywhere: every cut must be a hard cut
	// at exactly the chunk size.
	doc := &domain.Document{
		ID:      "doc",
		Content: strings.Repeat("a", 200),
	}

	passages, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, passage := range passages[:len(passages)-1] {
		if len(passage.Content) != 50 {
			t.Errorf("passage %d: expected hard cut at 50 chars, got %d", i, len(passage.Content))
		}
	}
}

func TestProcessor_Process_MultibyteHardCut(t *testing.T) {
	p := New(WithChunkSize(101), WithOverlap(10))

	// Multibyte runes with no boundaries anywhere: hard cuts and the
	// overlap restart must land between runes, never inside one.
	doc := &domain.Document{
		ID:      "doc",
		Content: strings.Repeat("é", 300),
	}

	passages, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passages) < 2 {
		t.Fatalf("expected multiple passages, got %d", len(passages))
	}

	var rebuilt []rune
	for i, passage := range passages {
		if !utf8.ValidString(passage.Content) {
			t.Errorf("passage %d is not valid UTF-8: %q", i, passage.Content)
		}
		runes := []rune(passage.Content)
		if len(runes) > 101 {
			t.Errorf("passage %d: expected at most 101 runes, got %d", i, len(runes))
		}
		if i == 0 {
			rebuilt = append(rebuilt, runes...)
		} else {
			rebuilt = append(rebuilt, runes[10:]...)
		}
	}

	if string(rebuilt) != doc.Content {
		t.Error("concatenated non-overlap regions do not reconstruct the content")
	}
}
