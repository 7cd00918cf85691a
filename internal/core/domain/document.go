package domain

import "time"

// Document represents a source file with its extracted text.
// It is the canonical representation after text extraction.
type Document struct {
	// ID is the unique identity of the document. For files this is
	// the resolved absolute path, so the same file is never counted
	// twice in one corpus.
	ID string

	// Path is the location of the backing file.
	Path string

	// Title is the human-readable title, usually the file name.
	Title string

	// Content is the full extracted text before chunking.
	Content string

	// SizeBytes is the size of the backing file.
	SizeBytes int64

	// IngestedAt is when the document was extracted.
	IngestedAt time.Time
}

// Passage is a contiguous slice of a document's extracted text.
// Documents are split into passages for granular retrieval.
type Passage struct {
	// ID is the unique identifier for the passage.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text of this passage.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for semantic search.
	Embedding []float32
}

// RetrievedPassage is a passage returned from a similarity search.
type RetrievedPassage struct {
	// Passage is the matched passage.
	Passage Passage

	// Score is the cosine similarity to the query (higher is closer).
	Score float64
}

// RebuildResult reports what an index rebuild processed, for caller
// reporting. It mirrors the admin surface's success message.
type RebuildResult struct {
	// FilesProcessed is the number of files that yielded text.
	FilesProcessed int

	// FilesSkipped is the number of files that failed extraction and
	// were skipped.
	FilesSkipped int

	// PassagesIndexed is the total number of passages embedded.
	PassagesIndexed int
}

// DocumentInfo describes a corpus file without its content.
// Used by the management surface to list the library.
type DocumentInfo struct {
	// Name is the file name within the corpus directory.
	Name string

	// Path is the full path of the backing file.
	Path string

	// SizeBytes is the file size.
	SizeBytes int64

	// ModifiedAt is the file's last modification time.
	ModifiedAt time.Time
}
