// Package domain defines the core business entities for IntelliDoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a source PDF with its extracted text
//   - Passage: a bounded slice of document text, the retrieval unit
//   - ChatTurn: one message in a conversation
//   - EmbeddingConfig: the versioned embedding-model record persisted
//     alongside every index
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
