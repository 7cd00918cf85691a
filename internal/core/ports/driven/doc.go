// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentLoader: extracts text from source files
//   - PostProcessorPipeline: turns extracted text into passages
//   - EmbeddingService: maps text to vectors
//   - IndexStore: builds, persists and loads vector indexes
//
// # Optional Interfaces
//
//   - LLMService: language-model completion. Only the conversational
//     answering path needs it; indexing and retrieval work without it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
