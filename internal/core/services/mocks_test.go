package services

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLoader implements driven.DocumentLoader over an in-memory map of
// path -> content. Paths in failPaths fail to load.
type mockLoader struct {
	mu        sync.Mutex
	docs      map[string]string
	failPaths map[string]error
	loaded    []string
}

func newMockLoader() *mockLoader {
	return &mockLoader{
		docs:      make(map[string]string),
		failPaths: make(map[string]error),
	}
}

func (m *mockLoader) Extensions() []string {
	return []string{".pdf"}
}

func (m *mockLoader) Load(_ context.Context, path string) (*domain.Document, error) {
	m.mu.Lock()
	m.loaded = append(m.loaded, path)
	m.mu.Unlock()

	if err, ok := m.failPaths[path]; ok {
		return nil, err
	}
	content := m.docs[path]
	return &domain.Document{
		ID:      path,
		Path:    path,
		Title:   filepath.Base(path),
		Content: content,
	}, nil
}

func (m *mockLoader) loadedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.loaded...)
}

// embedVocab drives the deterministic test embedder: dimension i of a
// vector counts occurrences of embedVocab[i] in the lowercased text.
// Texts sharing keywords end up with similar vectors, which is enough
// for retrieval ordering without a real model.
var embedVocab = []string{"clinic", "hours", "open", "parking", "billing", "insurance", "weekday", "saturday"}

func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	vec := make([]float32, len(embedVocab))
	for i, word := range embedVocab {
		vec[i] = float32(strings.Count(lower, word))
	}
	return vec
}

// mockEmbedder implements driven.EmbeddingService with keyword-count
// vectors. An optional gate channel blocks EmbedBatch until released,
// and entered signals that a batch call has started.
type mockEmbedder struct {
	mu         sync.Mutex
	embedErr   error
	batchCalls int
	gate       chan struct{}
	entered    chan struct{}
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return keywordVector(text), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	m.mu.Unlock()

	if m.entered != nil {
		select {
		case m.entered <- struct{}{}:
		default:
		}
	}
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = keywordVector(text)
	}
	return vectors, nil
}

func (m *mockEmbedder) Config() domain.EmbeddingConfig {
	return domain.EmbeddingConfig{
		FormatVersion: domain.EmbeddingConfigVersion,
		Model:         "keyword-mock",
		Dimensions:    len(embedVocab),
	}
}

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

func (m *mockEmbedder) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batchCalls
}

// mockLLM implements driven.LLMService, capturing the messages of the
// last call.
type mockLLM struct {
	mu       sync.Mutex
	reply    string
	chatErr  error
	messages []driven.ChatMessage
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.messages = append([]driven.ChatMessage{}, messages...)
	m.mu.Unlock()

	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

func (m *mockLLM) lastMessages() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]driven.ChatMessage{}, m.messages...)
}

// fakeRetriever implements driving.Retriever with fixed hits.
type fakeRetriever struct {
	hits        []domain.RetrievedPassage
	retrieveErr error
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, k int) ([]domain.RetrievedPassage, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	if k < len(f.hits) {
		return f.hits[:k], nil
	}
	return f.hits, nil
}
