package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driven"
	"github.com/intellidoc-labs/intellidoc-cli/internal/core/ports/driving"
	"github.com/intellidoc-labs/intellidoc-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.Chat = (*ChatService)(nil)

// Default chat settings.
const (
	// DefaultContextPassages is the number of passages injected into
	// each turn.
	DefaultContextPassages = 3

	// DefaultMaxTokens caps the completion length.
	DefaultMaxTokens = 1024

	// DefaultTemperature keeps answers close to the source text.
	DefaultTemperature = 0.1
)

// builtinBoilerplate lists answer lead-ins models produce despite being
// told to answer naturally. Matching is a case-insensitive prefix test.
var builtinBoilerplate = []string{
	"According to the document, ",
	"According to the documents, ",
	"Based on the document, ",
	"Based on the provided document, ",
	"The manual states that ",
	"The document states that ",
}

// fallbackSystemPrompt is used when no prompt store is configured.
const fallbackSystemPrompt = `You are a helpful assistant that answers questions about the user's documents. Answer naturally from the supplied excerpts, and say you don't know when they don't contain the answer.`

// fallbackContextTemplate wraps retrieved passages when no prompt
// store is configured. The %s placeholder receives the passage texts.
const fallbackContextTemplate = "Relevant document excerpts:\n\n%s\n\nAnswer the question using these excerpts."

// session holds one conversation. Its mutex serialises turns so
// concurrent questions in the same session cannot interleave history.
type session struct {
	mu    sync.Mutex
	turns []domain.ChatTurn
}

// ChatService answers questions conversationally over the indexed
// corpus. Sessions are in-memory only and vanish with the process.
type ChatService struct {
	retriever driving.Retriever
	llm       driven.LLMService
	prompts   driven.PromptStore

	contextK    int
	maxTokens   int
	temperature float64
	boilerplate []string

	mu       sync.RWMutex
	sessions map[string]*session
}

// ChatOption configures the chat service.
type ChatOption func(*ChatService)

// WithContextPassages sets how many passages each turn retrieves.
func WithContextPassages(k int) ChatOption {
	return func(s *ChatService) {
		if k > 0 {
			s.contextK = k
		}
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) ChatOption {
	return func(s *ChatService) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ChatOption {
	return func(s *ChatService) {
		if t > 0 {
			s.temperature = t
		}
	}
}

// WithBoilerplatePrefixes adds lead-ins to strip from answers, on top
// of the built-in set.
func WithBoilerplatePrefixes(prefixes []string) ChatOption {
	return func(s *ChatService) {
		s.boilerplate = append(s.boilerplate, prefixes...)
	}
}

// WithPromptStore sets the store customisable prompts load from.
func WithPromptStore(store driven.PromptStore) ChatOption {
	return func(s *ChatService) {
		s.prompts = store
	}
}

// NewChatService creates a new chat service.
func NewChatService(retriever driving.Retriever, llm driven.LLMService, opts ...ChatOption) *ChatService {
	s := &ChatService{
		retriever:   retriever,
		llm:         llm,
		contextK:    DefaultContextPassages,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		boilerplate: append([]string{}, builtinBoilerplate...),
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask answers a question within the given session.
func (s *ChatService) Ask(ctx context.Context, sessionID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}

	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	hits, err := s.retriever.Retrieve(ctx, question, s.contextK)
	if err != nil {
		return "", fmt.Errorf("retrieving context: %w", err)
	}

	messages, err := s.composeMessages(sess.turns, hits, question)
	if err != nil {
		return "", err
	}

	logger.Debug("Asking %s with %d context passages, %d history turns",
		s.llm.ModelName(), len(hits), len(sess.turns))

	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		// History unchanged so the question can be retried
		return "", err
	}

	answer = s.sanitise(answer)

	sess.turns = append(sess.turns,
		domain.ChatTurn{Role: domain.RoleUser, Content: question},
		domain.ChatTurn{Role: domain.RoleAssistant, Content: answer},
	)
	return answer, nil
}

// History returns a copy of the ordered turns of a session.
func (s *ChatService) History(sessionID string) ([]domain.ChatTurn, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, domain.ErrSessionNotFound)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	turns := make([]domain.ChatTurn, len(sess.turns))
	copy(turns, sess.turns)
	return turns, nil
}

// Reset discards a session and its history.
func (s *ChatService) Reset(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// session returns the session for id, creating it on first use.
func (s *ChatService) session(id string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[id]; ok {
		return sess
	}
	sess = &session{}
	s.sessions[id] = sess
	return sess
}

// composeMessages builds the conversation sent to the model: system
// prompt, prior turns, then the question with its retrieved context.
func (s *ChatService) composeMessages(turns []domain.ChatTurn, hits []domain.RetrievedPassage, question string) ([]driven.ChatMessage, error) {
	systemPrompt, err := s.loadPrompt(driven.PromptChatSystem, fallbackSystemPrompt)
	if err != nil {
		return nil, err
	}
	contextTemplate, err := s.loadPrompt(driven.PromptChatContext, fallbackContextTemplate)
	if err != nil {
		return nil, err
	}

	messages := make([]driven.ChatMessage, 0, len(turns)+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: systemPrompt})

	for _, turn := range turns {
		messages = append(messages, driven.ChatMessage{Role: turn.Role, Content: turn.Content})
	}

	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		texts = append(texts, hit.Passage.Content)
	}

	content := question
	if len(texts) > 0 {
		content = fmt.Sprintf(contextTemplate, strings.Join(texts, "\n\n---\n\n")) +
			"\n\nQuestion: " + question
	}
	messages = append(messages, driven.ChatMessage{Role: "user", Content: content})

	return messages, nil
}

// loadPrompt reads a named prompt, falling back when no store is set.
func (s *ChatService) loadPrompt(name, fallback string) (string, error) {
	if s.prompts == nil {
		return fallback, nil
	}
	prompt, err := s.prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	return prompt, nil
}

// sanitise strips boilerplate lead-ins and restores the leading
// capital. Stripping repeats until no prefix matches, since models
// occasionally stack lead-ins.
func (s *ChatService) sanitise(answer string) string {
	answer = strings.TrimSpace(answer)

	for stripped := true; stripped; {
		stripped = false
		for _, prefix := range s.boilerplate {
			if len(answer) > len(prefix) && strings.EqualFold(answer[:len(prefix)], prefix) {
				answer = answer[len(prefix):]
				stripped = true
			}
		}
	}

	r, size := utf8.DecodeRuneInString(answer)
	if r != utf8.RuneError && unicode.IsLower(r) {
		answer = string(unicode.ToUpper(r)) + answer[size:]
	}
	return answer
}
