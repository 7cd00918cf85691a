package driven

import "context"

// LLMService provides language-model completion for answer synthesis.
//
// Implementations may include:
//   - Groq (llama-3.3-70b-versatile)
//   - OpenAI-compatible APIs
//
// Failures are reported as *domain.BackendError so callers can
// distinguish auth, rate-limit, timeout and transient causes.
type LLMService interface {
	// Chat conducts a multi-turn conversation and returns the
	// assistant's reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
