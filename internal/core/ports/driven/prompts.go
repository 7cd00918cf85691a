package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from user-editable files or embed
// them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name. When the
	// prompt cannot be found, implementations should fall back to a
	// sensible default or return an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptChatSystem is the system prompt for conversational
	// question answering. No format placeholders.
	PromptChatSystem = "chat_system"

	// PromptChatContext wraps the retrieved passages injected into a
	// chat turn. The template expects a %s placeholder for the
	// passage texts.
	PromptChatContext = "chat_context"
)
