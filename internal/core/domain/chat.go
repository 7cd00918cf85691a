package domain

// Chat roles. A session only ever contains these two.
const (
	// RoleUser marks a turn authored by the end user.
	RoleUser = "user"

	// RoleAssistant marks a turn authored by the model.
	RoleAssistant = "assistant"
)

// ChatTurn is one message in a conversation.
type ChatTurn struct {
	// Role is RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}
