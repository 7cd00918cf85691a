package driving

import (
	"context"

	"github.com/intellidoc-labs/intellidoc-cli/internal/core/domain"
)

// Chat is the conversational answering surface. Sessions are
// ephemeral, owned by the service, and addressed by a caller-supplied
// identifier.
type Chat interface {
	// Ask answers a question within the given session: it retrieves
	// relevant passages, composes a prompt with the session history,
	// calls the language model and appends the exchange to the
	// session.
	//
	// On a backend failure the turn fails as a whole - the session
	// history is left unchanged and the caller receives a typed
	// error, so the same question can be retried.
	Ask(ctx context.Context, sessionID, question string) (string, error)

	// History returns the ordered turns of a session. It fails with
	// domain.ErrSessionNotFound for unknown identifiers.
	History(sessionID string) ([]domain.ChatTurn, error)

	// Reset discards a session and its history.
	Reset(sessionID string)
}
