package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// For index loads it means no index has been built yet.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as a
	// passage/vector count mismatch when building an index.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyCorpus indicates a rebuild was requested with no files.
	ErrEmptyCorpus = errors.New("no documents in corpus")

	// ErrNoContent indicates none of the corpus files yielded
	// extractable text.
	ErrNoContent = errors.New("no content found in documents")

	// ErrCorruptIndex indicates a persisted index is unreadable or was
	// built under an incompatible embedding configuration. The caller
	// should rebuild.
	ErrCorruptIndex = errors.New("index is corrupt or incompatible")

	// ErrRebuildInProgress indicates a rebuild is already running for
	// the same index name. Callers may retry later.
	ErrRebuildInProgress = errors.New("rebuild already in progress")

	// ErrAPIKeyMissing indicates the language-model credential is not
	// configured. Only the answering path requires it.
	ErrAPIKeyMissing = errors.New("API key not configured")

	// ErrSessionNotFound indicates an unknown chat session identifier.
	ErrSessionNotFound = errors.New("chat session not found")
)

// BackendErrorKind classifies failures from the embedding and
// language-model backends.
type BackendErrorKind string

const (
	// BackendAuth is an authentication or authorisation failure.
	BackendAuth BackendErrorKind = "auth"

	// BackendRateLimit means the backend rejected the call for quota.
	BackendRateLimit BackendErrorKind = "rate_limit"

	// BackendTimeout means the call exceeded its deadline.
	BackendTimeout BackendErrorKind = "timeout"

	// BackendTransient covers network and server-side failures that
	// may succeed on retry.
	BackendTransient BackendErrorKind = "transient"
)

// BackendError wraps a failure from an outbound embedding or LLM call.
// It is fatal to the current operation only; callers may retry.
type BackendError struct {
	// Kind classifies the failure.
	Kind BackendErrorKind

	// Backend names the service, e.g. "groq" or "openai".
	Backend string

	// Err is the underlying cause.
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend %s error: %v", e.Backend, e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsBackendError reports whether err is a BackendError of the given kind.
func IsBackendError(err error, kind BackendErrorKind) bool {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
