package apperror

import "errors"

// Sentinel errors shared across services, repositories and controllers. Callers
// classify with errors.Is after wrapping with fmt.Errorf("...: %w", err).
var (
	// ErrEmptyInput rejects requests with nothing to process (blank question,
	// zero-byte upload, document that yields no text).
	ErrEmptyInput = errors.New("empty input")

	// ErrUnsupportedFormat rejects uploads whose extension has no loader.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNotInitialized means a required backend (embedding, LLM, vector store)
	// is missing from the configuration.
	ErrNotInitialized = errors.New("backend not initialized")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey means a uniqueness constraint rejected a write.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrBackendUnavailable means a remote dependency failed. Essential
	// operations (upsert, search, generation) propagate it; non-essential ones
	// (dedup lookup, cleanup, audit logging) downgrade it to a warning.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// IsValidation reports whether err belongs to the request-validation class,
// surfaced immediately with no side effects.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrUnsupportedFormat)
}
