package core

import "errors"

// Error taxonomy shared by every layer. Adapters wrap one of these with
// fmt.Errorf("%w: ...", ...) so handlers can classify with errors.Is.
var (
	// ErrInvalidInput indicates a malformed or unusable request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates an uploaded file could not be read as its declared type.
	ErrExtraction = errors.New("extraction failed")

	// ErrStore indicates a container store (database) failure.
	ErrStore = errors.New("store error")

	// ErrIndex indicates a vector table creation, population or search failure.
	ErrIndex = errors.New("vector index error")

	// ErrModel indicates a language-model or embedding call failed,
	// including quota exhaustion, timeouts and an open circuit breaker.
	ErrModel = errors.New("model error")

	// ErrNotFound indicates a referenced container does not exist.
	ErrNotFound = errors.New("not found")
)
