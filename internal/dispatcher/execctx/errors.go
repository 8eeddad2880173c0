package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingEditor indicates the editor is required but not set.
	ErrMissingEditor = errors.New("execution context: editor is required")

	// ErrMissingCoordinator indicates the toggle coordinator is required but not set.
	ErrMissingCoordinator = errors.New("execution context: coordinator is required")

	// ErrReadOnly indicates the buffer is read-only.
	ErrReadOnly = errors.New("execution context: buffer is read-only")
)
