package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrNoFile indicates the document was not loaded from a file.
	ErrNoFile = errors.New("document has no file")

	// ErrUnboundKeys indicates a key sequence with no binding.
	ErrUnboundKeys = errors.New("no binding for keys")

	// ErrInvalidCursor indicates a malformed cursor specification.
	ErrInvalidCursor = errors.New("invalid cursor")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
