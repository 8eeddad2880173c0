package dispatcher

import "errors"

var (
	// ErrNoHandler is returned when no handler routes the action.
	ErrNoHandler = errors.New("dispatcher: no handler for action")

	// ErrActionCancelled is returned when a pre-dispatch hook vetoes the action.
	ErrActionCancelled = errors.New("dispatcher: action cancelled by hook")

	// ErrPanic wraps a recovered handler panic.
	ErrPanic = errors.New("dispatcher: handler panic")

	// ErrInvalidAction is returned for an action without a name.
	ErrInvalidAction = errors.New("dispatcher: invalid action")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("dispatcher: invalid config")
)
