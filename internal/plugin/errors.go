package plugin

import "errors"

// Plugin system errors.
var (
	// ErrScriptFailed is returned when a script raises an error.
	ErrScriptFailed = errors.New("script failed")

	// ErrNoEditor is returned when a host is created without an editor.
	ErrNoEditor = errors.New("plugin host has no editor")
)
