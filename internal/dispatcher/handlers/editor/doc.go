// Package editor provides handlers for editor-level operations.
//
// The editor namespace covers history (undo, redo), repeating the last
// markdown command and plain text insertion at every selection.
package editor
