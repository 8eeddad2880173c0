package handler

import (
	"fmt"

	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
)

// ResultStatus indicates the outcome of an action.
type ResultStatus uint8

const (
	// StatusOK indicates successful execution.
	StatusOK ResultStatus = iota
	// StatusNoOp indicates the action had no effect.
	StatusNoOp
	// StatusError indicates an error occurred.
	StatusError
	// StatusCancelled indicates the operation was cancelled.
	StatusCancelled
)

// String returns a string representation of the status.
func (s ResultStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Edit is one replacement reported by a command.
type Edit struct {
	// Range is the range in the document before the command.
	Range buffer.Range
	// NewText is the text that replaces Range.
	NewText string
	// OldText is the text that was replaced.
	OldText string
}

// String formats the edit as "range: old -> new".
func (e Edit) String() string {
	return fmt.Sprintf("%s: %q -> %q", e.Range, e.OldText, e.NewText)
}

// EditsFromBatch describes the edits of b against doc, the document the
// batch was computed from.
func EditsFromBatch(doc buffer.Document, b *buffer.BatchEdit) []Edit {
	if b == nil {
		return nil
	}
	edits := make([]Edit, 0, b.Len())
	for _, e := range b.Edits() {
		edits = append(edits, Edit{
			Range:   e.Range,
			NewText: e.NewText,
			OldText: doc.TextRange(e.Range),
		})
	}
	return edits
}

// Result represents the outcome of handling an action.
type Result struct {
	// Status indicates the result status.
	Status ResultStatus

	// Error contains any error that occurred.
	Error error

	// Message is an optional status message for display.
	Message string

	// Edits contains the edits that were applied, or planned on a dry run.
	Edits []Edit

	// Selections are the selections after the command, or the planned
	// selections on a dry run.
	Selections []cursor.Selection

	// Data holds handler-specific return data.
	Data map[string]any
}

// IsOK returns true if the result indicates success.
func (r Result) IsOK() bool {
	return r.Status == StatusOK
}

// IsError returns true if the result indicates an error.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// Success creates a successful result.
func Success() Result {
	return Result{Status: StatusOK}
}

// SuccessWithMessage creates a successful result with a message.
func SuccessWithMessage(msg string) Result {
	return Result{Status: StatusOK, Message: msg}
}

// NoOp creates a no-operation result.
func NoOp() Result {
	return Result{Status: StatusNoOp}
}

// NoOpWithMessage creates a no-operation result with a message.
func NoOpWithMessage(msg string) Result {
	return Result{Status: StatusNoOp, Message: msg}
}

// Error creates an error result.
func Error(err error) Result {
	return Result{Status: StatusError, Error: err}
}

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{
		Status: StatusError,
		Error:  fmt.Errorf(format, args...),
	}
}

// Cancelled creates a cancelled result.
func Cancelled(err error) Result {
	return Result{Status: StatusCancelled, Error: err}
}

// WithMessage returns a copy of the result with the specified message.
func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}

// WithEdits returns a copy of the result with edits added.
func (r Result) WithEdits(edits []Edit) Result {
	r.Edits = append(r.Edits, edits...)
	return r
}

// WithSelections returns a copy of the result with the selections set.
func (r Result) WithSelections(sels []cursor.Selection) Result {
	r.Selections = sels
	return r
}

// WithData returns a copy of the result with data added.
func (r Result) WithData(key string, value any) Result {
	data := make(map[string]any, len(r.Data)+1)
	for k, v := range r.Data {
		data[k] = v
	}
	data[key] = value
	r.Data = data
	return r
}

// GetData retrieves a value from the result data.
func (r Result) GetData(key string) (any, bool) {
	if r.Data == nil {
		return nil, false
	}
	v, ok := r.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from the result data.
func (r Result) GetDataString(key string) string {
	if v, ok := r.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetDataInt retrieves an int value from the result data.
func (r Result) GetDataInt(key string) int {
	if v, ok := r.GetData(key); ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return 0
}
