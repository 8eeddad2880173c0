package engine

import (
	"errors"

	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrPositionOutOfRange indicates a position is outside the document.
	ErrPositionOutOfRange = buffer.ErrPositionOutOfRange

	// ErrRangeInvalid indicates an invalid range (e.g., end < start).
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrEditsOverlap indicates two edits of one batch overlap.
	ErrEditsOverlap = buffer.ErrEditsOverlap

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")
)
