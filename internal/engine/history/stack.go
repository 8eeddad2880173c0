package history

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History manages undo/redo state for a buffer.
type History struct {
	mu sync.Mutex

	undoStack []*Entry
	redoStack []*Entry

	maxEntries int
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000 // Default
	}
	return &History{
		maxEntries: maxEntries,
	}
}

// Push adds an entry to the undo stack.
// Clears the redo stack. No-op entries are ignored.
func (h *History) Push(entry *Entry) {
	if entry == nil || entry.IsNoop() {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, entry)
	h.redoStack = nil

	// Enforce max entries
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the last entry and restores the selections it started with.
// The lock is released while the buffer is edited.
func (h *History) Undo(buf *buffer.Buffer, sels *cursor.SelectionSet) (*Entry, error) {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToUndo
	}

	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := buf.ApplyBatch(entry.Inverse); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.undoStack = append(h.undoStack, entry)
		h.mu.Unlock()
		return nil, fmt.Errorf("undo %q: %w", entry.Label, err)
	}
	if sels != nil && len(entry.SelectionsBefore) > 0 {
		sels.SetAll(entry.SelectionsBefore)
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, entry)
	h.mu.Unlock()
	return entry, nil
}

// Redo re-applies the last undone entry.
func (h *History) Redo(buf *buffer.Buffer, sels *cursor.SelectionSet) (*Entry, error) {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToRedo
	}

	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := buf.ApplyBatch(entry.Forward); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, entry)
		h.mu.Unlock()
		return nil, fmt.Errorf("redo %q: %w", entry.Label, err)
	}
	if sels != nil && len(entry.SelectionsAfter) > 0 {
		sels.SetAll(entry.SelectionsAfter)
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, entry)
	h.mu.Unlock()
	return entry, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}

// UndoLabels returns the labels on the undo stack, most recent first.
func (h *History) UndoLabels() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	labels := make([]string, 0, len(h.undoStack))
	for i := len(h.undoStack) - 1; i >= 0; i-- {
		labels = append(labels, h.undoStack[i].Label)
	}
	return labels
}
