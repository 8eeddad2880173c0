package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
)

// Selection is an alias for cursor.Selection for convenience.
type Selection = cursor.Selection

// Entry represents a single undoable batch.
type Entry struct {
	ID    uuid.UUID
	Label string

	// Forward is the batch as applied, in pre-edit coordinates.
	Forward *buffer.BatchEdit
	// Inverse restores the pre-edit text, in post-edit coordinates.
	Inverse *buffer.BatchEdit

	SelectionsBefore []Selection
	SelectionsAfter  []Selection

	Timestamp time.Time
}

// NewEntry builds an entry for batch, which is about to be (or has just
// been) applied to the document captured in before.
func NewEntry(before buffer.Document, batch *buffer.BatchEdit, selsBefore, selsAfter []Selection) *Entry {
	return &Entry{
		ID:               batch.ID(),
		Label:            batch.Label(),
		Forward:          batch,
		Inverse:          Invert(before, batch),
		SelectionsBefore: cloneSelections(selsBefore),
		SelectionsAfter:  cloneSelections(selsAfter),
		Timestamp:        time.Now(),
	}
}

// WithSelectionsAfter sets the post-edit selections and returns the entry
// for chaining.
func (e *Entry) WithSelectionsAfter(sels []Selection) *Entry {
	e.SelectionsAfter = cloneSelections(sels)
	return e
}

// IsNoop returns true if the entry changes nothing.
func (e *Entry) IsNoop() bool {
	return e.Forward == nil || e.Forward.IsEmpty()
}

// Invert returns a batch that undoes batch. before must be the document
// the batch is applied to.
func Invert(before buffer.Document, batch *buffer.BatchEdit) *buffer.BatchEdit {
	inverse := buffer.NewBatchEdit("undo " + batch.Label())
	mapper := buffer.NewPositionMapper(batch)
	oldRanges := mapper.OldRanges()
	for i, r := range mapper.NewRanges() {
		inverse.Add(buffer.NewTextEdit(r, before.TextRange(oldRanges[i])))
	}
	return inverse
}

func cloneSelections(sels []Selection) []Selection {
	if sels == nil {
		return nil
	}
	result := make([]Selection, len(sels))
	copy(result, sels)
	return result
}
