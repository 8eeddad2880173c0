// Package history provides undo/redo of batch edits for the editor engine.
//
// # Entries
//
// An Entry records one applied BatchEdit with everything needed to reverse
// it:
//   - The forward batch, in the coordinates of the document before the edit
//   - The inverse batch, in the coordinates of the document after the edit
//   - Selections before and after the edit
//
// The inverse is computed from the pre-edit snapshot, so undo restores the
// exact text, including multi-caret batches that touched several ranges.
//
// # History Stack
//
//	h := NewHistory(1000) // Max 1000 undo entries
//
//	entry := NewEntry(snapshot, batch, selsBefore, selsAfter)
//	h.Push(entry)
//
//	h.Undo(buf, selections)
//	h.Redo(buf, selections)
//
// A whole batch is one undo unit: every caret edited by a toggle command
// undoes together.
package history
