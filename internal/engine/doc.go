// Package engine provides the editor surface the Markdown toggle commands
// run against.
//
// The engine package serves as the main facade, combining buffer
// management, multi-caret selections and undo/redo into a unified,
// thread-safe API.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: line-based document, positions, ranges and batch edits
//   - cursor: ordered multi-caret selection management
//   - history: batch-level undo/redo
//
// # Host Contract
//
// Engine exposes exactly what a command needs from an editor:
//
//	doc := e.Document()         // immutable snapshot
//	sels := e.Selections()      // creation order, [0] is the primary
//	err := e.ApplyEdit(ctx, b)  // atomic, pre-edit coordinates
//	e.SetSelections(newSels)    // explicit placement
//
// ApplyEdit is the only blocking operation. It applies the whole batch or
// nothing, records one undo entry, and places the selections itself by
// carrying each one through the batch. A caller that wants different
// placement calls SetSelections afterwards.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("Hello world"))
//	e.SetSelections([]cursor.Selection{cursor.NewCursorSelection(buffer.Pos(0, 8))})
//
//	b := buffer.NewBatchEdit("bold")
//	b.Add(buffer.NewTextEdit(buffer.LineRange(0, 6, 11), "**world**"))
//	_ = e.ApplyEdit(ctx, b) // "Hello **world**"
//
//	e.Undo() // "Hello world"
//
// # Thread Safety
//
// All Engine operations are thread-safe. Reads take a shared lock; edits,
// selection changes and undo/redo are serialized.
package engine
