// Package buffer provides the document model used by the markdown toggle
// engine: line/character positions, ranges, text edits collected into an
// atomic batch, and a thread-safe line buffer that applies such batches.
//
// The buffer package provides:
//
//   - Position and Range value types addressed by (line, character)
//   - TextEdit and BatchEdit, computed against a pre-edit snapshot
//   - The Document read interface consumed by the toggle engine
//   - A Buffer that applies a whole BatchEdit atomically or not at all
//   - PositionMapper, which carries pre-edit positions through a batch
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello world")
//	snap := buf.Snapshot()
//
//	batch := buffer.NewBatchEdit("bold")
//	batch.Add(buffer.NewTextEdit(
//	    buffer.NewRange(buffer.Pos(0, 6), buffer.Pos(0, 11)),
//	    "**world**",
//	))
//	if err := buf.ApplyBatch(batch); err != nil {
//	    // nothing was changed
//	}
//
//	_ = snap.LineText(0) // still "Hello world"
//
// Position Types:
//
// Character offsets count runes within a line, never bytes. Lines are
// 0-indexed and never contain a line terminator; the buffer stores text
// normalized to LF and renders it back with its configured LineEnding.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while ApplyBatch acquires an exclusive write lock. Use Snapshot() to obtain
// a consistent read-only Document that never changes.
package buffer
