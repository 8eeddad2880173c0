// Package cursor provides selection management for multi-caret editing.
//
// The cursor package handles:
//
//   - Selections with an anchor/active model via the Selection type
//   - Ordered multi-caret state with SelectionSet
//   - Carrying selections through an applied batch edit
//
// Selection Model:
//
// Selections use an anchor/active model where:
//   - Anchor: The position where the selection started
//   - Active: The caret (where typing would occur)
//
// When Anchor == Active, the selection is a caret with no selected text.
// The selection can extend forward (active after anchor) or backward,
// preserving the user's selection direction.
//
// Multi-Caret Ordering:
//
// SelectionSet keeps selections in the order the carets were created. It
// never sorts or merges them: commands that process carets one after another
// depend on that order. The first selection is the primary (active) one.
//
// Basic usage:
//
//	set := cursor.NewSelectionSet(cursor.NewCursorSelection(buffer.Pos(0, 6)))
//	set.Add(cursor.NewCursorSelection(buffer.Pos(2, 0)))
//
//	// After a batch has been applied
//	moved := cursor.TransformSelections(set.All(), batch)
//	set.SetAll(moved)
//
// Thread Safety:
//
// Selection is an immutable value type and safe for concurrent use.
// SelectionSet is not thread-safe and should be protected by external
// synchronization if accessed concurrently.
package cursor
