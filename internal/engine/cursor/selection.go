package cursor

import (
	"fmt"

	"github.com/dshills/markstyle/internal/engine/buffer"
)

// Position is an alias for buffer.Position for convenience.
type Position = buffer.Position

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection represents a range of selected text.
// Anchor is where the selection started; Active is the caret.
// When Anchor == Active, this represents a caret with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor Position
	Active Position
}

// NewSelection creates a selection from anchor to active.
func NewSelection(anchor, active Position) Selection {
	return Selection{Anchor: anchor, Active: active}
}

// NewCursorSelection creates a selection representing just a caret.
func NewCursorSelection(p Position) Selection {
	return Selection{Anchor: p, Active: p}
}

// NewRangeSelection creates a forward selection covering the given range.
func NewRangeSelection(r Range) Selection {
	return Selection{Anchor: r.Start, Active: r.End}
}

// IsEmpty returns true if the selection has no extent (just a caret).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return buffer.NewRange(s.Anchor, s.Active)
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Position {
	if s.Active.Before(s.Anchor) {
		return s.Active
	}
	return s.Anchor
}

// End returns the upper bound of the selection.
func (s Selection) End() Position {
	if s.Active.Before(s.Anchor) {
		return s.Anchor
	}
	return s.Active
}

// IsForward returns true if the selection extends forward.
func (s Selection) IsForward() bool {
	return !s.Active.Before(s.Anchor)
}

// IsBackward returns true if the selection extends backward.
func (s Selection) IsBackward() bool {
	return s.Active.Before(s.Anchor)
}

// WithBounds returns a selection over [start, end] with the same direction
// as s.
func (s Selection) WithBounds(start, end Position) Selection {
	if s.IsBackward() {
		return Selection{Anchor: end, Active: start}
	}
	return Selection{Anchor: start, Active: end}
}

// MoveTo returns a caret at p.
func (s Selection) MoveTo(p Position) Selection {
	return Selection{Anchor: p, Active: p}
}

// Collapse collapses the selection to a caret at its active end.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Active, Active: s.Active}
}

// Flip returns a selection with anchor and active swapped.
func (s Selection) Flip() Selection {
	return Selection{Anchor: s.Active, Active: s.Anchor}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor%s", s.Active)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%s%s%s)", s.Anchor, dir, s.Active)
}

// Equals returns true if two selections have the same anchor and active.
func (s Selection) Equals(other Selection) bool {
	return s.Anchor == other.Anchor && s.Active == other.Active
}
