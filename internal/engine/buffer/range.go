package buffer

import "fmt"

// Range is a span between two positions with Start <= End.
// Start is inclusive, End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a range from two positions, ordering them so that
// Start <= End.
func NewRange(a, b Position) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// LineRange creates a single-line range from start to end characters.
func LineRange(line, start, end int) Range {
	return NewRange(Pos(line, start), Pos(line, end))
}

// EmptyRange creates a zero-width range at p.
func EmptyRange(p Position) Range {
	return Range{Start: p, End: p}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s)", r.Start, r.End)
}

// IsEmpty returns true if start equals end.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if start <= end and both positions are valid.
func (r Range) IsValid() bool {
	return r.Start.IsValid() && r.End.IsValid() && !r.End.Before(r.Start)
}

// IsSingleLine returns true if the range spans only one line.
func (r Range) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}

// Contains returns true if p is within [Start, End).
func (r Range) Contains(p Position) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// ContainsInclusive returns true if p is within [Start, End].
func (r Range) ContainsInclusive(p Position) bool {
	return !p.Before(r.Start) && !p.After(r.End)
}

// Overlaps returns true if the ranges share at least one character.
// Touching ranges do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Len returns the character length of a single-line range.
// Multi-line ranges report -1.
func (r Range) Len() int {
	if !r.IsSingleLine() {
		return -1
	}
	return r.End.Character - r.Start.Character
}
