package markdown

import "github.com/dshills/markstyle/internal/engine/buffer"

// ShiftEntry records that positions on Anchor's line at or after Anchor
// move by Delta characters once the batch is applied.
type ShiftEntry struct {
	Anchor buffer.Position
	Delta  int
}

// Covering returns Delta when the entry moves p, and zero otherwise.
func (e ShiftEntry) Covering(p buffer.Position) int {
	if e.Anchor.Line == p.Line && p.Character >= e.Anchor.Character {
		return e.Delta
	}
	return 0
}

// ShiftLedger is the append-only record of shifts caused by edits already
// scheduled in one batch. It lives for a single command invocation.
type ShiftLedger struct {
	entries []ShiftEntry
}

// NewShiftLedger returns an empty ledger.
func NewShiftLedger() *ShiftLedger {
	return &ShiftLedger{}
}

// Record appends an entry. Zero deltas are ignored.
func (l *ShiftLedger) Record(e ShiftEntry) {
	if e.Delta == 0 {
		return
	}
	l.entries = append(l.entries, e)
}

// Sum returns the total delta for p: every entry on p's line whose anchor
// is at or before p contributes.
func (l *ShiftLedger) Sum(p buffer.Position) int {
	total := 0
	for _, e := range l.entries {
		total += e.Covering(p)
	}
	return total
}

// SumSince is Sum restricted to entries recorded after the first mark
// entries.
func (l *ShiftLedger) SumSince(mark int, p buffer.Position) int {
	total := 0
	for _, e := range l.entries[min(max(mark, 0), len(l.entries)):] {
		total += e.Covering(p)
	}
	return total
}

// Apply returns p moved by Sum(p).
func (l *ShiftLedger) Apply(p buffer.Position) buffer.Position {
	return p.Translate(l.Sum(p))
}

// Entries returns a copy of the recorded entries in insertion order.
func (l *ShiftLedger) Entries() []ShiftEntry {
	result := make([]ShiftEntry, len(l.entries))
	copy(result, l.entries)
	return result
}

// Len returns the number of entries.
func (l *ShiftLedger) Len() int {
	return len(l.entries)
}
