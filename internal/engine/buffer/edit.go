package buffer

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TextEdit replaces the text in Range with NewText.
// Ranges are always expressed in pre-edit coordinates.
type TextEdit struct {
	Range   Range
	NewText string
}

// NewTextEdit creates a new TextEdit.
func NewTextEdit(r Range, newText string) TextEdit {
	return TextEdit{Range: r, NewText: newText}
}

// NewInsert creates an edit that inserts text at a position.
func NewInsert(p Position, text string) TextEdit {
	return TextEdit{Range: EmptyRange(p), NewText: text}
}

// NewDelete creates an edit that deletes a range of text.
func NewDelete(r Range) TextEdit {
	return TextEdit{Range: r}
}

// String returns a human-readable representation of the edit.
func (e TextEdit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%s, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e TextEdit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Equal returns true if both edits replace the same range with the same text.
func (e TextEdit) Equal(other TextEdit) bool {
	return e.Range == other.Range && e.NewText == other.NewText
}

// Delta returns the change in character count of a single-line edit whose
// replacement has no newline. Other edits report 0.
func (e TextEdit) Delta() int {
	if !e.Range.IsSingleLine() || strings.Contains(e.NewText, "\n") {
		return 0
	}
	return utf8.RuneCountInString(e.NewText) - e.Range.Len()
}

// BatchEdit is an ordered set of TextEdits applied as one atomic operation.
// Every edit is computed against the same pre-edit snapshot; none of the
// ranges may be recomputed while the batch is being built.
type BatchEdit struct {
	id    uuid.UUID
	label string
	edits []TextEdit
}

// NewBatchEdit creates an empty batch with a fresh transaction ID.
func NewBatchEdit(label string) *BatchEdit {
	return &BatchEdit{
		id:    uuid.New(),
		label: label,
	}
}

// ID returns the batch's transaction ID.
func (b *BatchEdit) ID() uuid.UUID {
	return b.id
}

// Label returns the batch label (usually the command name).
func (b *BatchEdit) Label() string {
	return b.label
}

// Add appends an edit to the batch. No-op edits are ignored.
func (b *BatchEdit) Add(edit TextEdit) {
	if edit.IsNoOp() {
		return
	}
	b.edits = append(b.edits, edit)
}

// Contains returns true if an equal edit is already scheduled.
func (b *BatchEdit) Contains(edit TextEdit) bool {
	for _, e := range b.edits {
		if e.Equal(edit) {
			return true
		}
	}
	return false
}

// Edits returns a copy of the edits in insertion order.
func (b *BatchEdit) Edits() []TextEdit {
	result := make([]TextEdit, len(b.edits))
	copy(result, b.edits)
	return result
}

// Len returns the number of edits.
func (b *BatchEdit) Len() int {
	return len(b.edits)
}

// IsEmpty returns true if the batch has no edits.
func (b *BatchEdit) IsEmpty() bool {
	return len(b.edits) == 0
}

// String returns a human-readable representation of the batch.
func (b *BatchEdit) String() string {
	parts := make([]string, len(b.edits))
	for i, e := range b.edits {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Batch(%s: %s)", b.label, strings.Join(parts, ", "))
}

// Validate checks that every range is well formed and that no two edits
// overlap. Zero-width insertions at the same position are allowed.
func (b *BatchEdit) Validate() error {
	for _, e := range b.edits {
		if !e.Range.IsValid() {
			return fmt.Errorf("%w: %s", ErrRangeInvalid, e.Range)
		}
	}
	sorted := b.sortedAscending()
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Range.Start.Before(sorted[i-1].Range.End) {
			return fmt.Errorf("%w: %s and %s", ErrEditsOverlap, sorted[i-1].Range, sorted[i].Range)
		}
	}
	return nil
}

// sortedAscending returns the edits ordered by start position.
// Edits sharing a start keep their insertion order.
func (b *BatchEdit) sortedAscending() []TextEdit {
	sorted := b.Edits()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Before(sorted[j].Range.Start)
	})
	return sorted
}

// textExtent returns the position reached after writing text starting at p.
func textExtent(p Position, text string) Position {
	idx := strings.LastIndexByte(text, '\n')
	if idx < 0 {
		return Position{Line: p.Line, Character: p.Character + utf8.RuneCountInString(text)}
	}
	return Position{
		Line:      p.Line + strings.Count(text, "\n"),
		Character: utf8.RuneCountInString(text[idx+1:]),
	}
}
