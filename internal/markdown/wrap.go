package markdown

import (
	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
)

// Action is what a toggle did to its target.
type Action uint8

const (
	// ActionNone means nothing was scheduled.
	ActionNone Action = iota
	// ActionAdvance means the caret stepped over a closing delimiter.
	ActionAdvance
	// ActionWrap inserted the delimiters.
	ActionWrap
	// ActionUnwrap removed the delimiters.
	ActionUnwrap
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionAdvance:
		return "advance"
	case ActionWrap:
		return "wrap"
	case ActionUnwrap:
		return "unwrap"
	default:
		return "none"
	}
}

// ToggleInput is one target to wrap or unwrap.
type ToggleInput struct {
	// Range is read from the pre-edit snapshot.
	Range buffer.Range
	Kind  TargetKind

	// Selected is true for an explicit, non-empty selection.
	Selected  bool
	Selection cursor.Selection
	Caret     buffer.Position

	// Shift is the ledger total at the start of the selection (or the
	// caret); EndShift the total at its end.
	Shift    int
	EndShift int

	Pattern Pattern
}

// ToggleResult is the edit and the corrected selection for one target.
type ToggleResult struct {
	Action    Action
	Edit      buffer.TextEdit
	Shift     ShiftEntry
	Selection cursor.Selection
}

// ToggleRange wraps the target when its text is not already enclosed by
// the pattern and unwraps it otherwise. Reported positions are in the
// coordinates of the document after the whole batch.
func ToggleRange(doc buffer.Document, in ToggleInput) ToggleResult {
	p := in.Pattern
	text := doc.TextRange(in.Range)

	res := ToggleResult{Action: ActionWrap}
	width := p.Width()
	if p.Encloses(text) {
		res.Action = ActionUnwrap
		width = -width
		res.Edit = buffer.NewTextEdit(in.Range, p.Unwrap(text))
	} else {
		res.Edit = buffer.NewTextEdit(in.Range, p.Wrap(text))
	}

	delta := width
	if !in.Range.IsSingleLine() {
		// Only the suffix lands on the last line.
		delta = p.SuffixLen()
		if res.Action == ActionUnwrap {
			delta = -delta
		}
	}
	res.Shift = ShiftEntry{Anchor: in.Range.End, Delta: delta}

	if in.Selected {
		res.Selection = correctSelection(in, res.Action)
	} else {
		res.Selection = cursor.NewCursorSelection(correctCaret(in, res.Action))
	}
	return res
}

// correctCaret places an empty caret after its own edit.
func correctCaret(in ToggleInput, action Action) buffer.Position {
	p := in.Pattern
	c := in.Caret.Character + in.Shift
	r := in.Range

	if in.Kind == TargetListItem && in.Caret.Character < r.Start.Character {
		// Caret in the bullet stays put.
		return in.Caret.WithCharacter(c)
	}

	switch {
	case action == ActionUnwrap && in.Kind == TargetEmptyPair:
		// Where the stripped prefix started.
		c -= p.PrefixLen()
	case action == ActionUnwrap && in.Caret.Character == r.End.Character:
		c -= p.Width()
	case action == ActionUnwrap:
		c -= p.PrefixLen()
	case r.IsEmpty():
		// Inside the freshly inserted pair.
		c += p.PrefixLen()
	case in.Caret.Character == r.End.Character:
		c += p.Width()
	default:
		c += p.PrefixLen()
	}
	return in.Caret.WithCharacter(c)
}

// correctSelection keeps an explicit selection over the toggled span,
// preserving its direction.
func correctSelection(in ToggleInput, action Action) cursor.Selection {
	p := in.Pattern
	start := in.Selection.Start()
	end := in.Selection.End()

	newStart := start.Translate(in.Shift)

	var newEnd buffer.Position
	if start.Line == end.Line {
		grow := p.Width()
		if action == ActionUnwrap {
			grow = -grow
		}
		newEnd = end.Translate(in.Shift + grow)
	} else {
		grow := p.SuffixLen()
		if action == ActionUnwrap {
			grow = -grow
		}
		newEnd = end.Translate(in.EndShift + grow)
	}
	return in.Selection.WithBounds(newStart, newEnd)
}
