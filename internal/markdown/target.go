package markdown

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/markstyle/internal/engine/buffer"
)

// TargetKind describes what a caret toggle applies to.
type TargetKind uint8

const (
	// TargetNoOp means the caret only steps over a closing delimiter.
	TargetNoOp TargetKind = iota
	// TargetEmptyPair is a prefix immediately followed by a suffix.
	TargetEmptyPair
	// TargetWord is the word under the caret, including enclosing
	// delimiters when it is already wrapped.
	TargetWord
	// TargetInsertion is a zero-width range at the caret.
	TargetInsertion
	// TargetListItem is the item text of a bullet line.
	TargetListItem
	// TargetSelection is an explicit selection.
	TargetSelection
)

var targetKindNames = map[TargetKind]string{
	TargetNoOp:      "noop",
	TargetEmptyPair: "empty-pair",
	TargetWord:      "word",
	TargetInsertion: "insertion",
	TargetListItem:  "list-item",
	TargetSelection: "selection",
}

// String returns the kind name.
func (k TargetKind) String() string {
	if name, ok := targetKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TargetKind(%d)", k)
}

// Target is the outcome of target selection for one caret.
type Target struct {
	Kind    TargetKind
	Range   buffer.Range
	Context CursorContext
}

// NoOp reports whether the caret should only advance past the suffix.
func (t Target) NoOp() bool {
	return t.Kind == TargetNoOp
}

// String returns a short description for logs.
func (t Target) String() string {
	if t.NoOp() {
		return "noop"
	}
	return fmt.Sprintf("%s%s", t.Kind, t.Range)
}

// SelectTarget decides which span an empty caret toggles.
func SelectTarget(doc buffer.Document, caret buffer.Position, p Pattern, style Style) Target {
	ctx := Classify(doc, caret, p)

	if !style.IsStrikethrough() && ctx == AdjacentClosingOnly {
		return Target{Kind: TargetNoOp, Range: buffer.EmptyRange(caret), Context: ctx}
	}

	if ctx == AdjacentBothSides {
		return Target{
			Kind:    TargetEmptyPair,
			Range:   buffer.LineRange(caret.Line, caret.Character-p.PrefixLen(), caret.Character+p.SuffixLen()),
			Context: ctx,
		}
	}

	if style.IsStrikethrough() {
		line := doc.LineText(caret.Line)
		if start, ok := ListItemContentStart(line); ok {
			return Target{
				Kind:    TargetListItem,
				Range:   buffer.LineRange(caret.Line, start, utf8.RuneCountInString(line)),
				Context: ctx,
			}
		}
	}

	if r, ok := doc.WordRangeAt(caret); ok {
		return Target{Kind: TargetWord, Range: widen(doc, r, p), Context: ctx}
	}
	return Target{Kind: TargetInsertion, Range: buffer.EmptyRange(caret), Context: ctx}
}

// widen extends a word range over delimiters that enclose it exactly.
// Delimiters that are part of a longer run of the same character (the
// outer "**" of "**word**" seen by an italic "*") are left alone.
func widen(doc buffer.Document, r buffer.Range, p Pattern) buffer.Range {
	line := r.Start.Line
	start := r.Start.Character - p.PrefixLen()
	end := r.End.Character + p.SuffixLen()
	if start < 0 {
		return r
	}
	if doc.TextRange(buffer.LineRange(line, start, r.Start.Character)) != p.Prefix ||
		doc.TextRange(buffer.LineRange(line, r.End.Character, end)) != p.Suffix {
		return r
	}

	first, _ := utf8.DecodeRuneInString(p.Prefix)
	last, _ := utf8.DecodeLastRuneInString(p.Suffix)
	if start > 0 && doc.TextRange(buffer.LineRange(line, start-1, start)) == string(first) {
		return r
	}
	if doc.TextRange(buffer.LineRange(line, end, end+1)) == string(last) {
		return r
	}
	return buffer.LineRange(line, start, end)
}
