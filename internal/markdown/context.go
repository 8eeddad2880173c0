package markdown

import "github.com/dshills/markstyle/internal/engine/buffer"

// CursorContext classifies an empty caret relative to a delimiter pair.
type CursorContext uint8

const (
	// NoAdjacency means the caret is not directly before a suffix.
	NoAdjacency CursorContext = iota
	// AdjacentBothSides means the caret sits between a prefix and a suffix
	// with nothing in between, as in **│**.
	AdjacentBothSides
	// AdjacentClosingOnly means the caret sits directly before a suffix
	// that closes some content, as in **text│**.
	AdjacentClosingOnly
)

// String returns the context name.
func (c CursorContext) String() string {
	switch c {
	case NoAdjacency:
		return "none"
	case AdjacentBothSides:
		return "both"
	case AdjacentClosingOnly:
		return "closing"
	default:
		return "unknown"
	}
}

// Classify inspects the text around caret. The left read is clamped at
// column 0 and the right read at the end of the line; only exact matches
// of the whole delimiter count.
func Classify(doc buffer.Document, caret buffer.Position, p Pattern) CursorContext {
	left := doc.TextRange(buffer.LineRange(caret.Line, max(caret.Character-p.PrefixLen(), 0), caret.Character))
	right := doc.TextRange(buffer.LineRange(caret.Line, caret.Character, caret.Character+p.SuffixLen()))

	if right != p.Suffix {
		return NoAdjacency
	}
	if left == p.Prefix {
		return AdjacentBothSides
	}
	return AdjacentClosingOnly
}
