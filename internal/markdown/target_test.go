package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markstyle/internal/engine/buffer"
)

func TestSelectTarget(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		char  int
		style Style
		kind  TargetKind
		start int
		end   int
	}{
		{"word at start", "Hello world", 6, StyleBold, TargetWord, 6, 11},
		{"word at end", "Hello world", 11, StyleBold, TargetWord, 6, 11},
		{"wrapped word widened", "Hello **world**", 8, StyleBold, TargetWord, 6, 15},
		{"italic inside bold not widened", "**world**", 4, StyleItalic, TargetWord, 2, 7},
		{"italic word widened", "an *idea* here", 5, StyleItalic, TargetWord, 3, 9},
		{"no word", "a  b", 2, StyleBold, TargetInsertion, 2, 2},
		{"empty line", "", 0, StyleCode, TargetInsertion, 0, 0},
		{"closing skips", "**text**", 6, StyleBold, TargetNoOp, 6, 6},
		{"empty pair", "a **** b", 4, StyleBold, TargetEmptyPair, 2, 6},
		{"strike closing uses word", "~~text~~", 6, StyleStrikethrough, TargetWord, 0, 8},
		{"strike empty pair", "~~~~", 2, StyleStrikethrough, TargetEmptyPair, 0, 4},
		{"task item", "- [ ] buy milk", 12, StyleStrikethrough, TargetListItem, 6, 14},
		{"checked task item", "  * [x] done", 9, StyleStrikethrough, TargetListItem, 8, 12},
		{"bullet item", "+ item", 3, StyleStrikethrough, TargetListItem, 2, 6},
		{"task item bold uses word", "- [ ] buy milk", 12, StyleBold, TargetWord, 10, 14},
		{"emphasis is not a bullet", "*word* here", 8, StyleStrikethrough, TargetWord, 7, 11},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := buffer.NewBufferFromString(tc.line)
			p, err := DefaultPatterns().Lookup(tc.style)
			require.NoError(t, err)

			got := SelectTarget(doc, buffer.Pos(0, tc.char), p, tc.style)
			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, buffer.LineRange(0, tc.start, tc.end), got.Range)
		})
	}
}

func TestListItemContentStart(t *testing.T) {
	tests := []struct {
		line  string
		start int
		ok    bool
	}{
		{"- [ ] buy milk", 6, true},
		{"- [X]task", 5, true},
		{"* item", 2, true},
		{"\t+  spaced", 4, true},
		{"-item", 0, false},
		{"1. ordered", 0, false},
		{"**bold**", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		start, ok := ListItemContentStart(tc.line)
		assert.Equal(t, tc.ok, ok, tc.line)
		assert.Equal(t, tc.start, start, tc.line)
	}
}
