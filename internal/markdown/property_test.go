package markdown

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
)

// wordLine draws a line of distinct lowercase words and returns it with
// the starting column of each word.
func wordLine(t *rapid.T) (string, []string, []int) {
	n := rapid.IntRange(1, 6).Draw(t, "words")
	words := make([]string, n)
	for i := range words {
		// Distinct first letters keep the words distinct.
		words[i] = string(rune('a'+i)) + rapid.StringMatching(`[a-z]{0,7}`).Draw(t, "word")
	}
	starts := make([]int, n)
	col := 0
	for i, w := range words {
		starts[i] = col
		col += len(w) + 1
	}
	return strings.Join(words, " "), words, starts
}

func TestProperty_CaretRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		line, words, starts := wordLine(t)
		i := rapid.IntRange(0, len(words)-1).Draw(t, "index")
		char := starts[i] + rapid.IntRange(0, len(words[i])-1).Draw(t, "offset")
		style := rapid.SampledFrom(Styles()).Draw(t, "style")

		host := newHost(line, caretAt(0, char))
		c := NewCoordinator()

		_, err := c.Toggle(context.Background(), host, style)
		require.NoError(t, err)
		require.NotEqual(t, line, host.Text())

		_, err = c.Toggle(context.Background(), host, style)
		require.NoError(t, err)
		require.Equal(t, line, host.Text())
		require.Equal(t, []cursor.Selection{caretAt(0, char)}, host.Selections())
	})
}

func TestProperty_SelectionSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		line, _, _ := wordLine(t)
		start := rapid.IntRange(0, len(line)-1).Draw(t, "start")
		end := rapid.IntRange(start+1, len(line)).Draw(t, "end")
		backward := rapid.Bool().Draw(t, "backward")
		style := rapid.SampledFrom(Styles()).Draw(t, "style")

		sel := cursor.NewSelection(buffer.Pos(0, start), buffer.Pos(0, end))
		if backward {
			sel = sel.Flip()
		}
		host := newHost(line, sel)
		c := NewCoordinator(WithSelectionPolicy(PolicyAlways))
		p, err := c.Pattern(style)
		require.NoError(t, err)

		_, err = c.Toggle(context.Background(), host, style)
		require.NoError(t, err)
		require.Equal(t, line[:start]+p.Wrap(line[start:end])+line[end:], host.Text())
		got := host.Selections()[0]
		require.Equal(t, buffer.LineRange(0, start, end+p.Width()), got.Range())
		require.Equal(t, backward, got.IsBackward())

		_, err = c.Toggle(context.Background(), host, style)
		require.NoError(t, err)
		require.Equal(t, line, host.Text())
		require.Equal(t, []cursor.Selection{sel}, host.Selections())
	})
}

// Every caret keeps pointing at the same character of its word, whatever
// order the carets were created in.
func TestProperty_MultiCaretShift(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		line, words, starts := wordLine(t)
		order := rapid.Permutation(indexes(len(words))).Draw(t, "order")
		k := rapid.IntRange(1, len(words)).Draw(t, "carets")
		style := rapid.SampledFrom(Styles()).Draw(t, "style")

		sels := make([]cursor.Selection, 0, k)
		for _, i := range order[:k] {
			off := rapid.IntRange(0, len(words[i])-1).Draw(t, "offset")
			sels = append(sels, caretAt(0, starts[i]+off))
		}

		host := newHost(line, sels...)
		_, err := NewCoordinator().Toggle(context.Background(), host, style)
		require.NoError(t, err)

		after := host.Text()
		got := host.Selections()
		require.Len(t, got, len(sels))
		for j, sel := range sels {
			require.Equal(t, line[sel.Active.Character], after[got[j].Active.Character],
				"caret %d moved off its character: %q -> %q", j, line, after)
		}
	})
}

func indexes(n int) []int {
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}
