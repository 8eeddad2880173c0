package buffer

import (
	"strings"
	"unicode"
)

// isWordRune reports whether r can be part of a word: anything that is
// neither whitespace nor one of the markup delimiters.
func isWordRune(r rune, delimiters string) bool {
	return !unicode.IsSpace(r) && !strings.ContainsRune(delimiters, r)
}

// wordRangeAt finds the maximal run of word runes touching p on the given
// line. The run touches p when the rune at p, or the rune just before p, is a
// word rune.
func wordRangeAt(line string, p Position, delimiters string) (Range, bool) {
	runes := []rune(line)
	c := p.Character
	if c < 0 || c > len(runes) {
		return Range{}, false
	}

	var seed int
	switch {
	case c < len(runes) && isWordRune(runes[c], delimiters):
		seed = c
	case c > 0 && isWordRune(runes[c-1], delimiters):
		seed = c - 1
	default:
		return Range{}, false
	}

	start := seed
	for start > 0 && isWordRune(runes[start-1], delimiters) {
		start--
	}
	end := seed + 1
	for end < len(runes) && isWordRune(runes[end], delimiters) {
		end++
	}
	return LineRange(p.Line, start, end), true
}
