package markdown

import (
	"regexp"
	"unicode/utf8"
)

// listItemPrefix matches a bullet, an optional task checkbox and one
// optional space after it.
var listItemPrefix = regexp.MustCompile(`^\s*[*+-]\s+(\[[ xX]\]\s?)?`)

// ListItemContentStart returns the character offset where the item text
// of a bullet line begins.
func ListItemContentStart(line string) (int, bool) {
	loc := listItemPrefix.FindStringIndex(line)
	if loc == nil {
		return 0, false
	}
	return utf8.RuneCountInString(line[:loc[1]]), true
}
