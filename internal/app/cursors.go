package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
)

// ParseCursor parses "L:C" as a caret or "L:C-L:C" as an anchor-active
// selection. Lines and characters are zero-based.
func ParseCursor(spec string) (cursor.Selection, error) {
	anchorSpec, activeSpec, isRange := strings.Cut(strings.TrimSpace(spec), "-")
	anchor, err := parsePosition(anchorSpec)
	if err != nil {
		return cursor.Selection{}, fmt.Errorf("%w %q: %w", ErrInvalidCursor, spec, err)
	}
	if !isRange {
		return cursor.NewCursorSelection(anchor), nil
	}
	active, err := parsePosition(activeSpec)
	if err != nil {
		return cursor.Selection{}, fmt.Errorf("%w %q: %w", ErrInvalidCursor, spec, err)
	}
	return cursor.NewSelection(anchor, active), nil
}

// ParseCursors parses each spec in order.
func ParseCursors(specs []string) ([]cursor.Selection, error) {
	sels := make([]cursor.Selection, 0, len(specs))
	for _, spec := range specs {
		sel, err := ParseCursor(spec)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	return sels, nil
}

// FormatCursor renders sel in the form accepted by ParseCursor.
func FormatCursor(sel cursor.Selection) string {
	if sel.IsEmpty() {
		return formatPosition(sel.Active)
	}
	return formatPosition(sel.Anchor) + "-" + formatPosition(sel.Active)
}

// FormatCursors renders every selection, space separated.
func FormatCursors(sels []cursor.Selection) string {
	parts := make([]string, len(sels))
	for i, sel := range sels {
		parts[i] = FormatCursor(sel)
	}
	return strings.Join(parts, " ")
}

func parsePosition(s string) (buffer.Position, error) {
	lineStr, charStr, ok := strings.Cut(s, ":")
	if !ok {
		return buffer.Position{}, fmt.Errorf("want LINE:CHAR, got %q", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return buffer.Position{}, fmt.Errorf("line: %w", err)
	}
	char, err := strconv.Atoi(charStr)
	if err != nil {
		return buffer.Position{}, fmt.Errorf("character: %w", err)
	}
	p := buffer.Pos(line, char)
	if !p.IsValid() {
		return buffer.Position{}, fmt.Errorf("negative position %s", s)
	}
	return p, nil
}

func formatPosition(p buffer.Position) string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Character)
}
