package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
)

// MaxHeadingLevel is the deepest ATX heading.
const MaxHeadingLevel = 6

// Direction selects the heading cycle direction.
type Direction int8

const (
	// HeadingUp adds a level; level 6 wraps to plain text.
	HeadingUp Direction = 1
	// HeadingDown removes a level; plain text wraps to level 6.
	HeadingDown Direction = -1
)

// String returns the direction name.
func (d Direction) String() string {
	if d == HeadingDown {
		return "down"
	}
	return "up"
}

// ParseDirection resolves "up" or "down".
func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "up", "+", "increase":
		return HeadingUp, nil
	case "down", "-", "decrease":
		return HeadingDown, nil
	}
	return 0, fmt.Errorf("unknown heading direction %q", name)
}

var headingPrefix = regexp.MustCompile(`^(#{1,6})(\s|$)`)

// HeadingLevel returns the ATX level of line (0 for plain text) and the
// length in characters of its marker, including one following space.
func HeadingLevel(line string) (level, markerLen int) {
	m := headingPrefix.FindStringSubmatch(line)
	if m == nil {
		return 0, 0
	}
	return len(m[1]), utf8.RuneCountInString(m[0])
}

// NextHeadingLevel cycles level one step in dir.
func NextHeadingLevel(level int, dir Direction) int {
	next := level + int(dir)
	switch {
	case next > MaxHeadingLevel:
		return 0
	case next < 0:
		return MaxHeadingLevel
	}
	return next
}

func headingMarker(level int) string {
	if level == 0 {
		return ""
	}
	return strings.Repeat("#", level) + " "
}

// PlanHeading computes the batch that cycles the heading level of every
// line holding a selection endpoint. Each line changes once regardless of
// how many carets sit on it.
func PlanHeading(doc buffer.Document, sels []cursor.Selection, dir Direction) *Plan {
	label := "heading " + dir.String()
	plan := &Plan{
		Label:      label,
		Batch:      buffer.NewBatchEdit(label),
		Ledger:     NewShiftLedger(),
		Selections: make([]cursor.Selection, len(sels)),
		Traces:     make([]Trace, 0, len(sels)),
	}
	if len(sels) > 0 {
		plan.PrimaryWasEmpty = sels[0].IsEmpty()
	}

	// New marker end per edited line; positions inside the old marker
	// collapse onto it.
	type lineEdit struct{ oldLen, newLen int }
	edited := make(map[int]lineEdit)

	for _, sel := range sels {
		for _, line := range []int{sel.Anchor.Line, sel.Active.Line} {
			if _, done := edited[line]; done || line < 0 || line >= doc.LineCount() {
				continue
			}
			level, oldLen := HeadingLevel(doc.LineText(line))
			marker := headingMarker(NextHeadingLevel(level, dir))
			newLen := utf8.RuneCountInString(marker)

			plan.Batch.Add(buffer.NewTextEdit(buffer.LineRange(line, 0, oldLen), marker))
			plan.Ledger.Record(ShiftEntry{Anchor: buffer.Pos(line, oldLen), Delta: newLen - oldLen})
			edited[line] = lineEdit{oldLen: oldLen, newLen: newLen}
		}
	}

	move := func(p buffer.Position) buffer.Position {
		e, ok := edited[p.Line]
		if !ok {
			return p
		}
		if p.Character < e.oldLen {
			return p.WithCharacter(e.newLen)
		}
		return plan.Ledger.Apply(p)
	}

	for i, sel := range sels {
		out := cursor.NewSelection(move(sel.Anchor), move(sel.Active))
		plan.Selections[i] = out
		plan.Traces = append(plan.Traces, Trace{
			Index:  i,
			Input:  sel,
			Steps:  []Step{StepIdle, StepTargetSelected, StepToggled, StepPositionCorrected},
			Target: Target{Kind: TargetSelection, Range: sel.Range()},
			Action: ActionWrap,
			Output: out,
		})
	}
	return plan
}

// CycleHeading moves the heading level of every selected line one step in
// dir.
func (c *Coordinator) CycleHeading(ctx context.Context, host Host, dir Direction) (*Plan, error) {
	plan := PlanHeading(host.Document(), host.Selections(), dir)
	c.trace(plan)
	if err := c.apply(ctx, host, plan); err != nil {
		return plan, err
	}
	return plan, nil
}
