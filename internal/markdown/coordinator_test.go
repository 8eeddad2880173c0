package markdown

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markstyle/internal/engine"
	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
)

func caretAt(line, char int) cursor.Selection {
	return cursor.NewCursorSelection(buffer.Pos(line, char))
}

func newHost(text string, sels ...cursor.Selection) *engine.Engine {
	e := engine.New(engine.WithContent(text))
	if len(sels) > 0 {
		e.SetSelections(sels)
	}
	return e
}

// failingHost rejects every batch.
type failingHost struct {
	*engine.Engine
	err     error
	setSels int
}

func (h *failingHost) ApplyEdit(context.Context, *buffer.BatchEdit) error {
	return h.err
}

func (h *failingHost) SetSelections(sels []cursor.Selection) {
	h.setSels++
	h.Engine.SetSelections(sels)
}

func TestToggleHelloWorld(t *testing.T) {
	ctx := context.Background()
	host := newHost("Hello world", caretAt(0, 6))
	c := NewCoordinator()

	_, err := c.Toggle(ctx, host, StyleBold)
	require.NoError(t, err)
	assert.Equal(t, "Hello **world**", host.Text())
	assert.Equal(t, []cursor.Selection{caretAt(0, 8)}, host.Selections())

	_, err = c.Toggle(ctx, host, StyleBold)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", host.Text())
	assert.Equal(t, []cursor.Selection{caretAt(0, 6)}, host.Selections())
}

func TestToggleMultiCaretSameLine(t *testing.T) {
	host := newHost("xxxx a xxxx b", caretAt(0, 5), caretAt(0, 12))

	plan, err := NewCoordinator().Toggle(context.Background(), host, StyleBold)
	require.NoError(t, err)

	assert.Equal(t, "xxxx **a** xxxx **b**", host.Text())
	assert.Equal(t, []cursor.Selection{caretAt(0, 7), caretAt(0, 18)}, host.Selections())
	assert.Equal(t, 4, plan.Traces[1].Shift)
	assert.Equal(t, 2, plan.Ledger.Len())
}

func TestToggleMultiCaretReverseCreationOrder(t *testing.T) {
	// The caret to the right is processed first and is settled by the edit
	// scheduled after it.
	host := newHost("xxxx a xxxx b", caretAt(0, 12), caretAt(0, 5))

	_, err := NewCoordinator().Toggle(context.Background(), host, StyleBold)
	require.NoError(t, err)

	assert.Equal(t, "xxxx **a** xxxx **b**", host.Text())
	assert.Equal(t, []cursor.Selection{caretAt(0, 18), caretAt(0, 7)}, host.Selections())
}

func TestToggleMultiCaretDifferentLines(t *testing.T) {
	host := newHost("one two\nthree", caretAt(0, 4), caretAt(1, 2), caretAt(0, 0))

	_, err := NewCoordinator().Toggle(context.Background(), host, StyleCode)
	require.NoError(t, err)

	assert.Equal(t, "`one` `two`\n`three`", host.Text())
	assert.Equal(t, []cursor.Selection{caretAt(0, 7), caretAt(1, 3), caretAt(0, 1)}, host.Selections())
}

func TestToggleClosingDelimiterSkips(t *testing.T) {
	host := newHost("**text** more", caretAt(0, 6))

	plan, err := NewCoordinator().Toggle(context.Background(), host, StyleBold)
	require.NoError(t, err)

	assert.Equal(t, "**text** more", host.Text())
	assert.True(t, plan.Batch.IsEmpty())
	assert.Equal(t, 0, plan.Ledger.Len())
	assert.Equal(t, ActionAdvance, plan.Traces[0].Action)
	assert.Equal(t, []Step{StepIdle, StepClassified, StepNoOp}, plan.Traces[0].Steps)
	assert.Equal(t, []cursor.Selection{caretAt(0, 8)}, host.Selections())
	assert.False(t, host.CanUndo())
}

func TestToggleEmptyCaretRoundTrip(t *testing.T) {
	ctx := context.Background()
	host := newHost("a  b", caretAt(0, 2))
	c := NewCoordinator()

	_, err := c.Toggle(ctx, host, StyleBold)
	require.NoError(t, err)
	assert.Equal(t, "a **** b", host.Text())
	assert.Equal(t, []cursor.Selection{caretAt(0, 4)}, host.Selections())

	_, err = c.Toggle(ctx, host, StyleBold)
	require.NoError(t, err)
	assert.Equal(t, "a  b", host.Text())
	assert.Equal(t, []cursor.Selection{caretAt(0, 2)}, host.Selections())
}

func TestToggleStrikethroughListItem(t *testing.T) {
	ctx := context.Background()
	host := newHost("- [ ] buy milk", caretAt(0, 12))
	c := NewCoordinator()

	_, err := c.Toggle(ctx, host, StyleStrikethrough)
	require.NoError(t, err)
	assert.Equal(t, "- [ ] ~~buy milk~~", host.Text())
	assert.Equal(t, []cursor.Selection{caretAt(0, 14)}, host.Selections())

	_, err = c.Toggle(ctx, host, StyleStrikethrough)
	require.NoError(t, err)
	assert.Equal(t, "- [ ] buy milk", host.Text())
	assert.Equal(t, []cursor.Selection{caretAt(0, 12)}, host.Selections())
}

func TestToggleDuplicateCaretsInOneWord(t *testing.T) {
	host := newHost("Hello world", caretAt(0, 6), caretAt(0, 8))

	plan, err := NewCoordinator().Toggle(context.Background(), host, StyleBold)
	require.NoError(t, err)

	assert.Equal(t, "Hello **world**", host.Text())
	assert.Equal(t, 1, plan.Batch.Len())
	assert.True(t, plan.Traces[1].Duplicate)
	assert.Equal(t, []cursor.Selection{caretAt(0, 8), caretAt(0, 10)}, host.Selections())
}

func TestToggleDuplicateCaretAtWordEnd(t *testing.T) {
	tests := []struct {
		name  string
		sels  []cursor.Selection
		plans []cursor.Selection
	}{
		{"start then end", []cursor.Selection{caretAt(0, 0), caretAt(0, 2)}, []cursor.Selection{caretAt(0, 2), caretAt(0, 6)}},
		{"end then start", []cursor.Selection{caretAt(0, 2), caretAt(0, 0)}, []cursor.Selection{caretAt(0, 6), caretAt(0, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanToggle(buffer.NewBufferFromString("ab cd"), tt.sels, NewPattern("**"), StyleBold)
			require.NoError(t, err)
			assert.Equal(t, 1, plan.Batch.Len())
			assert.Equal(t, tt.plans, plan.Selections)

			host := newHost("ab cd", tt.sels...)
			_, err = NewCoordinator().Toggle(context.Background(), host, StyleBold)
			require.NoError(t, err)
			assert.Equal(t, "**ab** cd", host.Text())
			assert.ElementsMatch(t, tt.plans, host.Selections())
		})
	}
}

func TestToggleSelectionSymmetry(t *testing.T) {
	ctx := context.Background()
	sel := cursor.NewSelection(buffer.Pos(0, 6), buffer.Pos(0, 11))
	host := newHost("Hello world", sel)
	c := NewCoordinator(WithSelectionPolicy(PolicyAlways))

	_, err := c.Toggle(ctx, host, StyleItalic)
	require.NoError(t, err)
	assert.Equal(t, "Hello *world*", host.Text())
	assert.Equal(t, []cursor.Selection{cursor.NewSelection(buffer.Pos(0, 6), buffer.Pos(0, 13))}, host.Selections())

	_, err = c.Toggle(ctx, host, StyleItalic)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", host.Text())
	assert.Equal(t, []cursor.Selection{sel}, host.Selections())
}

// A non-empty primary selection leaves placement to the host under the
// default policy, even for the other carets.
func TestSelectionPolicyPrimaryEmpty(t *testing.T) {
	sels := []cursor.Selection{
		cursor.NewSelection(buffer.Pos(0, 0), buffer.Pos(0, 5)),
		caretAt(0, 8),
	}

	host := newHost("Hello world", sels...)
	plan, err := NewCoordinator().Toggle(context.Background(), host, StyleBold)
	require.NoError(t, err)
	assert.Equal(t, "**Hello** **world**", host.Text())
	assert.False(t, plan.PrimaryWasEmpty)
	assert.Equal(t, caretAt(0, 14), plan.Selections[1])
	// Host placement: the caret inside the replaced word moves to its end.
	assert.Equal(t, caretAt(0, 19), host.Selections()[1])

	host = newHost("Hello world", sels...)
	_, err = NewCoordinator(WithSelectionPolicy(PolicyAlways)).Toggle(context.Background(), host, StyleBold)
	require.NoError(t, err)
	assert.Equal(t, caretAt(0, 14), host.Selections()[1])
	assert.Equal(t, cursor.NewSelection(buffer.Pos(0, 0), buffer.Pos(0, 9)), host.Selections()[0])
}

func TestSelectionPolicyPrimaryEmptyInstallsWhenPrimaryIsCaret(t *testing.T) {
	host := newHost("Hello world", caretAt(0, 8), cursor.NewSelection(buffer.Pos(0, 0), buffer.Pos(0, 5)))

	_, err := NewCoordinator().Toggle(context.Background(), host, StyleBold)
	require.NoError(t, err)
	assert.Equal(t, "**Hello** **world**", host.Text())
	assert.Equal(t, []cursor.Selection{
		caretAt(0, 14),
		cursor.NewSelection(buffer.Pos(0, 0), buffer.Pos(0, 9)),
	}, host.Selections())
}

func TestToggleHostFailure(t *testing.T) {
	hostErr := errors.New("document changed")
	host := &failingHost{Engine: newHost("Hello world", caretAt(0, 6)), err: hostErr}

	_, err := NewCoordinator().Toggle(context.Background(), host, StyleBold)
	require.ErrorIs(t, err, hostErr)
	assert.Equal(t, 0, host.setSels, "selections must not be installed after a failed edit")
	assert.Equal(t, "Hello world", host.Text())
}

func TestToggleOverlapPropagated(t *testing.T) {
	host := newHost("Hello world",
		cursor.NewSelection(buffer.Pos(0, 4), buffer.Pos(0, 8)),
		caretAt(0, 9),
	)

	_, err := NewCoordinator().Toggle(context.Background(), host, StyleBold)
	require.ErrorIs(t, err, buffer.ErrEditsOverlap)
	assert.Equal(t, "Hello world", host.Text())
}

func TestToggleCustomPatterns(t *testing.T) {
	host := newHost("Hello world", caretAt(0, 7))
	c := NewCoordinator(WithPatterns(Patterns{StyleBold: NewPattern("__")}))

	_, err := c.Toggle(context.Background(), host, StyleBold)
	require.NoError(t, err)
	assert.Equal(t, "Hello __world__", host.Text())
	assert.Equal(t, []cursor.Selection{caretAt(0, 9)}, host.Selections())
}

func TestPlanDoesNotTouchHost(t *testing.T) {
	host := newHost("Hello world", caretAt(0, 6))
	plan, err := NewCoordinator().Plan(host.Document(), host.Selections(), StyleCode)
	require.NoError(t, err)

	assert.Equal(t, "Hello world", host.Text())
	require.Equal(t, 1, plan.Batch.Len())
	assert.Equal(t, "`world`", plan.Batch.Edits()[0].NewText)
	assert.Equal(t, []Step{StepIdle, StepClassified, StepTargetSelected, StepToggled, StepPositionCorrected}, plan.Traces[0].Steps)
}

func TestPlanInvalidPattern(t *testing.T) {
	doc := buffer.NewBufferFromString("x")
	_, err := PlanToggle(doc, []cursor.Selection{caretAt(0, 0)}, Pattern{}, StyleBold)
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestToggleUndoRestoresAllCarets(t *testing.T) {
	host := newHost("xxxx a xxxx b", caretAt(0, 5), caretAt(0, 12))
	_, err := NewCoordinator().Toggle(context.Background(), host, StyleBold)
	require.NoError(t, err)

	require.NoError(t, host.Undo())
	assert.Equal(t, "xxxx a xxxx b", host.Text())
	assert.Equal(t, []cursor.Selection{caretAt(0, 5), caretAt(0, 12)}, host.Selections())
}

func TestParseSelectionPolicy(t *testing.T) {
	p, err := ParseSelectionPolicy("always")
	require.NoError(t, err)
	assert.Equal(t, PolicyAlways, p)

	p, err = ParseSelectionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyPrimaryEmpty, p)

	_, err = ParseSelectionPolicy("sometimes")
	assert.Error(t, err)
}
