package markdown

import (
	"fmt"

	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/input"
	"github.com/dshills/markstyle/internal/markdown"
)

// Action names for markdown operations.
const (
	ActionToggleBold          = "markdown.toggleBold"          // **text**
	ActionToggleItalic        = "markdown.toggleItalic"        // *text*
	ActionToggleCodeSpan      = "markdown.toggleCodeSpan"      // `text`
	ActionToggleStrikethrough = "markdown.toggleStrikethrough" // ~~text~~
	ActionHeadingUp           = "markdown.headingUp"           // # -> ##
	ActionHeadingDown         = "markdown.headingDown"         // ## -> #
)

// Result data keys.
const (
	DataPlanLabel = "plan_label"
	DataBatchID   = "batch_id"
	DataApplied   = "applied"
)

var toggleStyles = map[string]markdown.Style{
	ActionToggleBold:          markdown.StyleBold,
	ActionToggleItalic:        markdown.StyleItalic,
	ActionToggleCodeSpan:      markdown.StyleCode,
	ActionToggleStrikethrough: markdown.StyleStrikethrough,
}

var headingDirections = map[string]markdown.Direction{
	ActionHeadingUp:   markdown.HeadingUp,
	ActionHeadingDown: markdown.HeadingDown,
}

// Handler handles every markdown.* action.
type Handler struct {
	handler.BaseNamespaceHandler
}

// NewHandler creates a markdown handler with all actions registered.
func NewHandler() *Handler {
	h := &Handler{BaseNamespaceHandler: *handler.NewBaseNamespaceHandler("markdown")}
	for name, style := range toggleStyles {
		h.Register(name, h.toggle(style))
	}
	for name, dir := range headingDirections {
		h.Register(name, h.heading(dir))
	}
	return h
}

// ActionForStyle returns the toggle action name for style.
func ActionForStyle(style markdown.Style) (string, bool) {
	for name, s := range toggleStyles {
		if s == style {
			return name, true
		}
	}
	return "", false
}

func (h *Handler) toggle(style markdown.Style) handler.Func {
	return func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return run(ctx, func() (*markdown.Plan, error) {
			if ctx.DryRun {
				return ctx.Coordinator.Plan(ctx.Editor.Document(), ctx.Editor.Selections(), style)
			}
			return ctx.Coordinator.Toggle(ctx.Ctx(), ctx.Editor, style)
		})
	}
}

func (h *Handler) heading(dir markdown.Direction) handler.Func {
	return func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return run(ctx, func() (*markdown.Plan, error) {
			if ctx.DryRun {
				return markdown.PlanHeading(ctx.Editor.Document(), ctx.Editor.Selections(), dir), nil
			}
			return ctx.Coordinator.CycleHeading(ctx.Ctx(), ctx.Editor, dir)
		})
	}
}

// run executes step once per count and reports the last plan. A dry run
// always plans once since the document does not change between steps.
func run(ctx *execctx.ExecutionContext, step func() (*markdown.Plan, error)) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}

	count := ctx.GetCount()
	if ctx.DryRun {
		count = 1
	}

	var (
		plan  *markdown.Plan
		edits []handler.Edit
	)
	for i := range count {
		if err := ctx.Ctx().Err(); err != nil {
			return handler.Cancelled(err)
		}
		doc := ctx.Editor.Document()
		p, err := step()
		if err != nil {
			return handler.Error(fmt.Errorf("step %d: %w", i+1, err))
		}
		plan = p
		edits = handler.EditsFromBatch(doc, p.Batch)
	}

	selections := plan.Selections
	if !ctx.DryRun {
		selections = ctx.Editor.Selections()
	}

	result := handler.Success()
	if len(edits) == 0 {
		result = handler.NoOp()
	}
	return result.
		WithMessage(plan.Label).
		WithEdits(edits).
		WithSelections(selections).
		WithData(DataPlanLabel, plan.Label).
		WithData(DataBatchID, plan.Batch.ID().String()).
		WithData(DataApplied, !ctx.DryRun)
}
