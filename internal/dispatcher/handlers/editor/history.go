package editor

import (
	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/input"
)

// Action names for history operations.
const (
	ActionUndo = "editor.undo"
	ActionRedo = "editor.redo"
)

// HistoryHandler handles undo and redo.
type HistoryHandler struct{}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler() *HistoryHandler {
	return &HistoryHandler{}
}

// Namespace returns the editor namespace.
func (h *HistoryHandler) Namespace() string {
	return "editor"
}

// CanHandle returns true if this handler can process the action.
func (h *HistoryHandler) CanHandle(actionName string) bool {
	return actionName == ActionUndo || actionName == ActionRedo
}

// HandleAction undoes or redoes up to count batches.
func (h *HistoryHandler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}

	step, can := ctx.Editor.Undo, ctx.Editor.CanUndo
	if action.Name == ActionRedo {
		step, can = ctx.Editor.Redo, ctx.Editor.CanRedo
	}
	if !can() {
		return handler.NoOpWithMessage("nothing to " + action.Name[len("editor."):])
	}
	if ctx.DryRun {
		return handler.Success()
	}

	done := 0
	for range ctx.GetCount() {
		if !can() {
			break
		}
		if err := step(); err != nil {
			return handler.Error(err)
		}
		done++
	}
	return handler.Success().
		WithSelections(ctx.Editor.Selections()).
		WithData("steps", done)
}
