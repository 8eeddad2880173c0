package editor

import (
	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/input"
)

// Action names for insert operations.
const (
	ActionInsertText      = "editor.insertText"
	ActionInsertNewline   = "editor.insertNewline"
	ActionDeleteSelection = "editor.deleteSelection"
)

// InsertHandler handles text insertion operations.
type InsertHandler struct{}

// NewInsertHandler creates a new insert handler.
func NewInsertHandler() *InsertHandler {
	return &InsertHandler{}
}

// Namespace returns the editor namespace.
func (h *InsertHandler) Namespace() string {
	return "editor"
}

// CanHandle returns true if this handler can process the action.
func (h *InsertHandler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionInsertText, ActionInsertNewline, ActionDeleteSelection:
		return true
	}
	return false
}

// HandleAction processes an insert action.
func (h *InsertHandler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionInsertText:
		return h.replaceSelections(ctx, "insert", action.Args.Text)
	case ActionInsertNewline:
		return h.replaceSelections(ctx, "newline", "\n")
	case ActionDeleteSelection:
		return h.replaceSelections(ctx, "delete", "")
	default:
		return handler.Errorf("unknown insert action: %s", action.Name)
	}
}

// replaceSelections replaces every selection with text in one batch.
// Carets sharing a position insert once.
func (h *InsertHandler) replaceSelections(ctx *execctx.ExecutionContext, label, text string) handler.Result {
	doc := ctx.Editor.Document()
	batch := buffer.NewBatchEdit(label)
	for _, sel := range ctx.Editor.Selections() {
		edit := buffer.NewTextEdit(sel.Range(), text)
		if batch.Contains(edit) {
			continue
		}
		batch.Add(edit)
	}
	if batch.IsEmpty() {
		return handler.NoOp()
	}

	edits := handler.EditsFromBatch(doc, batch)
	if ctx.DryRun {
		return handler.Success().WithEdits(edits)
	}
	if err := ctx.Editor.ApplyEdit(ctx.Ctx(), batch); err != nil {
		return handler.Error(err)
	}
	return handler.Success().WithEdits(edits).WithSelections(ctx.Editor.Selections())
}
