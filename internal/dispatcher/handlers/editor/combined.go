package editor

import (
	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/input"
)

// CombinedHandler handles all editor operations by delegating to specialized handlers.
type CombinedHandler struct {
	insert  *InsertHandler
	history *HistoryHandler
	repeat  *RepeatHandler
}

// NewCombinedHandler creates a handler that combines all editor handlers.
// repeat may be nil, in which case editor.repeat is not handled.
func NewCombinedHandler(repeat *RepeatHandler) *CombinedHandler {
	return &CombinedHandler{
		insert:  NewInsertHandler(),
		history: NewHistoryHandler(),
		repeat:  repeat,
	}
}

// Namespace returns the editor namespace.
func (h *CombinedHandler) Namespace() string {
	return "editor"
}

// CanHandle returns true if this handler can process the action.
func (h *CombinedHandler) CanHandle(actionName string) bool {
	return h.insert.CanHandle(actionName) ||
		h.history.CanHandle(actionName) ||
		(h.repeat != nil && h.repeat.CanHandle(actionName))
}

// HandleAction processes an editor action by delegating to the appropriate handler.
func (h *CombinedHandler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	switch {
	case h.insert.CanHandle(action.Name):
		return h.insert.HandleAction(action, ctx)
	case h.history.CanHandle(action.Name):
		return h.history.HandleAction(action, ctx)
	case h.repeat != nil && h.repeat.CanHandle(action.Name):
		return h.repeat.HandleAction(action, ctx)
	}
	return handler.Errorf("unknown editor action: %s", action.Name)
}
