package editor

import (
	"errors"

	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/dispatcher/hook"
	"github.com/dshills/markstyle/internal/input"
)

// ActionRepeat runs the last markdown command again.
const ActionRepeat = "editor.repeat"

// ErrNothingToRepeat is returned when no command has been captured yet.
var ErrNothingToRepeat = errors.New("nothing to repeat")

// RepeatHandler replays the action captured by a hook.RepeatHook.
type RepeatHandler struct {
	hook   *hook.RepeatHook
	replay handler.Func
}

// NewRepeatHandler creates a repeat handler. replay runs the captured
// action, normally by dispatching it again.
func NewRepeatHandler(h *hook.RepeatHook, replay handler.Func) *RepeatHandler {
	return &RepeatHandler{hook: h, replay: replay}
}

// CanHandle returns true if this handler can process the action.
func (h *RepeatHandler) CanHandle(actionName string) bool {
	return actionName == ActionRepeat
}

// HandleAction replays the last captured action. A count on the repeat
// replaces the captured count.
func (h *RepeatHandler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	last, count := h.hook.LastAction()
	if last == nil {
		return handler.NoOpWithMessage(ErrNothingToRepeat.Error())
	}
	if action.Count > 0 {
		count = action.Count
	}
	replayed := last.WithCount(count)
	replayed.Source = action.Source
	return h.replay(replayed, ctx)
}
