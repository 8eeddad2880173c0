package dispatcher

import (
	"testing"

	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/input"
)

func TestRegistryPriority(t *testing.T) {
	r := NewRegistry()
	low := handler.NewHandlerFuncWithPriority(func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("low")
	}, 1)
	high := handler.NewHandlerFuncWithPriority(func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("high")
	}, 10)

	r.Register("file.save", low)
	r.Register("file.save", high)

	if got := r.Get("file.save"); got != high {
		t.Error("expected highest priority handler first")
	}
	if got := r.Get("file.close"); got != nil {
		t.Error("expected nil for an unregistered action")
	}
}
