package dispatcher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markstyle/internal/dispatcher"
	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	editorhandler "github.com/dshills/markstyle/internal/dispatcher/handlers/editor"
	mdhandler "github.com/dshills/markstyle/internal/dispatcher/handlers/markdown"
	"github.com/dshills/markstyle/internal/dispatcher/hook"
	"github.com/dshills/markstyle/internal/engine"
	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
	"github.com/dshills/markstyle/internal/input"
)

func caret(line, char int) cursor.Selection {
	return cursor.NewCursorSelection(buffer.Pos(line, char))
}

func newDispatcher(t *testing.T, text string, cfg dispatcher.Config) (*dispatcher.Dispatcher, *engine.Engine) {
	t.Helper()
	e := engine.New(engine.WithContent(text))
	d := dispatcher.New(cfg)
	d.SetEditor(e)
	d.SetFilePath("notes.md")
	d.RegisterNamespace("markdown", mdhandler.NewHandler())
	return d, e
}

func action(name string) input.Action {
	return input.NewAction(name, input.SourceAPI)
}

func TestDispatchToggle(t *testing.T) {
	d, e := newDispatcher(t, "Hello world", dispatcher.DefaultConfig())
	e.SetSelections([]cursor.Selection{caret(0, 6)})

	result := d.Dispatch(context.Background(), action(mdhandler.ActionToggleBold))
	require.True(t, result.IsOK(), "error: %v", result.Error)
	assert.Equal(t, "Hello **world**", e.Text())
	assert.Equal(t, []cursor.Selection{caret(0, 8)}, e.Selections())
}

func TestDispatchMultiCaret(t *testing.T) {
	d, e := newDispatcher(t, "xxxx a xxxx b", dispatcher.DefaultConfig())
	e.SetSelections([]cursor.Selection{caret(0, 5), caret(0, 12)})

	result := d.Dispatch(context.Background(), action(mdhandler.ActionToggleBold))
	require.True(t, result.IsOK())
	assert.Equal(t, "xxxx **a** xxxx **b**", e.Text())
	assert.Equal(t, []cursor.Selection{caret(0, 7), caret(0, 18)}, e.Selections())
	assert.Equal(t, 1, e.UndoCount())
}

func TestPlanLeavesDocument(t *testing.T) {
	d, e := newDispatcher(t, "Hello world", dispatcher.DefaultConfig())
	e.SetSelections([]cursor.Selection{caret(0, 6)})

	result := d.Plan(context.Background(), action(mdhandler.ActionToggleBold))
	require.True(t, result.IsOK())
	assert.Equal(t, "Hello world", e.Text())
	require.Len(t, result.Edits, 1)
	assert.Equal(t, "**world**", result.Edits[0].NewText)
	assert.Equal(t, []cursor.Selection{caret(0, 8)}, result.Selections)
}

func TestDispatchNoHandler(t *testing.T) {
	d, _ := newDispatcher(t, "", dispatcher.DefaultConfig())

	result := d.Dispatch(context.Background(), action("nothing.here"))
	assert.True(t, result.IsError())
	assert.ErrorIs(t, result.Error, dispatcher.ErrNoHandler)

	result = d.Dispatch(context.Background(), input.Action{})
	assert.ErrorIs(t, result.Error, dispatcher.ErrInvalidAction)
}

func TestDispatchRegistryHandler(t *testing.T) {
	d, _ := newDispatcher(t, "", dispatcher.DefaultConfig())

	var gotCount int
	d.RegisterHandlerFunc("custom.count", func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		gotCount = ctx.Count
		return handler.Success()
	})

	result := d.Dispatch(context.Background(), action("custom.count").WithCount(5))
	require.True(t, result.IsOK())
	assert.Equal(t, 5, gotCount)
}

func TestDispatchClampsCount(t *testing.T) {
	d, _ := newDispatcher(t, "", dispatcher.DefaultConfig().WithMaxRepeatCount(3))

	var gotCount int
	d.RegisterHandlerFunc("custom.count", func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		gotCount = ctx.Count
		return handler.Success()
	})
	d.Dispatch(context.Background(), action("custom.count").WithCount(50))
	assert.Equal(t, 3, gotCount)
}

func TestDispatchRecoversPanic(t *testing.T) {
	d, _ := newDispatcher(t, "", dispatcher.DefaultConfig().WithMetrics())
	d.RegisterHandlerFunc("custom.panic", func(input.Action, *execctx.ExecutionContext) handler.Result {
		panic("boom")
	})

	result := d.Dispatch(context.Background(), action("custom.panic"))
	assert.True(t, result.IsError())
	assert.ErrorIs(t, result.Error, dispatcher.ErrPanic)
	assert.Equal(t, uint64(1), d.Metrics().TotalPanics())
}

func TestDispatchTimeout(t *testing.T) {
	d, _ := newDispatcher(t, "", dispatcher.DefaultConfig().WithTimeout(time.Millisecond))
	d.RegisterHandlerFunc("custom.wait", func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		<-ctx.Ctx().Done()
		return handler.Cancelled(ctx.Ctx().Err())
	})

	result := d.Dispatch(context.Background(), action("custom.wait"))
	assert.Equal(t, handler.StatusCancelled, result.Status)
	assert.True(t, errors.Is(result.Error, context.DeadlineExceeded))
}

func TestDispatchHooks(t *testing.T) {
	d, e := newDispatcher(t, "Hello world", dispatcher.DefaultConfig())
	e.SetSelections([]cursor.Selection{caret(0, 6)})

	journal := hook.NewJournalHook(10)
	m := d.EnableHookManager()
	m.Register(journal)
	m.Register(hook.NewSourceFilterHook("only-editor", input.SourceAPI, "editor"))

	result := d.Dispatch(context.Background(), action(mdhandler.ActionToggleBold))
	assert.Equal(t, handler.StatusCancelled, result.Status)
	assert.ErrorIs(t, result.Error, dispatcher.ErrActionCancelled)
	assert.Equal(t, "Hello world", e.Text())

	m.Register(hook.NewSourceFilterHook("only-editor", input.SourceAPI, "editor", "markdown"))
	result = d.Dispatch(context.Background(), action(mdhandler.ActionToggleBold))
	require.True(t, result.IsOK())

	changes := journal.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "world", changes[0].OldText)
	assert.Equal(t, "**world**", changes[0].NewText)
	assert.Equal(t, "notes.md", changes[0].FilePath)
}

func TestDispatchRepeat(t *testing.T) {
	d, e := newDispatcher(t, "one two", dispatcher.DefaultConfig())
	repeatHook := hook.NewRepeatHook()
	d.EnableHookManager().Register(repeatHook)
	d.RegisterNamespace("editor", editorhandler.NewCombinedHandler(
		editorhandler.NewRepeatHandler(repeatHook, func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
			return d.Dispatch(ctx.Ctx(), a)
		}),
	))

	e.SetSelections([]cursor.Selection{caret(0, 1)})
	require.True(t, d.Dispatch(context.Background(), action(mdhandler.ActionToggleItalic)).IsOK())
	assert.Equal(t, "*one* two", e.Text())

	e.SetSelections([]cursor.Selection{caret(0, 7)})
	result := d.Dispatch(context.Background(), action(editorhandler.ActionRepeat))
	require.True(t, result.IsOK(), "error: %v", result.Error)
	assert.Equal(t, "*one* *two*", e.Text())

	require.True(t, d.Dispatch(context.Background(), action(editorhandler.ActionUndo)).IsOK())
	assert.Equal(t, "*one* two", e.Text())
}

func TestDispatchReadOnly(t *testing.T) {
	e := engine.New(engine.WithContent("Hello"), engine.WithReadOnly())
	d := dispatcher.NewWithDefaults()
	d.SetEditor(e)
	d.RegisterNamespace("markdown", mdhandler.NewHandler())

	result := d.Dispatch(context.Background(), action(mdhandler.ActionToggleBold))
	assert.ErrorIs(t, result.Error, execctx.ErrReadOnly)

	result = d.Plan(context.Background(), action(mdhandler.ActionToggleBold))
	assert.True(t, result.IsOK())
}

func TestDispatchMetrics(t *testing.T) {
	d, e := newDispatcher(t, "**foo**", dispatcher.DefaultConfig().WithMetrics())
	e.SetSelections([]cursor.Selection{caret(0, 5)})

	d.Dispatch(context.Background(), action(mdhandler.ActionToggleBold))
	d.Dispatch(context.Background(), action("nothing.here"))

	m := d.Metrics()
	stats := m.ActionStats(mdhandler.ActionToggleBold)
	require.NotNil(t, stats)
	assert.Equal(t, uint64(1), stats.DispatchCount)
	assert.Equal(t, uint64(1), stats.NoOpCount)
	assert.Equal(t, handler.StatusNoOp, stats.LastStatus)
	assert.Equal(t, uint64(1), m.TotalDispatches(), "unrouted actions are not recorded")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, dispatcher.DefaultConfig().Validate())
	assert.ErrorIs(t, dispatcher.DefaultConfig().WithTimeout(-time.Second).Validate(), dispatcher.ErrInvalidConfig)
	assert.ErrorIs(t, dispatcher.DefaultConfig().WithMaxRepeatCount(-1).Validate(), dispatcher.ErrInvalidConfig)
}

func TestDispatchZeroCountRunsOnce(t *testing.T) {
	d, _ := newDispatcher(t, "", dispatcher.DefaultConfig().WithMaxRepeatCount(0))

	var gotCount int
	d.RegisterHandlerFunc("custom.count", func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		gotCount = ctx.Count
		return handler.Success()
	})
	d.Dispatch(context.Background(), action("custom.count").WithCount(0))
	assert.Equal(t, 1, gotCount)
}
