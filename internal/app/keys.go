package app

import (
	"context"
	"fmt"

	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/input/keymap"
)

// LookupContext returns the keymap context for the current document.
func (app *Application) LookupContext() *keymap.LookupContext {
	ctx := keymap.NewLookupContext()
	ctx.FileType = "markdown"
	if app.opts.FilePath != "" {
		ctx.FileType = execctx.FileTypeFor(app.opts.FilePath)
	}
	ctx.Conditions["readonly"] = app.engine.IsReadOnly()
	ctx.Variables["policy"] = app.Config().SelectionPolicy().String()
	return ctx
}

// DispatchKeys resolves a key sequence through the keymaps and dispatches
// the bound action.
func (app *Application) DispatchKeys(ctx context.Context, keys string) (keymap.Binding, handler.Result, error) {
	b, err := app.keymaps.LookupKeys(keys, app.LookupContext())
	if err != nil {
		return keymap.Binding{}, handler.Result{}, err
	}
	if b == nil {
		return keymap.Binding{}, handler.Result{}, fmt.Errorf("%w: %s", ErrUnboundKeys, keys)
	}
	return *b, app.Dispatch(ctx, b.ToAction()), nil
}
