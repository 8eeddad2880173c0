package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/markstyle/internal/dispatcher/handler"
	editorhandler "github.com/dshills/markstyle/internal/dispatcher/handlers/editor"
	"github.com/dshills/markstyle/internal/input"
)

// EditorModule implements the editor API module.
type EditorModule struct {
	ctx *Context
}

// NewEditorModule creates a new editor module.
func NewEditorModule(ctx *Context) *EditorModule {
	return &EditorModule{ctx: ctx}
}

// Name returns the module name.
func (m *EditorModule) Name() string {
	return "editor"
}

// Register registers the module into the Lua state.
func (m *EditorModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetField(mod, "undo", L.NewFunction(m.undo))
	L.SetField(mod, "redo", L.NewFunction(m.redo))
	L.SetField(mod, "run", L.NewFunction(m.run))
	L.SetField(mod, "read_only", L.NewFunction(m.readOnly))
	L.SetGlobal(m.Name(), mod)
	return nil
}

// undo() -> bool
// Returns false when there was nothing to undo.
func (m *EditorModule) undo(L *lua.LState) int {
	result := dispatch(L, m.ctx, "editor.undo", input.NewAction(editorhandler.ActionUndo, input.SourcePlugin))
	L.Push(lua.LBool(result.Status == handler.StatusOK))
	return 1
}

// redo() -> bool
func (m *EditorModule) redo(L *lua.LState) int {
	result := dispatch(L, m.ctx, "editor.redo", input.NewAction(editorhandler.ActionRedo, input.SourcePlugin))
	L.Push(lua.LBool(result.Status == handler.StatusOK))
	return 1
}

// run(action [, count]) -> status
// Dispatches any action by its full name.
func (m *EditorModule) run(L *lua.LState) int {
	action := input.NewAction(L.CheckString(1), input.SourcePlugin).WithCount(L.OptInt(2, 0))
	result := dispatch(L, m.ctx, "editor.run", action)
	L.Push(lua.LString(result.Status.String()))
	return 1
}

// read_only() -> bool
func (m *EditorModule) readOnly(L *lua.LState) int {
	L.Push(lua.LBool(m.ctx.Editor != nil && m.ctx.Editor.IsReadOnly()))
	return 1
}
