package api

import (
	lua "github.com/yuin/gopher-lua"
)

// BufferModule implements the buffer API module.
type BufferModule struct {
	ctx *Context
}

// NewBufferModule creates a new buffer module.
func NewBufferModule(ctx *Context) *BufferModule {
	return &BufferModule{ctx: ctx}
}

// Name returns the module name.
func (m *BufferModule) Name() string {
	return "buffer"
}

// Register registers the module into the Lua state.
func (m *BufferModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetField(mod, "text", L.NewFunction(m.text))
	L.SetField(mod, "line", L.NewFunction(m.line))
	L.SetField(mod, "line_count", L.NewFunction(m.lineCount))
	L.SetGlobal(m.Name(), mod)
	return nil
}

// text() -> string
func (m *BufferModule) text(L *lua.LState) int {
	if m.ctx.Editor == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(m.ctx.Editor.Text()))
	return 1
}

// line(n) -> string
// Returns the text of line n without its line ending.
func (m *BufferModule) line(L *lua.LState) int {
	n := L.CheckInt(1)
	if m.ctx.Editor == nil {
		L.RaiseError("line: no buffer available")
		return 0
	}

	doc := m.ctx.Editor.Document()
	if n < 1 || n > doc.LineCount() {
		L.ArgError(1, "line out of range")
		return 0
	}
	L.Push(lua.LString(doc.LineText(n - 1)))
	return 1
}

// line_count() -> number
func (m *BufferModule) lineCount(L *lua.LState) int {
	if m.ctx.Editor == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.ctx.Editor.Document().LineCount()))
	return 1
}
