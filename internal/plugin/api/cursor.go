package api

import (
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
)

// CursorModule implements the cursor API module.
type CursorModule struct {
	ctx *Context
}

// NewCursorModule creates a new cursor module.
func NewCursorModule(ctx *Context) *CursorModule {
	return &CursorModule{ctx: ctx}
}

// Name returns the module name.
func (m *CursorModule) Name() string {
	return "cursor"
}

// Register registers the module into the Lua state.
func (m *CursorModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetField(mod, "set", L.NewFunction(m.set))
	L.SetField(mod, "add", L.NewFunction(m.add))
	L.SetField(mod, "select", L.NewFunction(m.sel))
	L.SetField(mod, "get_all", L.NewFunction(m.getAll))
	L.SetField(mod, "count", L.NewFunction(m.count))
	L.SetGlobal(m.Name(), mod)
	return nil
}

// set(line, col)
// Replaces all selections with a single caret.
func (m *CursorModule) set(L *lua.LState) int {
	p := m.checkPosition(L, 1)
	m.ctx.Editor.SetSelections([]cursor.Selection{cursor.NewCursorSelection(p)})
	return 0
}

// add(line, col)
// Adds a caret after the existing selections.
func (m *CursorModule) add(L *lua.LState) int {
	p := m.checkPosition(L, 1)
	sels := append(m.ctx.Editor.Selections(), cursor.NewCursorSelection(p))
	m.ctx.Editor.SetSelections(sels)
	return 0
}

// select(anchor_line, anchor_col, active_line, active_col)
// Replaces all selections with one selection.
func (m *CursorModule) sel(L *lua.LState) int {
	anchor := m.checkPosition(L, 1)
	active := m.checkPosition(L, 3)
	m.ctx.Editor.SetSelections([]cursor.Selection{cursor.NewSelection(anchor, active)})
	return 0
}

// get_all() -> {{line, col, anchor_line, anchor_col}, ...}
// line and col give the active end.
func (m *CursorModule) getAll(L *lua.LState) int {
	tbl := L.NewTable()
	if m.ctx.Editor != nil {
		for _, s := range m.ctx.Editor.Selections() {
			entry := L.NewTable()
			L.SetField(entry, "line", lua.LNumber(s.Active.Line+1))
			L.SetField(entry, "col", lua.LNumber(s.Active.Character+1))
			L.SetField(entry, "anchor_line", lua.LNumber(s.Anchor.Line+1))
			L.SetField(entry, "anchor_col", lua.LNumber(s.Anchor.Character+1))
			tbl.Append(entry)
		}
	}
	L.Push(tbl)
	return 1
}

// count() -> number
func (m *CursorModule) count(L *lua.LState) int {
	n := 0
	if m.ctx.Editor != nil {
		n = len(m.ctx.Editor.Selections())
	}
	L.Push(lua.LNumber(n))
	return 1
}

// checkPosition reads a 1-based (line, col) pair starting at argument n
// and converts it to a document position.
func (m *CursorModule) checkPosition(L *lua.LState, n int) buffer.Position {
	line := L.CheckInt(n)
	col := L.CheckInt(n + 1)
	if m.ctx.Editor == nil {
		L.RaiseError("cursor: no buffer available")
		return buffer.Position{}
	}

	doc := m.ctx.Editor.Document()
	if line < 1 || line > doc.LineCount() {
		L.ArgError(n, "line out of range")
		return buffer.Position{}
	}
	if col < 1 || col > utf8.RuneCountInString(doc.LineText(line-1))+1 {
		L.ArgError(n+1, "column out of range")
		return buffer.Position{}
	}
	return buffer.Pos(line-1, col-1)
}
