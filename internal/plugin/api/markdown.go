package api

import (
	lua "github.com/yuin/gopher-lua"

	mdhandler "github.com/dshills/markstyle/internal/dispatcher/handlers/markdown"
	"github.com/dshills/markstyle/internal/input"
	"github.com/dshills/markstyle/internal/markdown"
)

// MarkdownModule implements the markdown API module.
type MarkdownModule struct {
	ctx *Context
}

// NewMarkdownModule creates a new markdown module.
func NewMarkdownModule(ctx *Context) *MarkdownModule {
	return &MarkdownModule{ctx: ctx}
}

// Name returns the module name.
func (m *MarkdownModule) Name() string {
	return "markdown"
}

// Register registers the module into the Lua state.
func (m *MarkdownModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetField(mod, "toggle", L.NewFunction(m.toggle))
	L.SetField(mod, "heading", L.NewFunction(m.heading))
	L.SetField(mod, "styles", L.NewFunction(m.styles))
	L.SetGlobal(m.Name(), mod)
	return nil
}

// toggle(style) -> status
// Toggles style at every selection. Returns "ok" or "no-op".
func (m *MarkdownModule) toggle(L *lua.LState) int {
	style, err := markdown.ParseStyle(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	name, _ := mdhandler.ActionForStyle(style)

	result := dispatch(L, m.ctx, "markdown.toggle", input.NewAction(name, input.SourcePlugin))
	L.Push(lua.LString(result.Status.String()))
	return 1
}

// heading(dir) -> status
// Cycles the heading level of every selected line.
func (m *MarkdownModule) heading(L *lua.LState) int {
	dir, err := markdown.ParseDirection(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	name := mdhandler.ActionHeadingUp
	if dir == markdown.HeadingDown {
		name = mdhandler.ActionHeadingDown
	}

	result := dispatch(L, m.ctx, "markdown.heading", input.NewAction(name, input.SourcePlugin))
	L.Push(lua.LString(result.Status.String()))
	return 1
}

// styles() -> {names}
func (m *MarkdownModule) styles(L *lua.LState) int {
	tbl := L.NewTable()
	for _, s := range markdown.Styles() {
		tbl.Append(lua.LString(s.String()))
	}
	L.Push(tbl)
	return 1
}
