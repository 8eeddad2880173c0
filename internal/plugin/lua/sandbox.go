package lua

import (
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// removedGlobals load code from outside the script or reach the module
// system.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// Sandbox restricts a Lua state to the safe subset of the base library.
type Sandbox struct {
	L      *lua.LState
	output io.Writer
}

// NewSandbox creates a sandbox for L writing print output to w.
func NewSandbox(L *lua.LState, w io.Writer) *Sandbox {
	if w == nil {
		w = io.Discard
	}
	return &Sandbox{L: L, output: w}
}

// Install removes unsafe globals and redirects print.
func (s *Sandbox) Install() {
	for _, name := range removedGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.L.SetGlobal("print", s.L.NewFunction(s.print))
}

// print(...) writes its arguments tab-separated with a trailing newline.
func (s *Sandbox) print(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(s.output, strings.Join(parts, "\t"))
	return 0
}
