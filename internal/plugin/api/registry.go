package api

import (
	"context"
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/input"
)

// Module is a Lua API module registered as a global table.
type Module interface {
	// Name returns the global name of the module table.
	Name() string

	// Register installs the module into the Lua state.
	Register(L *lua.LState) error
}

// Runner dispatches actions on behalf of scripts.
type Runner interface {
	Dispatch(ctx context.Context, action input.Action) handler.Result
}

// Context provides the editor state to API modules.
type Context struct {
	Editor execctx.Editor
	Runner Runner
}

// Registry manages API modules and their registration.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates a new API registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// List returns all registered module names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InjectAll registers every module into the Lua state.
func (r *Registry) InjectAll(L *lua.LState) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, mod := range r.modules {
		if err := mod.Register(L); err != nil {
			return fmt.Errorf("register module %q: %w", name, err)
		}
	}
	return nil
}

// DefaultRegistry creates a registry with the markdown, buffer, cursor
// and editor modules.
func DefaultRegistry(ctx *Context) *Registry {
	r := NewRegistry()
	for _, mod := range []Module{
		NewMarkdownModule(ctx),
		NewBufferModule(ctx),
		NewCursorModule(ctx),
		NewEditorModule(ctx),
	} {
		// Names are distinct.
		_ = r.Register(mod)
	}
	return r
}

// dispatch runs an action from a script and raises a Lua error when it
// fails or is cancelled.
func dispatch(L *lua.LState, c *Context, fn string, action input.Action) handler.Result {
	if c.Runner == nil {
		L.RaiseError("%s: no dispatcher available", fn)
	}
	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result := c.Runner.Dispatch(ctx, action)
	switch result.Status {
	case handler.StatusError, handler.StatusCancelled:
		L.RaiseError("%s: %v", fn, result.Error)
	}
	return result
}
