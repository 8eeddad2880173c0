package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/dispatcher/hook"
	"github.com/dshills/markstyle/internal/input"
	"github.com/dshills/markstyle/internal/markdown"
)

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	router   *Router

	editor      execctx.Editor
	coordinator *markdown.Coordinator
	logger      *slog.Logger
	filePath    string

	config  Config
	metrics *Metrics

	hookManager *hook.Manager
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry:    NewRegistry(),
		router:      NewRouter(),
		coordinator: markdown.NewCoordinator(),
		logger:      slog.New(slog.DiscardHandler),
		config:      config,
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetEditor attaches the editor actions operate on.
func (d *Dispatcher) SetEditor(editor execctx.Editor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.editor = editor
}

// Editor returns the attached editor.
func (d *Dispatcher) Editor() execctx.Editor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.editor
}

// SetCoordinator replaces the toggle coordinator.
func (d *Dispatcher) SetCoordinator(c *markdown.Coordinator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.coordinator = c
}

// Coordinator returns the toggle coordinator.
func (d *Dispatcher) Coordinator() *markdown.Coordinator {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.coordinator
}

// SetLogger sets the logger passed to handlers.
func (d *Dispatcher) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = logger
}

// SetFilePath records the path of the document being edited.
func (d *Dispatcher) SetFilePath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filePath = path
}

// Dispatch executes an action against the attached editor.
func (d *Dispatcher) Dispatch(ctx context.Context, action input.Action) handler.Result {
	return d.dispatchInternal(ctx, action, false)
}

// Plan runs an action as a dry run. Handlers report the edits and
// selections they would produce; the document is left untouched.
func (d *Dispatcher) Plan(ctx context.Context, action input.Action) handler.Result {
	return d.dispatchInternal(ctx, action, true)
}

func (d *Dispatcher) dispatchInternal(ctx context.Context, action input.Action, dryRun bool) handler.Result {
	startTime := time.Now()

	if action.Name == "" {
		return handler.Error(ErrInvalidAction)
	}

	ctx, cancel := d.config.deadline(ctx)
	defer cancel()

	execCtx := d.buildContext(ctx, action, dryRun)

	if !d.runPreHooks(&action, execCtx) {
		return handler.Cancelled(ErrActionCancelled)
	}

	h := d.router.Route(action.Name)
	if h == nil {
		h = d.registry.Get(action.Name)
	}
	if h == nil {
		return handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, action, execCtx)
	} else {
		result = h.Handle(action, execCtx)
	}

	if result.IsError() {
		execCtx.Logger.Warn("action failed", "action", action.Name, "error", result.Error)
	}

	d.runPostHooks(&action, execCtx, &result)

	if d.metrics != nil {
		d.metrics.RecordDispatch(action.Name, time.Since(startTime), result)
	}

	return result
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			ctx.Logger.Error("handler panic", "action", action.Name, "panic", r, "stack", string(stack[:n]))
			result = handler.Error(fmt.Errorf("%w: %s: %v", ErrPanic, action.Name, r))

			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
		}
	}()

	return h.Handle(action, ctx)
}

// buildContext builds an execution context from current state.
func (d *Dispatcher) buildContext(ctx context.Context, action input.Action, dryRun bool) *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	count := d.config.repeatCount(action.Count)

	return execctx.New(d.editor).
		WithContext(ctx).
		WithCoordinator(d.coordinator).
		WithLogger(d.logger).
		WithFilePath(d.filePath).
		WithCount(count).
		WithDryRun(dryRun)
}

// RegisterHandlerFunc registers a handler function for an action name.
func (d *Dispatcher) RegisterHandlerFunc(actionName string, fn handler.Func) {
	d.registry.Register(actionName, handler.NewHandlerFunc(fn))
}

// RegisterNamespace registers a namespace handler.
func (d *Dispatcher) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	d.router.RegisterNamespace(namespace, h)
}

func (d *Dispatcher) runPreHooks(action *input.Action, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	manager := d.hookManager
	d.mu.RUnlock()

	if manager == nil {
		return true
	}
	return manager.RunPreDispatch(action, ctx)
}

func (d *Dispatcher) runPostHooks(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	manager := d.hookManager
	d.mu.RUnlock()

	if manager != nil {
		manager.RunPostDispatch(action, ctx, result)
	}
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// HookManager returns the hook manager (may be nil).
func (d *Dispatcher) HookManager() *hook.Manager {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hookManager
}

// EnableHookManager creates and sets a new hook manager if not already set.
func (d *Dispatcher) EnableHookManager() *hook.Manager {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.hookManager == nil {
		d.hookManager = hook.NewManager()
	}
	return d.hookManager
}
