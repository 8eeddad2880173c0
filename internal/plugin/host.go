package plugin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/plugin/api"
	plua "github.com/dshills/markstyle/internal/plugin/lua"
)

// Host runs scripts in one sandboxed Lua state.
type Host struct {
	state    *plua.State
	registry *api.Registry
	logger   *slog.Logger

	output           io.Writer
	executionTimeout time.Duration
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithOutput sets the writer receiving script print output.
func WithOutput(w io.Writer) HostOption {
	return func(h *Host) {
		h.output = w
	}
}

// WithExecutionTimeout sets the timeout for each script run.
func WithExecutionTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		h.executionTimeout = d
	}
}

// WithLogger sets the host logger.
func WithLogger(logger *slog.Logger) HostOption {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHost creates a host whose scripts operate on editor and dispatch
// commands through runner.
func NewHost(editor execctx.Editor, runner api.Runner, opts ...HostOption) (*Host, error) {
	if editor == nil {
		return nil, ErrNoEditor
	}

	h := &Host{
		logger:           slog.New(slog.DiscardHandler),
		output:           io.Discard,
		executionTimeout: plua.DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.state = plua.NewState(
		plua.WithOutput(h.output),
		plua.WithExecutionTimeout(h.executionTimeout),
	)
	h.registry = api.DefaultRegistry(&api.Context{Editor: editor, Runner: runner})
	if err := h.registry.InjectAll(h.state.L); err != nil {
		h.state.Close()
		return nil, fmt.Errorf("inject api: %w", err)
	}
	return h, nil
}

// Modules returns the names of the installed API modules.
func (h *Host) Modules() []string {
	return h.registry.List()
}

// RunFile executes the script at path.
func (h *Host) RunFile(ctx context.Context, path string) error {
	start := time.Now()
	err := h.state.DoFile(ctx, path)
	return h.finish(filepath.Base(path), start, err)
}

// RunString executes a chunk of Lua code. name labels it in errors and logs.
func (h *Host) RunString(ctx context.Context, name, code string) error {
	start := time.Now()
	err := h.state.DoString(ctx, code)
	return h.finish(name, start, err)
}

func (h *Host) finish(name string, start time.Time, err error) error {
	if err != nil {
		h.logger.Warn("script failed", "script", name, "duration", time.Since(start), "error", err)
		return fmt.Errorf("%w: %s: %w", ErrScriptFailed, name, err)
	}
	h.logger.Debug("script finished", "script", name, "duration", time.Since(start))
	return nil
}

// Close releases the Lua state.
func (h *Host) Close() error {
	return h.state.Close()
}
