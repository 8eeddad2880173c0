// Package app wires configuration, logging, the editing engine, the
// dispatcher, keymaps and Lua scripting into one session over a single
// Markdown document.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dshills/markstyle/internal/config"
	"github.com/dshills/markstyle/internal/dispatcher"
	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/dispatcher/handlers/editor"
	mdhandler "github.com/dshills/markstyle/internal/dispatcher/handlers/markdown"
	"github.com/dshills/markstyle/internal/dispatcher/hook"
	"github.com/dshills/markstyle/internal/engine"
	"github.com/dshills/markstyle/internal/input"
	"github.com/dshills/markstyle/internal/input/keymap"
	"github.com/dshills/markstyle/internal/logging"
	"github.com/dshills/markstyle/internal/markdown"
	"github.com/dshills/markstyle/internal/plugin"
)

// DefaultJournalSize is the number of change records kept per session.
const DefaultJournalSize = 256

// ActionSave writes the document to its file.
const ActionSave = keymap.ActionSave

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty means built-in defaults.
	ConfigPath string

	// LogLevel overrides the configured level when set.
	LogLevel string

	// LogFile overrides the configured log file when set.
	LogFile string

	// FilePath is the Markdown document to edit. When empty the content is
	// read from Stdin.
	FilePath string

	// Stdin supplies content when FilePath is empty. Nil means empty.
	Stdin io.Reader

	// Stderr receives log output when no log file is configured.
	Stderr io.Writer

	// ReadOnly rejects every edit.
	ReadOnly bool

	// Lookup resolves environment variables. Nil means os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Application is one editing session.
type Application struct {
	mu sync.RWMutex

	opts   Options
	config *config.Config
	logger *logging.Logger

	engine      *engine.Engine
	coordinator *markdown.Coordinator
	dispatcher  *dispatcher.Dispatcher
	keymaps     *keymap.Registry

	repeat  *hook.RepeatHook
	journal *hook.JournalHook
}

// New creates an Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	cfg, err := config.LoadOrDefault(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = app.overlay(cfg)
	if err := app.config.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	app.logger, err = logging.Init(app.config.Logging, logging.WithStderr(app.opts.Stderr))
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	log := app.logger.With("component", "app")

	if err := app.initEngine(); err != nil {
		return &InitError{Component: "document", Err: err}
	}

	coordinator, err := app.newCoordinator(app.config)
	if err != nil {
		return &InitError{Component: "coordinator", Err: err}
	}
	app.coordinator = coordinator

	if err := app.initDispatcher(); err != nil {
		return &InitError{Component: "dispatcher", Err: err}
	}

	if err := app.initKeymaps(); err != nil {
		return &InitError{Component: "keymap", Err: err}
	}

	log.Debug("session started",
		"file", app.opts.FilePath,
		"lines", app.engine.LineCount(),
		"policy", app.coordinator.Policy().String(),
	)
	return nil
}

// overlay applies environment variables and then command-line overrides.
func (app *Application) overlay(cfg *config.Config) *config.Config {
	config.ApplyEnv(cfg, app.opts.Lookup)
	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
	}
	if app.opts.LogFile != "" {
		cfg.Logging.File = app.opts.LogFile
	}
	return cfg
}

func (app *Application) initEngine() error {
	opts := []engine.Option{engine.WithLogger(app.logger.With("component", "engine"))}
	if app.opts.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}

	var r io.Reader = strings.NewReader("")
	switch {
	case app.opts.FilePath != "":
		f, err := os.Open(app.opts.FilePath)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	case app.opts.Stdin != nil:
		r = app.opts.Stdin
	}

	e, err := engine.NewFromReader(r, opts...)
	if err != nil {
		return err
	}
	app.engine = e
	return nil
}

func (app *Application) newCoordinator(cfg *config.Config) (*markdown.Coordinator, error) {
	patterns, err := cfg.MarkdownPatterns()
	if err != nil {
		return nil, err
	}
	return markdown.NewCoordinator(
		markdown.WithLogger(app.logger.With("component", "markdown")),
		markdown.WithSelectionPolicy(cfg.SelectionPolicy()),
		markdown.WithPatterns(patterns),
	), nil
}

func (app *Application) initDispatcher() error {
	dcfg := dispatcher.DefaultConfig().WithTimeout(app.config.DispatchTimeout())
	if n := app.config.Dispatcher.MaxRepeatCount; n > 0 {
		dcfg = dcfg.WithMaxRepeatCount(n)
	}
	if app.config.Dispatcher.Metrics {
		dcfg = dcfg.WithMetrics()
	}
	if err := dcfg.Validate(); err != nil {
		return err
	}

	d := dispatcher.New(dcfg)
	d.SetEditor(app.engine)
	d.SetCoordinator(app.coordinator)
	d.SetLogger(app.logger.With("component", "dispatcher"))
	d.SetFilePath(app.opts.FilePath)

	app.repeat = hook.NewRepeatHook()
	app.journal = hook.NewJournalHook(DefaultJournalSize)
	app.journal.SetCallback(func(rec hook.ChangeRecord) {
		app.logger.Debug("change recorded", "action", rec.Action, "range", rec.Range, "new", rec.NewText)
	})
	hooks := d.EnableHookManager()
	hooks.Register(hook.NewAuditHook(app.logger.With("component", "audit")))
	hooks.Register(hook.NewTimingHook(app.recordTiming))
	hooks.Register(hook.NewSourceFilterHook("plugin-scope", input.SourcePlugin, "markdown", "editor"))
	if app.opts.ReadOnly {
		hooks.Register(hook.NewReadOnlyHook())
	}
	hooks.Register(app.repeat)
	hooks.Register(app.journal)

	d.RegisterHandlerFunc(ActionSave, func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		if ctx.DryRun {
			return handler.NoOpWithMessage("dry run")
		}
		if err := app.Save(); err != nil {
			return handler.Error(err)
		}
		return handler.SuccessWithMessage("wrote " + app.opts.FilePath)
	})

	d.RegisterNamespace("markdown", mdhandler.NewHandler())
	d.RegisterNamespace("editor", editor.NewCombinedHandler(
		editor.NewRepeatHandler(app.repeat, func(a input.Action, ctx *execctx.ExecutionContext) handler.Result {
			return d.Dispatch(ctx.Ctx(), a)
		}),
	))
	app.dispatcher = d
	return nil
}

func (app *Application) initKeymaps() error {
	app.keymaps = keymap.NewRegistry()
	if !app.config.Keymap.DisableDefaults {
		if err := keymap.LoadDefaults(app.keymaps); err != nil {
			return err
		}
	}
	loader := keymap.NewLoader()
	for _, path := range app.config.Keymap.Paths {
		km, err := loader.LoadFile(path)
		if err != nil {
			return err
		}
		if err := app.keymaps.Register(km); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	for _, dir := range app.config.Keymap.Dirs {
		loader.AddSearchPath(dir)
	}
	return loader.LoadAndRegister(app.keymaps)
}

// recordTiming warns about actions slower than the configured threshold.
func (app *Application) recordTiming(action string, d time.Duration) {
	limit := app.Config().SlowActionThreshold()
	if limit > 0 && d >= limit {
		app.logger.Warn("slow action", "action", action, "duration", d, "threshold", limit)
	}
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Logger returns the session logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Engine returns the document engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Dispatcher returns the action dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Keymaps returns the keymap registry.
func (app *Application) Keymaps() *keymap.Registry {
	return app.keymaps
}

// Journal returns the change journal.
func (app *Application) Journal() *hook.JournalHook {
	return app.journal
}

// FilePath returns the document path, or "" for stdin.
func (app *Application) FilePath() string {
	return app.opts.FilePath
}

// Dispatch runs an action against the document.
func (app *Application) Dispatch(ctx context.Context, action input.Action) handler.Result {
	return app.dispatcher.Dispatch(ctx, action)
}

// Plan computes an action's edits without applying them.
func (app *Application) Plan(ctx context.Context, action input.Action) handler.Result {
	return app.dispatcher.Plan(ctx, action)
}

// Toggle dispatches the toggle action for style.
func (app *Application) Toggle(ctx context.Context, style markdown.Style) handler.Result {
	name, ok := mdhandler.ActionForStyle(style)
	if !ok {
		return handler.Error(fmt.Errorf("%w: %s", markdown.ErrUnknownStyle, style))
	}
	return app.Dispatch(ctx, input.NewAction(name, input.SourceCLI))
}

// CycleHeading dispatches the heading action for dir.
func (app *Application) CycleHeading(ctx context.Context, dir markdown.Direction) handler.Result {
	name := mdhandler.ActionHeadingUp
	if dir == markdown.HeadingDown {
		name = mdhandler.ActionHeadingDown
	}
	return app.Dispatch(ctx, input.NewAction(name, input.SourceCLI))
}

// NewPluginHost creates a Lua host bound to this session. Script output
// goes to out.
func (app *Application) NewPluginHost(out io.Writer) (*plugin.Host, error) {
	return plugin.NewHost(app.engine, app.dispatcher,
		plugin.WithOutput(out),
		plugin.WithExecutionTimeout(app.Config().PluginTimeout()),
		plugin.WithLogger(app.logger.With("component", "plugin")),
	)
}

// ApplyConfig switches the session to cfg. The log level, selection
// policy and delimiters take effect immediately.
func (app *Application) ApplyConfig(cfg *config.Config) error {
	cfg = app.overlay(cfg.Clone())
	if err := cfg.Validate(); err != nil {
		return err
	}
	coordinator, err := app.newCoordinator(cfg)
	if err != nil {
		return err
	}

	app.mu.Lock()
	app.config = cfg
	app.coordinator = coordinator
	app.mu.Unlock()

	app.logger.SetLevel(cfg.LogLevel())
	app.dispatcher.SetCoordinator(coordinator)
	app.logger.Info("configuration applied",
		"policy", cfg.SelectionPolicy().String(),
		"level", cfg.LogLevel().String(),
	)
	return nil
}

// Save writes the document back to its file.
func (app *Application) Save() error {
	if app.opts.FilePath == "" {
		return ErrNoFile
	}
	info, err := os.Stat(app.opts.FilePath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(app.opts.FilePath, []byte(app.engine.Text()), info.Mode().Perm()); err != nil {
		return err
	}
	app.logger.Debug("document saved", "file", app.opts.FilePath)
	return nil
}

// Shutdown releases the log file.
func (app *Application) Shutdown() {
	if app.logger == nil {
		return
	}
	if err := app.logger.Close(); err != nil {
		slog.Default().Warn("close log", "error", err)
	}
}
