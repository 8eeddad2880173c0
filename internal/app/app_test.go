package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markstyle/internal/app"
	"github.com/dshills/markstyle/internal/config"
	"github.com/dshills/markstyle/internal/dispatcher"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
	"github.com/dshills/markstyle/internal/input"
	"github.com/dshills/markstyle/internal/markdown"
)

func noEnv(string) (string, bool) { return "", false }

func newApp(t *testing.T, opts app.Options) *app.Application {
	t.Helper()
	if opts.Lookup == nil {
		opts.Lookup = noEnv
	}
	if opts.Stderr == nil {
		opts.Stderr = &bytes.Buffer{}
	}
	a, err := app.New(opts)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func caret(line, char int) cursor.Selection {
	return cursor.NewCursorSelection(buffer.Pos(line, char))
}

func TestToggleFromStdin(t *testing.T) {
	a := newApp(t, app.Options{Stdin: strings.NewReader("Hello world")})
	a.Engine().SetSelections([]cursor.Selection{caret(0, 8)})

	result := a.Toggle(context.Background(), markdown.StyleBold)
	require.True(t, result.IsOK(), "error: %v", result.Error)
	assert.Equal(t, "Hello **world**", a.Engine().Text())
	assert.Equal(t, "0:10", app.FormatCursors(a.Engine().Selections()))

	assert.Empty(t, a.FilePath())
	assert.ErrorIs(t, a.Save(), app.ErrNoFile)
}

func TestCycleHeadingAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("Title\nbody"), 0o600))

	a := newApp(t, app.Options{FilePath: path})
	a.Engine().SetSelections([]cursor.Selection{caret(0, 0)})

	require.True(t, a.CycleHeading(context.Background(), markdown.HeadingUp).IsOK())
	require.True(t, a.CycleHeading(context.Background(), markdown.HeadingUp).IsOK())
	require.NoError(t, a.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "## Title\nbody", string(data))

	changes := a.Journal().Changes()
	require.NotEmpty(t, changes)
	assert.Equal(t, path, changes[0].FilePath)
	assert.Equal(t, "markdown.headingUp", changes[0].Action)
}

func TestDispatchKeys(t *testing.T) {
	a := newApp(t, app.Options{Stdin: strings.NewReader("one two")})
	a.Engine().SetSelections([]cursor.Selection{caret(0, 1)})

	b, result, err := a.DispatchKeys(context.Background(), "ctrl+i")
	require.NoError(t, err)
	assert.Equal(t, "markdown.toggleItalic", b.Action)
	require.True(t, result.IsOK())
	assert.Equal(t, "*one* two", a.Engine().Text())

	_, result, err = a.DispatchKeys(context.Background(), "ctrl+z")
	require.NoError(t, err)
	require.True(t, result.IsOK())
	assert.Equal(t, "one two", a.Engine().Text())

	_, _, err = a.DispatchKeys(context.Background(), "ctrl+q")
	assert.ErrorIs(t, err, app.ErrUnboundKeys)
}

func TestReadOnlyDisablesStyleBindings(t *testing.T) {
	a := newApp(t, app.Options{Stdin: strings.NewReader("text"), ReadOnly: true})

	_, _, err := a.DispatchKeys(context.Background(), "ctrl+b")
	assert.ErrorIs(t, err, app.ErrUnboundKeys)
}

func TestReadOnlyCancelsEdits(t *testing.T) {
	a := newApp(t, app.Options{Stdin: strings.NewReader("text"), ReadOnly: true})
	a.Engine().SetSelections([]cursor.Selection{caret(0, 1)})

	result := a.Dispatch(context.Background(), input.NewAction("markdown.toggleBold", input.SourceCLI))
	assert.Equal(t, handler.StatusCancelled, result.Status)
	assert.ErrorIs(t, result.Error, dispatcher.ErrActionCancelled)
	assert.Equal(t, "text", a.Engine().Text())

	plan := a.Plan(context.Background(), input.NewAction("markdown.toggleBold", input.SourceCLI))
	assert.NotEqual(t, handler.StatusCancelled, plan.Status)
}

func TestSaveBinding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("Hello world"), 0o600))

	a := newApp(t, app.Options{FilePath: path})
	a.Engine().SetSelections([]cursor.Selection{caret(0, 8)})
	require.True(t, a.Toggle(context.Background(), markdown.StyleBold).IsOK())

	b, result, err := a.DispatchKeys(context.Background(), "ctrl+s")
	require.NoError(t, err)
	assert.Equal(t, app.ActionSave, b.Action)
	require.True(t, result.IsOK(), "error: %v", result.Error)
	assert.Equal(t, "wrote "+path, result.Message)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello **world**", string(data))
}

func TestSaveActionWithoutFile(t *testing.T) {
	a := newApp(t, app.Options{Stdin: strings.NewReader("text")})

	result := a.Dispatch(context.Background(), input.NewAction(app.ActionSave, input.SourceCLI))
	assert.Equal(t, handler.StatusError, result.Status)
	assert.ErrorIs(t, result.Error, app.ErrNoFile)
}

func TestSlowActionWarning(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[dispatcher]\nslow_threshold = \"1ns\"\n"), 0o600))

	a := newApp(t, app.Options{ConfigPath: cfgPath, Stdin: strings.NewReader("Hello world")})
	a.Engine().SetSelections([]cursor.Selection{caret(0, 8)})
	require.True(t, a.Toggle(context.Background(), markdown.StyleBold).IsOK())

	var found bool
	for _, e := range a.Logger().Entries() {
		if e.Message == "slow action" {
			found = true
		}
	}
	assert.True(t, found, "no slow action warning logged")
}

func TestConfigAndOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[markdown]
selection_policy = "always"

[markdown.patterns.bold]
prefix = "__"
`), 0o600))

	logFile := filepath.Join(dir, "markstyle.log")
	a := newApp(t, app.Options{
		ConfigPath: cfgPath,
		LogLevel:   "debug",
		LogFile:    logFile,
		Stdin:      strings.NewReader("Hello world"),
	})

	assert.Equal(t, markdown.PolicyAlways, a.Config().SelectionPolicy())
	assert.Equal(t, "debug", a.Config().Logging.Level)
	assert.Equal(t, logFile, a.Logger().Path())

	a.Engine().SetSelections([]cursor.Selection{caret(0, 8)})
	require.True(t, a.Toggle(context.Background(), markdown.StyleBold).IsOK())
	assert.Equal(t, "Hello __world__", a.Engine().Text())
}

func TestEnvOverridesConfig(t *testing.T) {
	a := newApp(t, app.Options{
		Stdin: strings.NewReader(""),
		Lookup: func(k string) (string, bool) {
			if k == config.EnvSelectionPolicy {
				return "always", true
			}
			return "", false
		},
	})
	assert.Equal(t, markdown.PolicyAlways, a.Config().SelectionPolicy())
}

func TestApplyConfig(t *testing.T) {
	a := newApp(t, app.Options{Stdin: strings.NewReader("Hello world")})

	cfg := config.Default()
	cfg.Markdown.Patterns = map[string]config.PatternConfig{"italic": {Prefix: "_"}}
	cfg.Logging.Level = "error"
	require.NoError(t, a.ApplyConfig(cfg))
	assert.Equal(t, "ERROR", a.Logger().Level().String())

	a.Engine().SetSelections([]cursor.Selection{caret(0, 1)})
	require.True(t, a.Toggle(context.Background(), markdown.StyleItalic).IsOK())
	assert.Equal(t, "_Hello_ world", a.Engine().Text())

	bad := config.Default()
	bad.Markdown.SelectionPolicy = "never"
	assert.ErrorIs(t, a.ApplyConfig(bad), config.ErrInvalidConfig)
}

func TestNewFailures(t *testing.T) {
	_, err := app.New(app.Options{FilePath: filepath.Join(t.TempDir(), "absent.md"), Lookup: noEnv})
	var initErr *app.InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "document", initErr.Component)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = app.New(app.Options{LogLevel: "loud", Lookup: noEnv})
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "config", initErr.Component)
}

func TestPluginHost(t *testing.T) {
	a := newApp(t, app.Options{Stdin: strings.NewReader("Hello world")})

	var out bytes.Buffer
	host, err := a.NewPluginHost(&out)
	require.NoError(t, err)
	defer host.Close()

	err = host.RunString(context.Background(), "inline", `
cursor.set(1, 9)
markdown.toggle("code")
print(buffer.text())
`)
	require.NoError(t, err)
	assert.Equal(t, "Hello `world`\n", out.String())
}

func TestPluginScope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("Hello world"), 0o600))
	a := newApp(t, app.Options{FilePath: path})

	host, err := a.NewPluginHost(&bytes.Buffer{})
	require.NoError(t, err)
	defer host.Close()

	err = host.RunString(context.Background(), "save", `editor.run("file.save")`)
	assert.Error(t, err)

	require.NoError(t, host.RunString(context.Background(), "undo", `editor.run("editor.undo")`))
}

func TestKeymapDirs(t *testing.T) {
	dir := t.TempDir()
	keymaps := filepath.Join(dir, "keymaps")
	require.NoError(t, os.Mkdir(keymaps, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(keymaps, "mine.yaml"),
		[]byte("bindings:\n  - keys: alt+b\n    action: markdown.toggleBold\n"), 0o600))
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[keymap]\ndirs = [\""+filepath.ToSlash(keymaps)+"\"]\n"), 0o600))

	a := newApp(t, app.Options{ConfigPath: cfgPath, Stdin: strings.NewReader("Hello world")})
	require.NotNil(t, a.Keymaps().Get("mine"))

	a.Engine().SetSelections([]cursor.Selection{caret(0, 1)})
	_, result, err := a.DispatchKeys(context.Background(), "alt+b")
	require.NoError(t, err)
	require.True(t, result.IsOK())
	assert.Equal(t, "**Hello** world", a.Engine().Text())
}

func TestParseCursor(t *testing.T) {
	sel, err := app.ParseCursor("2:5")
	require.NoError(t, err)
	assert.Equal(t, caret(2, 5), sel)

	sel, err = app.ParseCursor("0:4-0:1")
	require.NoError(t, err)
	assert.Equal(t, cursor.NewSelection(buffer.Pos(0, 4), buffer.Pos(0, 1)), sel)
	assert.Equal(t, "0:4-0:1", app.FormatCursor(sel))

	for _, bad := range []string{"", "3", "a:1", "1:b", "1:2-", "1:2-x:3"} {
		_, err := app.ParseCursor(bad)
		assert.ErrorIs(t, err, app.ErrInvalidCursor, bad)
	}

	sels, err := app.ParseCursors([]string{"0:1", "1:2-1:4"})
	require.NoError(t, err)
	assert.Equal(t, "0:1 1:2-1:4", app.FormatCursors(sels))
}
