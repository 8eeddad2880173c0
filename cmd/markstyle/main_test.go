package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/input/keymap"
)

// execute runs the root command with args and stdin, returning stdout and
// stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestToggleStdin(t *testing.T) {
	stdout, stderr, err := execute(t, "Hello world", "toggle", "bold", "--cursor", "0:6")
	require.NoError(t, err)
	assert.Equal(t, "Hello **world**", stdout)
	assert.Contains(t, stderr, "markdown.toggleBold: ok cursors 0:8")
}

func TestToggleMultiCaret(t *testing.T) {
	stdout, stderr, err := execute(t, "xxxx a xxxx b", "toggle", "bold", "-c", "0:5", "-c", "0:12")
	require.NoError(t, err)
	assert.Equal(t, "xxxx **a** xxxx **b**", stdout)
	assert.Contains(t, stderr, "cursors 0:7 0:18")
}

func TestToggleWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("a list\n- item one\n"), 0o644))

	stdout, _, err := execute(t, "", "toggle", "strikethrough", path, "--cursor", "1:4", "--write")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a list\n- ~~item one~~\n", string(data))
}

func TestToggleDryRunJSON(t *testing.T) {
	stdout, _, err := execute(t, "Hello world", "toggle", "italic", "--cursor", "0:1", "--dry-run", "--json")
	require.NoError(t, err)

	var out editOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "Hello world", out.Text, "dry run leaves the document alone")
	require.Len(t, out.Edits, 1)
	assert.Equal(t, "*Hello*", out.Edits[0].NewText)
	assert.Equal(t, []string{"0:2"}, out.Cursors)
}

func TestToggleErrors(t *testing.T) {
	_, _, err := execute(t, "", "toggle", "underline")
	assert.Error(t, err)

	_, _, err = execute(t, "x", "toggle", "bold", "--cursor", "nope")
	assert.Error(t, err)

	_, _, err = execute(t, "x", "toggle", "bold", "--write")
	assert.ErrorIs(t, err, errWriteStdin)
}

func TestHeading(t *testing.T) {
	stdout, _, err := execute(t, "Title\ntext", "heading", "up", "--cursor", "0:2", "--count", "3")
	require.NoError(t, err)
	assert.Equal(t, "### Title\ntext", stdout)

	stdout, _, err = execute(t, "Title", "heading", "down")
	require.NoError(t, err)
	assert.Equal(t, "###### Title", stdout)

	_, _, err = execute(t, "Title", "heading", "sideways")
	assert.Error(t, err)
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fix.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
cursor.set(1, 1)
markdown.toggle("bold")
print(buffer.line(1))
`), 0o644))

	stdout, _, err := execute(t, "word", "run", script, "--print")
	require.NoError(t, err)
	assert.Equal(t, "**word**\n**word**", stdout)

	bad := filepath.Join(dir, "bad.lua")
	require.NoError(t, os.WriteFile(bad, []byte(`markdown.toggle("underline")`), 0o644))
	_, _, err = execute(t, "word", "run", bad)
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	stdout, _, err := execute(t, "", "keys")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Style:")
	assert.Contains(t, stdout, "markdown.toggleBold")
	assert.Contains(t, stdout, "Heading:")
	assert.Contains(t, stdout, "editor.undo")
}

func TestKeysTree(t *testing.T) {
	stdout, _, err := execute(t, "", "keys", "--tree")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "keymaps\n"))
	assert.Contains(t, stdout, "Style")
	assert.Contains(t, stdout, "[ctrl+b]  markdown.toggleBold")
}

func TestKeysSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.yaml")
	_, stderr, err := execute(t, "", "keys", "--save", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "saved ")

	km, err := keymap.NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "saved", km.Name)
	assert.Equal(t, "user", km.Source)

	stdout, _, err := execute(t, "", "keys", "--json")
	require.NoError(t, err)
	var bindings []keymap.Binding
	require.NoError(t, json.Unmarshal([]byte(stdout), &bindings))
	assert.Len(t, km.Bindings, len(bindings))
}

func TestToggleHighlight(t *testing.T) {
	stdout, stderr, err := execute(t, "Hello world", "toggle", "bold", "--cursor", "0:6", "--highlight")
	require.NoError(t, err)
	assert.Contains(t, stdout, "world")
	assert.Contains(t, stdout, "\x1b[", "highlighted output carries ANSI escapes")
	assert.Contains(t, stderr, "markdown.toggleBold: ok cursors 0:8", "status stays plain off a terminal")
}

func TestPaletteOffTerminal(t *testing.T) {
	p := newPalette(&bytes.Buffer{})
	assert.Equal(t, "ok", p.status(handler.StatusOK))
	assert.Equal(t, "no-op", p.status(handler.StatusNoOp))
	assert.Equal(t, "x", p.muted("x"))
	assert.Empty(t, highlightMarkdown(""))
}

func TestIsTerminalPipes(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("ctrl+b")))
	assert.False(t, isTerminal(&bytes.Buffer{}))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	assert.False(t, isTerminal(r))
	assert.False(t, isTerminal(w))
}

func TestGlobalConfigFlag(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("markdown:\n  patterns:\n    bold:\n      prefix: \"__\"\n"), 0o644))

	stdout, _, err := execute(t, "Hello world", "--config", cfg, "toggle", "bold", "--cursor", "0:6")
	require.NoError(t, err)
	assert.Equal(t, "Hello __world__", stdout)

	_, _, err = execute(t, "x", "--log-level", "loud", "toggle", "bold")
	assert.Error(t, err)
}

func TestRepl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("Hello world"), 0o644))

	session := strings.Join([]string{
		":c 0:6",
		"ctrl+b",
		":plan markdown.toggleCodeSpan",
		"2 markdown.headingUp",
		"ctrl+q",
		":lua print(buffer.line_count())",
		":w",
		":history",
		":p",
		":bogus",
		":q",
		"markdown.toggleBold",
	}, "\n")

	stdout, _, err := execute(t, session, "repl", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "cursors 0:6")
	assert.Contains(t, stdout, "markdown.toggleBold: ok")
	assert.Contains(t, stdout, "markdown.toggleCodeSpan: ok planned")
	assert.Contains(t, stdout, "markdown.headingUp: ok")
	assert.Contains(t, stdout, "no binding for keys")
	assert.Contains(t, stdout, "\n1\n")
	assert.Contains(t, stdout, "unknown command :bogus")
	assert.Contains(t, stdout, "(18 B)")
	assert.Contains(t, stdout, "1 lines, 18 B")
	assert.Contains(t, stdout, "redo 0")
	assert.Contains(t, stdout, "   1  heading up\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "## Hello **world**", string(data))
}

func TestReplInspection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("Hello world"), 0o644))
	cfg := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[dispatcher]\nmetrics = true\n"), 0o644))

	session := strings.Join([]string{
		":c 0:6",
		"ctrl+b",
		":stats markdown.toggleBold",
		":hooks",
		":journal 1",
		":journal x",
		":stats reset",
		":stats markdown.toggleBold",
	}, "\n")

	stdout, _, err := execute(t, session, "--config", cfg, "repl", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "markdown.toggleBold: 1 dispatches  errors 0.0%")
	assert.Contains(t, stdout, "pre:  audit, timing, plugin-scope\n")
	assert.Contains(t, stdout, "post: journal, repeat, audit, timing\n")
	assert.Contains(t, stdout, `[(0:6)-(0:11)) "world" -> "**world**"`)
	assert.Contains(t, stdout, `:journal wants a count, got "x"`)
	assert.Contains(t, stdout, "stats reset\nno dispatches of markdown.toggleBold")
}

func TestParseActionLine(t *testing.T) {
	a, ok := parseActionLine("3 markdown.headingUp")
	require.True(t, ok)
	assert.Equal(t, "markdown.headingUp", a.Name)
	assert.Equal(t, 3, a.Count)

	_, ok = parseActionLine("ctrl+b")
	assert.False(t, ok)
	_, ok = parseActionLine("ctrl+k ctrl+b")
	assert.False(t, ok)
	_, ok = parseActionLine("x markdown.headingUp")
	assert.False(t, ok)
}
