package plugin_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markstyle/internal/dispatcher"
	editorhandler "github.com/dshills/markstyle/internal/dispatcher/handlers/editor"
	mdhandler "github.com/dshills/markstyle/internal/dispatcher/handlers/markdown"
	"github.com/dshills/markstyle/internal/engine"
	"github.com/dshills/markstyle/internal/plugin"
)

func newHost(t *testing.T, text string, out *bytes.Buffer) (*plugin.Host, *engine.Engine) {
	t.Helper()
	e := engine.New(engine.WithContent(text))
	d := dispatcher.NewWithDefaults()
	d.SetEditor(e)
	d.RegisterNamespace("markdown", mdhandler.NewHandler())
	d.RegisterNamespace("editor", editorhandler.NewCombinedHandler(nil))

	var opts []plugin.HostOption
	if out != nil {
		opts = append(opts, plugin.WithOutput(out))
	}
	h, err := plugin.NewHost(e, d, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h, e
}

func TestHostToggleScript(t *testing.T) {
	h, e := newHost(t, "Hello world\nsecond line", nil)

	script := `
cursor.set(1, 7)
cursor.add(2, 2)
assert(markdown.toggle("bold") == "ok")
`
	require.NoError(t, h.RunString(context.Background(), "toggle", script))
	assert.Equal(t, "Hello **world**\n**second** line", e.Text())
}

func TestHostReadsBufferAndCursors(t *testing.T) {
	var out bytes.Buffer
	h, _ := newHost(t, "# Title\nbody", &out)

	script := `
print(buffer.line_count(), buffer.line(1))
cursor.select(2, 1, 2, 5)
for _, c in ipairs(cursor.get_all()) do
  print(c.anchor_line, c.anchor_col, c.line, c.col)
end
markdown.heading("up")
print(buffer.line(1))
`
	require.NoError(t, h.RunString(context.Background(), "inspect", script))
	assert.Equal(t, "2\t# Title\n2\t1\t2\t5\n# Title\n", out.String())
}

func TestHostUndoRedo(t *testing.T) {
	h, e := newHost(t, "Hello world", nil)

	script := `
cursor.set(1, 8)
markdown.toggle("italic")
assert(buffer.text() == "Hello *world*")
assert(editor.undo())
assert(not editor.undo())
assert(editor.redo())
`
	require.NoError(t, h.RunString(context.Background(), "history", script))
	assert.Equal(t, "Hello *world*", e.Text())
}

func TestHostStyles(t *testing.T) {
	var out bytes.Buffer
	h, _ := newHost(t, "", &out)

	require.NoError(t, h.RunString(context.Background(), "styles", `print(table.concat(markdown.styles(), ","))`))
	assert.Equal(t, "bold,italic,code,strikethrough\n", out.String())
}

func TestHostErrors(t *testing.T) {
	h, _ := newHost(t, "Hello", nil)

	tests := []struct {
		name string
		code string
	}{
		{"unknown style", `markdown.toggle("underline")`},
		{"bad direction", `markdown.heading("sideways")`},
		{"line out of range", `buffer.line(5)`},
		{"column out of range", `cursor.set(1, 99)`},
		{"unknown action", `editor.run("nothing.here")`},
		{"raised error", `error("boom")`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := h.RunString(context.Background(), tc.name, tc.code)
			assert.ErrorIs(t, err, plugin.ErrScriptFailed)
		})
	}
}

func TestHostReadOnlyRaises(t *testing.T) {
	e := engine.New(engine.WithContent("Hello"), engine.WithReadOnly())
	d := dispatcher.NewWithDefaults()
	d.SetEditor(e)
	d.RegisterNamespace("markdown", mdhandler.NewHandler())

	h, err := plugin.NewHost(e, d)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.RunString(context.Background(), "ro", `assert(editor.read_only())`))
	err = h.RunString(context.Background(), "ro", `markdown.toggle("bold")`)
	assert.ErrorIs(t, err, plugin.ErrScriptFailed)
	assert.Equal(t, "Hello", e.Text())
}

func TestHostRunFile(t *testing.T) {
	h, e := newHost(t, "Hello world", nil)

	path := filepath.Join(t.TempDir(), "strike.lua")
	require.NoError(t, os.WriteFile(path, []byte(`cursor.set(1, 1) markdown.toggle("strikethrough")`), 0o644))

	require.NoError(t, h.RunFile(context.Background(), path))
	assert.Equal(t, "~~Hello~~ world", e.Text())
}

func TestNewHostRequiresEditor(t *testing.T) {
	_, err := plugin.NewHost(nil, nil)
	assert.True(t, errors.Is(err, plugin.ErrNoEditor))
}

func TestHostModules(t *testing.T) {
	h, _ := newHost(t, "", nil)
	assert.Equal(t, []string{"buffer", "cursor", "editor", "markdown"}, h.Modules())
}
