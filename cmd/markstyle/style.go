package main

import (
	"bytes"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/dshills/markstyle/internal/dispatcher/handler"
)

const highlightStyle = "monokai"

// isTerminal reports whether stream, a reader or writer, is a terminal.
func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// palette colors status output. Colors are off unless the writer is a
// terminal, so piped and captured output stays plain.
type palette struct {
	ok    func(a ...any) string
	noop  func(a ...any) string
	fail  func(a ...any) string
	muted func(a ...any) string
}

func newPalette(w io.Writer) palette {
	enabled := isTerminal(w) && !color.NoColor
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if !enabled {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		ok:    mk(color.FgGreen),
		noop:  mk(color.FgHiYellow),
		fail:  mk(color.FgHiRed),
		muted: mk(color.FgHiBlack),
	}
}

// status renders a result status in its color.
func (p palette) status(s handler.ResultStatus) string {
	switch s {
	case handler.StatusOK:
		return p.ok(s.String())
	case handler.StatusNoOp:
		return p.noop(s.String())
	case handler.StatusError:
		return p.fail(s.String())
	default:
		return s.String()
	}
}

// highlightMarkdown returns text with ANSI syntax highlighting, or text
// unchanged if highlighting fails.
func highlightMarkdown(text string) string {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, text, "markdown", "terminal256", highlightStyle); err != nil {
		return text
	}
	return buf.String()
}
