package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dshills/markstyle/internal/app"
	"github.com/dshills/markstyle/internal/config"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/input"
	"github.com/dshills/markstyle/internal/plugin"
)

const replHelp = `Commands:
  <keys>                 dispatch the bound action, e.g. ctrl+b
  [N] <action>           dispatch an action by name, e.g. 2 markdown.headingUp
  :plan <action>         show the edits an action would make
  :c LINE:CHAR ...       set cursors (LINE:CHAR-LINE:CHAR for a selection)
  :p                     print the document and cursors
  :hl                    print the document with syntax highlighting
  :w                     write the document to its file
  :lua <code>            run Lua code
  :keys                  list key bindings
  :log                   show recent warnings and errors
  :stats [ACTION|reset]  show or reset dispatch statistics
  :hooks                 list dispatch hooks in run order
  :journal [N]           show the last N recorded changes (all by default)
  :history               list undo entries, most recent first
  :q                     quit
`

func newReplCmd(opts *globalOptions) *cobra.Command {
	var readOnly bool
	cmd := &cobra.Command{
		Use:   "repl [file]",
		Short: "Edit a document interactively, one command per line",
		Long: `Repl reads commands from stdin and applies them to the document.
A line is either a key sequence looked up in the keymaps, an action name,
or a ':' command. Type :help for the list.

When a config file is in use it is watched, and changes to the selection
policy, delimiters and log level apply to the running session.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := optionalArg(args, 0)

			// Stdin carries the commands, so the document must come from
			// a file or start empty.
			a, err := app.New(app.Options{
				ConfigPath: opts.resolveConfigPath(),
				LogLevel:   opts.logLevel,
				LogFile:    opts.logFile,
				FilePath:   file,
				Stderr:     cmd.ErrOrStderr(),
				ReadOnly:   readOnly,
			})
			if err != nil {
				return err
			}
			defer a.Shutdown()

			out := &lockedWriter{w: cmd.OutOrStdout()}
			r, err := newRepl(a, out)
			if err != nil {
				return err
			}
			r.colors = newPalette(cmd.OutOrStdout())
			r.prompt = isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout())
			defer r.close()

			if path := opts.resolveConfigPath(); path != "" {
				w, err := config.NewWatcher(path, config.WithWatcherLogger(a.Logger().Logger))
				if err != nil {
					return err
				}
				defer w.Close()
				w.Subscribe(r.onConfig)
			}

			return r.run(cmd.Context(), cmd.InOrStdin())
		},
	}
	cmd.Flags().BoolVarP(&readOnly, "read-only", "R", false, "reject edits")
	return cmd
}

// lockedWriter serializes writes from the command loop and config reloads.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// repl is one interactive session.
type repl struct {
	app    *app.Application
	host   *plugin.Host
	out    io.Writer
	colors palette
	prompt bool
}

func newRepl(a *app.Application, out io.Writer) (*repl, error) {
	host, err := a.NewPluginHost(out)
	if err != nil {
		return nil, err
	}
	return &repl{app: a, host: host, out: out, colors: newPalette(out)}, nil
}

func (r *repl) close() {
	_ = r.host.Close()
}

func (r *repl) onConfig(cfg *config.Config, err error) {
	if err != nil {
		fmt.Fprintf(r.out, "config: %v\n", err)
		return
	}
	if err := r.app.ApplyConfig(cfg); err != nil {
		fmt.Fprintf(r.out, "config: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "config reloaded (policy %s)\n", cfg.SelectionPolicy())
}

// run reads commands until EOF, :q, or ctx is done.
func (r *repl) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if r.prompt {
			fmt.Fprint(r.out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := r.exec(ctx, line); quit {
			return nil
		}
	}
}

// exec runs one line and reports whether the session should end.
func (r *repl) exec(ctx context.Context, line string) bool {
	if strings.HasPrefix(line, ":") {
		cmd, rest, _ := strings.Cut(line[1:], " ")
		rest = strings.TrimSpace(rest)
		switch cmd {
		case "q", "quit":
			return true
		case "h", "help":
			fmt.Fprint(r.out, replHelp)
		case "p", "print":
			r.printDocument()
		case "hl", "highlight":
			fmt.Fprintln(r.out, highlightMarkdown(r.app.Engine().Text()))
		case "w", "write":
			if err := r.app.Save(); err != nil {
				fmt.Fprintf(r.out, "error: %v\n", err)
				break
			}
			fmt.Fprintf(r.out, "wrote %s (%s)\n", r.app.FilePath(), humanize.Bytes(uint64(len(r.app.Engine().Text()))))
		case "c", "cursor":
			r.setCursors(rest)
		case "plan":
			r.plan(ctx, rest)
		case "lua":
			if err := r.host.RunString(ctx, "repl", rest); err != nil {
				fmt.Fprintf(r.out, "error: %v\n", err)
			}
		case "keys":
			_ = printBindings(r.out, r.app.Keymaps().Bindings())
		case "log":
			for _, e := range r.app.Logger().Entries() {
				fmt.Fprintln(r.out, e.Format())
			}
		case "stats":
			r.stats(rest)
		case "hooks":
			r.printHooks()
		case "journal":
			r.printJournal(rest)
		case "history":
			r.printHistory()
		default:
			fmt.Fprintf(r.out, "unknown command :%s (try :help)\n", cmd)
		}
		return false
	}

	if action, ok := parseActionLine(line); ok {
		r.report(action.Name, r.app.Dispatch(ctx, action))
		return false
	}

	b, result, err := r.app.DispatchKeys(ctx, line)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return false
	}
	r.report(b.Action, result)
	return false
}

// parseActionLine recognizes "[count] namespace.action".
func parseActionLine(line string) (input.Action, bool) {
	fields := strings.Fields(line)
	count := 1
	if len(fields) == 2 {
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return input.Action{}, false
		}
		count = n
		fields = fields[1:]
	}
	if len(fields) != 1 || strings.Contains(fields[0], "+") || !strings.Contains(fields[0], ".") {
		return input.Action{}, false
	}
	return input.NewAction(fields[0], input.SourceKeyboard).WithCount(count), true
}

func (r *repl) report(name string, result handler.Result) {
	if result.Error != nil {
		fmt.Fprintf(r.out, "%s: %s: %v\n", name, r.colors.status(result.Status), result.Error)
		return
	}
	msg := ""
	if result.Message != "" {
		msg = " (" + result.Message + ")"
	}
	fmt.Fprintf(r.out, "%s: %s%s cursors %s\n", name, r.colors.status(result.Status), msg,
		app.FormatCursors(r.app.Engine().Selections()))
}

func (r *repl) setCursors(spec string) {
	sels, err := app.ParseCursors(strings.Fields(spec))
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	if len(sels) == 0 {
		fmt.Fprintln(r.out, "error: no cursors given")
		return
	}
	r.app.Engine().SetSelections(sels)
	fmt.Fprintf(r.out, "cursors %s\n", app.FormatCursors(r.app.Engine().Selections()))
}

func (r *repl) plan(ctx context.Context, spec string) {
	action, ok := parseActionLine(spec)
	if !ok {
		fmt.Fprintf(r.out, "error: :plan wants an action name, got %q\n", spec)
		return
	}
	result := r.app.Plan(ctx, action)
	if result.Error != nil {
		fmt.Fprintf(r.out, "error: %v\n", result.Error)
		return
	}
	for _, e := range result.Edits {
		fmt.Fprintln(r.out, e.String())
	}
	fmt.Fprintf(r.out, "%s: %s planned cursors %s\n", action.Name, r.colors.status(result.Status), app.FormatCursors(result.Selections))
}

func (r *repl) printDocument() {
	e := r.app.Engine()
	for i := 0; i < e.LineCount(); i++ {
		fmt.Fprintf(r.out, "%4d  %s\n", i, e.LineText(i))
	}
	text := e.Text()
	fmt.Fprintf(r.out, "%s\n", r.colors.muted(fmt.Sprintf("%s lines, %s", humanize.Comma(int64(e.LineCount())), humanize.Bytes(uint64(len(text))))))
	fmt.Fprintf(r.out, "cursors %s\n", app.FormatCursors(e.Selections()))
}

func (r *repl) stats(arg string) {
	m := r.app.Dispatcher().Metrics()
	if m == nil {
		fmt.Fprintln(r.out, "metrics disabled (set dispatcher.metrics = true)")
		return
	}
	switch arg {
	case "":
	case "reset":
		m.Reset()
		fmt.Fprintln(r.out, "stats reset")
		return
	default:
		am := m.ActionStats(arg)
		if am == nil {
			fmt.Fprintf(r.out, "no dispatches of %s\n", arg)
			return
		}
		fmt.Fprintf(r.out, "%s: %d dispatches  errors %.1f%%  min %s  max %s  last %s\n",
			am.Name, am.DispatchCount, am.ErrorRate(), am.MinDuration, am.MaxDuration, am.LastStatus)
		return
	}
	s := m.Snapshot()
	fmt.Fprintf(r.out, "dispatches %s  errors %s  panics %d  avg %s\n",
		humanize.Comma(int64(s.TotalDispatches)), humanize.Comma(int64(s.TotalErrors)), s.TotalPanics, s.AverageDuration)
	for _, am := range m.TopActions(5) {
		last := ""
		if !am.LastDispatch.IsZero() {
			last = "  last " + humanize.Time(am.LastDispatch)
		}
		fmt.Fprintf(r.out, "  %-32s %4d  no-op %d  edits %d%s\n", am.Name, am.DispatchCount, am.NoOpCount, am.EditCount, last)
	}
}

func (r *repl) printHistory() {
	e := r.app.Engine()
	labels := e.UndoLabels()
	fmt.Fprintf(r.out, "undo %d  redo %d\n", len(labels), e.RedoCount())
	for i, label := range labels {
		fmt.Fprintf(r.out, "  %2d  %s\n", i+1, label)
	}
}

func (r *repl) printHooks() {
	hooks := r.app.Dispatcher().HookManager()
	if hooks == nil {
		fmt.Fprintln(r.out, "no hooks")
		return
	}
	fmt.Fprintf(r.out, "pre:  %s\n", strings.Join(hooks.PreHookNames(), ", "))
	fmt.Fprintf(r.out, "post: %s\n", strings.Join(hooks.PostHookNames(), ", "))
}

func (r *repl) printJournal(arg string) {
	changes := r.app.Journal().Changes()
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			fmt.Fprintf(r.out, "error: :journal wants a count, got %q\n", arg)
			return
		}
		changes = r.app.Journal().RecentChanges(n)
	}
	for _, c := range changes {
		fmt.Fprintf(r.out, "%s  %-24s %s %q -> %q\n", c.Timestamp.Format("15:04:05"), c.Action, c.Range, c.OldText, c.NewText)
	}
}
