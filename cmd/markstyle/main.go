// Command markstyle toggles Markdown emphasis and heading levels in a
// document from the command line, from Lua scripts, or interactively.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/markstyle/internal/app"
	"github.com/dshills/markstyle/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	logLevel   string
	logFile    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "markstyle",
		Short: "Toggle Markdown emphasis and headings at one or more cursors",
		Long: `markstyle wraps and unwraps Markdown inline styles (bold, italic, code,
strikethrough) around the word or selection at each cursor, and cycles
ATX heading levels on the cursor lines.

Cursors are written LINE:CHAR (zero-based) or LINE:CHAR-LINE:CHAR for a
selection from anchor to active end.

Examples:
  markstyle toggle bold notes.md --cursor 0:8
  echo "Hello world" | markstyle toggle italic --cursor 0:1 --cursor 0:7
  markstyle heading up notes.md --cursor 3:0 --write
  markstyle run fix.lua notes.md --write
  markstyle repl notes.md`,
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default <user config dir>/markstyle/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(
		newToggleCmd(opts),
		newHeadingCmd(opts),
		newRunCmd(opts),
		newKeysCmd(opts),
		newReplCmd(opts),
	)
	return rootCmd
}

// resolveConfigPath returns the explicit --config path, or the default
// location when a file exists there.
func (o *globalOptions) resolveConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	path, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// newApp builds a session for file, reading stdin when file is empty.
func (o *globalOptions) newApp(cmd *cobra.Command, file string, readOnly bool) (*app.Application, error) {
	var stdin io.Reader
	if file == "" {
		stdin = cmd.InOrStdin()
	}
	return app.New(app.Options{
		ConfigPath: o.resolveConfigPath(),
		LogLevel:   o.logLevel,
		LogFile:    o.logFile,
		FilePath:   file,
		Stdin:      stdin,
		Stderr:     cmd.ErrOrStderr(),
		ReadOnly:   readOnly,
	})
}

// optionalArg returns args[i] or "".
func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// errWriteStdin is returned for --write without a file.
var errWriteStdin = errors.New("--write requires a file argument")
