package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/markstyle/internal/app"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	mdhandler "github.com/dshills/markstyle/internal/dispatcher/handlers/markdown"
	"github.com/dshills/markstyle/internal/input"
	"github.com/dshills/markstyle/internal/markdown"
)

// editFlags are shared by the toggle and heading commands.
type editFlags struct {
	cursors    []string
	write      bool
	dryRun     bool
	count      int
	jsonOutput bool
	highlight  bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.cursors, "cursor", "c", nil, "cursor as LINE:CHAR or LINE:CHAR-LINE:CHAR (repeatable)")
	cmd.Flags().BoolVarP(&f.write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print the planned edits without applying them")
	cmd.Flags().IntVarP(&f.count, "count", "n", 1, "apply the command this many times")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().BoolVar(&f.highlight, "highlight", false, "syntax highlight the printed document")
}

func newToggleCmd(opts *globalOptions) *cobra.Command {
	flags := &editFlags{}
	cmd := &cobra.Command{
		Use:   "toggle <style> [file]",
		Short: "Toggle an inline style at each cursor",
		Long: `Toggle wraps the word or selection at each cursor in the style's
delimiters, or removes them when the cursor is already inside that style.

Styles: bold, italic, code, strikethrough.

Reads the document from stdin when no file is given and prints the
result to stdout. The new cursors are printed to stderr.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := markdown.ParseStyle(args[0])
			if err != nil {
				return err
			}
			name, _ := mdhandler.ActionForStyle(style)
			return runEdit(cmd, opts, flags, optionalArg(args, 1), name)
		},
	}
	flags.register(cmd)
	return cmd
}

func newHeadingCmd(opts *globalOptions) *cobra.Command {
	flags := &editFlags{}
	cmd := &cobra.Command{
		Use:   "heading <up|down> [file]",
		Short: "Cycle the ATX heading level of each cursor line",
		Long: `Heading adds (up) or removes (down) one '#' on every line holding a
cursor or selection end. Level 6 wraps to plain text going up, and plain
text wraps to level 6 going down.`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := markdown.ParseDirection(args[0])
			if err != nil {
				return err
			}
			name := mdhandler.ActionHeadingUp
			if dir == markdown.HeadingDown {
				name = mdhandler.ActionHeadingDown
			}
			return runEdit(cmd, opts, flags, optionalArg(args, 1), name)
		},
	}
	flags.register(cmd)
	return cmd
}

// editOutput is the JSON form of an edit command's outcome.
type editOutput struct {
	Status  string     `json:"status"`
	Message string     `json:"message,omitempty"`
	Text    string     `json:"text"`
	Cursors []string   `json:"cursors"`
	Edits   []editJSON `json:"edits"`
}

type editJSON struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	OldText string `json:"old_text"`
	NewText string `json:"new_text"`
}

func runEdit(cmd *cobra.Command, opts *globalOptions, flags *editFlags, file, actionName string) error {
	if flags.write && file == "" {
		return errWriteStdin
	}

	a, err := opts.newApp(cmd, file, false)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	if len(flags.cursors) > 0 {
		sels, err := app.ParseCursors(flags.cursors)
		if err != nil {
			return err
		}
		a.Engine().SetSelections(sels)
	}

	action := input.NewAction(actionName, input.SourceCLI).WithCount(flags.count)
	var result handler.Result
	if flags.dryRun {
		result = a.Plan(cmd.Context(), action)
	} else {
		result = a.Dispatch(cmd.Context(), action)
	}
	if result.Error != nil {
		return result.Error
	}

	if flags.write && !flags.dryRun && result.IsOK() {
		if err := a.Save(); err != nil {
			return err
		}
	}

	sels := a.Engine().Selections()
	if flags.dryRun && len(result.Selections) > 0 {
		sels = result.Selections
	}

	if flags.jsonOutput {
		out := editOutput{
			Status:  result.Status.String(),
			Message: result.Message,
			Text:    a.Engine().Text(),
			Cursors: make([]string, len(sels)),
			Edits:   make([]editJSON, len(result.Edits)),
		}
		for i, sel := range sels {
			out.Cursors[i] = app.FormatCursor(sel)
		}
		for i, e := range result.Edits {
			out.Edits[i] = editJSON{
				Start:   fmt.Sprintf("%d:%d", e.Range.Start.Line, e.Range.Start.Character),
				End:     fmt.Sprintf("%d:%d", e.Range.End.Line, e.Range.End.Character),
				OldText: e.OldText,
				NewText: e.NewText,
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	switch {
	case flags.dryRun:
		for _, e := range result.Edits {
			fmt.Fprintln(cmd.OutOrStdout(), e.String())
		}
	case flags.highlight && !flags.write:
		fmt.Fprint(cmd.OutOrStdout(), highlightMarkdown(a.Engine().Text()))
	case !flags.write:
		fmt.Fprint(cmd.OutOrStdout(), a.Engine().Text())
	}
	p := newPalette(cmd.ErrOrStderr())
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s %s\n", actionName, p.status(result.Status), p.muted("cursors "+app.FormatCursors(sels)))
	return nil
}
