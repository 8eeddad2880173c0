package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/dshills/markstyle/internal/app"
	"github.com/dshills/markstyle/internal/input/keymap"
)

func newKeysCmd(opts *globalOptions) *cobra.Command {
	var (
		jsonOutput, tree bool
		savePath         string
	)
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Print the active key bindings",
		Long: `Keys lists the default bindings together with any keymaps configured
under [keymap] paths and dirs, grouped by category. With --save the
active bindings are written as a YAML keymap that can be edited and
listed under [keymap] paths.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(app.Options{
				ConfigPath: opts.resolveConfigPath(),
				LogLevel:   opts.logLevel,
				LogFile:    opts.logFile,
				Stderr:     cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer a.Shutdown()

			bindings := a.Keymaps().Bindings()
			if savePath != "" {
				km := &keymap.Keymap{Name: "saved", Source: "user", Bindings: bindings}
				if err := km.SaveFile(savePath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved %d bindings to %s\n", len(bindings), savePath)
				return nil
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(bindings)
			}
			if tree {
				fmt.Fprint(cmd.OutOrStdout(), bindingTree(bindings))
				return nil
			}
			return printBindings(cmd.OutOrStdout(), bindings)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().BoolVar(&tree, "tree", false, "show bindings as a tree of categories")
	cmd.Flags().StringVar(&savePath, "save", "", "write the active bindings to a YAML keymap file")
	return cmd
}

// printBindings writes bindings as aligned columns under category headers.
func printBindings(w io.Writer, bindings []keymap.Binding) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, group := range keymap.GroupByCategory(bindings) {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s:\n", group.Name)
		for _, b := range group.Bindings {
			when := ""
			if b.When != "" {
				when = "when " + b.When
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", b.Keys, b.Action, b.Description, when)
		}
	}
	return tw.Flush()
}

// bindingTree renders bindings as an ASCII tree, one branch per category.
func bindingTree(bindings []keymap.Binding) string {
	tree := treeprint.NewWithRoot("keymaps")
	for _, group := range keymap.GroupByCategory(bindings) {
		branch := tree.AddBranch(group.Name)
		for _, b := range group.Bindings {
			branch.AddMetaNode(b.Keys, b.Action)
		}
	}
	return tree.String()
}
