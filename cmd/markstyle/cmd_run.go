package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd(opts *globalOptions) *cobra.Command {
	var (
		write    bool
		printDoc bool
	)
	cmd := &cobra.Command{
		Use:   "run <script.lua> [file]",
		Short: "Run a Lua script against a document",
		Long: `Run executes a Lua script with the markdown, buffer, cursor and editor
modules loaded. Lines and columns in scripts are one-based.

  cursor.set(1, 7)
  markdown.toggle("bold")
  print(buffer.line(1))

Script output from print goes to stdout.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := optionalArg(args, 1)
			if write && file == "" {
				return errWriteStdin
			}

			a, err := opts.newApp(cmd, file, false)
			if err != nil {
				return err
			}
			defer a.Shutdown()

			host, err := a.NewPluginHost(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer host.Close()

			if err := host.RunFile(cmd.Context(), args[0]); err != nil {
				return err
			}

			if write {
				if err := a.Save(); err != nil {
					return err
				}
			}
			if printDoc {
				fmt.Fprint(cmd.OutOrStdout(), a.Engine().Text())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVarP(&printDoc, "print", "p", false, "print the document after the script finishes")
	return cmd
}
