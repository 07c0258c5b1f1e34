package main

import (
	"fmt"
	"os"

	"github.com/recera/nodeditor/pkg/environment"
	"github.com/spf13/cobra"
)

func newRenderCommand(opts *globalOptions) *cobra.Command {
	var value float64

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the editor's HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("value") {
				cfg.Editor.InitialValue = value
			}

			logger, closeLog, err := opts.logger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			env, _, destroy, err := environment.CreateEditor(cmd.Context(), editorOptions(cfg, logger))
			if err != nil {
				return err
			}
			defer destroy()

			out, err := env.Area().Snapshot()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().Float64Var(&value, "value", 0, "Initial value of the input and progress")
	return cmd
}
