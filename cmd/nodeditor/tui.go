package main

import (
	"io"

	"github.com/recera/nodeditor/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Drive the editor from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			// the terminal belongs to the program; log only to a file
			logger, closeLog, err := opts.logger(cfg, io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			return tui.Run(cmd.Context(), editorOptions(cfg, logger))
		},
	}
}
