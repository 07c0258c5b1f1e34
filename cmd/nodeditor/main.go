package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var opts globalOptions

	var rootCmd = &cobra.Command{
		Use:   "nodeditor",
		Short: "nodeditor - a node with live controls",
		Long: `nodeditor serves a single editor node whose number input, progress bar
and Randomize button stay in sync, in the browser or in the terminal.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(rootCmd)

	// Add commands
	rootCmd.AddCommand(newServeCommand(&opts))
	rootCmd.AddCommand(newTUICommand(&opts))
	rootCmd.AddCommand(newRenderCommand(&opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
