package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/recera/nodeditor/internal/config"
	"github.com/recera/nodeditor/pkg/debug"
	"github.com/recera/nodeditor/pkg/environment"
	"github.com/spf13/cobra"
)

// globalOptions are the flags every command shares
type globalOptions struct {
	configDir string
	logLevel  string
	logFormat string
	logFile   string
}

func (o *globalOptions) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configDir, "config-dir", "C", ".", "Directory holding nodeditor.yaml or nodeditor.json")
	flags.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&o.logFormat, "log-format", "", "Log format: text or json")
	flags.StringVar(&o.logFile, "log-file", "", "Write logs to this file instead of stderr")
}

// load reads the config file and applies flag overrides (flags take
// precedence)
func (o *globalOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger builds the process logger and enables scheduler tracing at debug
// level. The returned func closes the log file.
func (o *globalOptions) logger(cfg *config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	if o.logFile == "" {
		logger := cfg.Log.NewLogger(fallback)
		debug.EnableLogging(logger)
		return logger, func() {}, nil
	}
	f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := cfg.Log.NewLogger(f)
	debug.EnableLogging(logger)
	return logger, func() {
		debug.EnableLogging(nil)
		f.Close()
	}, nil
}

func editorOptions(cfg *config.Config, logger *slog.Logger) environment.Options {
	return environment.Options{
		Logger:       logger,
		NodeLabel:    cfg.Editor.NodeLabel,
		ButtonLabel:  cfg.Editor.ButtonLabel,
		InitialValue: cfg.Editor.InitialValue,
	}
}
