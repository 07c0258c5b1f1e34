package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recera/nodeditor/internal/config"
	"github.com/recera/nodeditor/internal/watch"
	"github.com/recera/nodeditor/pkg/live"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var port int
	var host string
	var origins []string
	var watchFiles bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor in the browser",
		Long: `Serves the editor page. Every page load gets its own editor, kept in sync
with the browser over a WebSocket.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			// CLI takes precedence
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("origin") {
				cfg.Server.AllowedOrigins = origins
			}
			if cmd.Flags().Changed("watch") {
				cfg.Watch.Enabled = watchFiles
			}

			logger, closeLog, err := opts.logger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVarP(&host, "host", "H", "localhost", "Host to bind to")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "Allowed WebSocket origin (repeatable, * for any)")
	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "Reload open pages when files change")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	liveServer := live.NewServer(live.Options{
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Editor:         editorOptions(cfg, logger),
	})
	defer liveServer.Close()

	if cfg.Watch.Enabled {
		w, err := watch.New(cfg.Watch.Paths, func(paths []string) {
			logger.Info("files changed, reloading pages", "files", len(paths))
			liveServer.Broadcast(live.Control{Name: live.ControlReload})
		}, watch.WithLogger(logger))
		if err != nil {
			return err
		}
		go w.Run(ctx)
		logger.Info("watching for changes", "paths", cfg.Watch.Paths)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           liveServer.Handler(cfg.Server.Title),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "url", "http://"+cfg.Addr())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// hijacked WebSocket connections are not tracked by Shutdown
	liveServer.Close()
	return server.Shutdown(shutdownCtx)
}
