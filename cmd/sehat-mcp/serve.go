package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sehatlink/sehat-mcp/internal/logger"
	"github.com/sehatlink/sehat-mcp/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP over stdio",
	Long: `Serve answers JSON-RPC requests on stdin/stdout until the client
closes the stream. This is the mode MCP hosts launch:

  {
    "mcpServers": {
      "sehat": {
        "command": "/path/to/sehat-mcp",
        "args": ["serve"]
      }
    }
  }`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv, cleanup, err := buildServer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startDataWatcher(ctx)

	err = srv.ServeStdio(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// startDataWatcher begins staleness watching when enabled. A watcher
// failure is not fatal; the server just loses the stale-data warning.
func startDataWatcher(ctx context.Context) {
	if !cfg.WatchData {
		return
	}

	w, err := watcher.New(cfg.DataDir, watcher.DefaultConfig(), nil)
	if err != nil {
		logger.Warn("data watcher unavailable", "error", err)
		return
	}
	if err := w.Start(ctx); err != nil {
		logger.Warn("data watcher failed to start", "error", err)
		return
	}

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
}
