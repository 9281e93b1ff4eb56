package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sehatlink/sehat-mcp/internal/daemon"
)

var socketFlag string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Serve MCP on a unix socket",
	Long: `Daemon binds a unix socket and serves any number of concurrent
clients until SIGINT or SIGTERM. A pid file prevents a second daemon
from sharing the same state directory.`,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&socketFlag, "socket", "", "unix socket path (default from config)")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("socket") {
		cfg.SocketPath = socketFlag
	}

	srv, cleanup, err := buildServer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := daemon.New(srv, cfg.SocketPath, cfg.PIDFile)
	if err := d.Start(ctx); err != nil {
		return err
	}
	defer d.Shutdown()

	startDataWatcher(ctx)

	d.Wait(ctx)
	return nil
}
