package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sehatlink/sehat-mcp/internal/daemon"
	"github.com/sehatlink/sehat-mcp/pkg/version"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe a running daemon",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&socketFlag, "socket", "", "unix socket path (default from config)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("socket") {
		cfg.SocketPath = socketFlag
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	client, err := daemon.Dial(ctx, cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("daemon not reachable: %w", err)
	}
	defer client.Close()

	init, err := client.Initialize(ctx, serverName+"-cli", version.Version)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		return err
	}
	listed, err := client.ListTools(ctx)
	if err != nil {
		return err
	}

	pid, _ := daemon.NewPIDFile(cfg.PIDFile).Read()

	cmd.Printf("daemon:   %s %s (pid %d)\n", init.ServerInfo.Name, init.ServerInfo.Version, pid)
	cmd.Printf("socket:   %s\n", cfg.SocketPath)
	cmd.Printf("protocol: %s\n", init.ProtocolVersion)
	cmd.Printf("tools:    %d\n", len(listed.Tools))
	for _, tool := range listed.Tools {
		cmd.Printf("  - %s\n", tool.Name)
	}
	return nil
}
