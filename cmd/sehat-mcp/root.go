package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sehatlink/sehat-mcp/internal/audit"
	"github.com/sehatlink/sehat-mcp/internal/config"
	"github.com/sehatlink/sehat-mcp/internal/dispatch"
	"github.com/sehatlink/sehat-mcp/internal/logger"
	"github.com/sehatlink/sehat-mcp/internal/refdata"
	"github.com/sehatlink/sehat-mcp/internal/server"
	"github.com/sehatlink/sehat-mcp/internal/tools/reminder"
	"github.com/sehatlink/sehat-mcp/pkg/version"
)

const serverName = "sehat-mcp"

var (
	cfgFile   string
	dataDir   string
	logLevel  string
	logFormat string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sehat-mcp",
	Short: "Health-assistant tool server speaking MCP over JSON-RPC",
	Long: `sehat-mcp exposes symptom triage, programme eligibility, facility
lookup, and medication reminders as MCP tools. Reference data loads
from JSON files at startup; reminders persist in SQLite; every tool
invocation lands in an append-only audit log.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Flags beat both the config file and the environment.
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		logger.Init(logger.Config{
			Level:  logger.ParseLevel(cfg.LogLevel),
			Format: cfg.LogFormat,
			Output: os.Stderr,
		})
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+config.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "reference data directory (default \"data\")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json or text")
}

// buildServer loads reference data, opens the stores, and assembles the
// tool server. The returned cleanup closes everything in reverse order.
func buildServer(cfg *config.Config) (*server.Server, func(), error) {
	data, err := refdata.Load(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, err
	}

	store, err := reminder.OpenStore(cfg.RemindersDB)
	if err != nil {
		return nil, nil, fmt.Errorf("open reminder store: %w", err)
	}

	auditLog, err := audit.Open(cfg.AuditLog)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("open audit log: %w", err)
	}

	dispatcher, err := dispatch.New(data, store, auditLog)
	if err != nil {
		auditLog.Close()
		store.Close()
		return nil, nil, err
	}

	cleanup := func() {
		auditLog.Close()
		store.Close()
	}
	return server.New(dispatcher, serverName, version.Version), cleanup, nil
}
