package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config holds every runtime setting for the server. Values resolve in
// three layers: built-in defaults, then the TOML config file, then
// SEHAT_MCP_* environment variables.
type Config struct {
	DataDir     string `toml:"data_dir"`
	RemindersDB string `toml:"reminders_db"`
	AuditLog    string `toml:"audit_log"`
	SocketPath  string `toml:"socket_path"`
	PIDFile     string `toml:"pid_file"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	WatchData   bool   `toml:"watch_data"`
}

// StateRoot is the per-user directory for mutable server state.
func StateRoot() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".sehat-mcp")
}

// DefaultConfigPath is where Load looks when no --config flag is given.
func DefaultConfigPath() string {
	return filepath.Join(StateRoot(), "config.toml")
}

func Default() *Config {
	root := StateRoot()
	return &Config{
		DataDir:     "data",
		RemindersDB: filepath.Join(root, "reminders.db"),
		AuditLog:    filepath.Join(root, "logs", "audit.log"),
		SocketPath:  filepath.Join(root, "daemon.sock"),
		PIDFile:     filepath.Join(root, "daemon.pid"),
		LogLevel:    "info",
		LogFormat:   "json",
		WatchData:   true,
	}
}

// Load resolves the configuration. A missing file at the default path
// is fine; a path given explicitly must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// defaults apply
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("SEHAT_MCP_DATA_DIR", &c.DataDir)
	setString("SEHAT_MCP_REMINDERS_DB", &c.RemindersDB)
	setString("SEHAT_MCP_AUDIT_LOG", &c.AuditLog)
	setString("SEHAT_MCP_SOCKET", &c.SocketPath)
	setString("SEHAT_MCP_PID_FILE", &c.PIDFile)
	setString("SEHAT_MCP_LOG_LEVEL", &c.LogLevel)
	setString("SEHAT_MCP_LOG_FORMAT", &c.LogFormat)

	if v, ok := os.LookupEnv("SEHAT_MCP_WATCH_DATA"); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.WatchData = parsed
		}
	}
}

// EnsureDirectories creates the directories the server writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{
		filepath.Dir(c.RemindersDB),
		filepath.Dir(c.AuditLog),
		filepath.Dir(c.SocketPath),
		filepath.Dir(c.PIDFile),
	} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create state dir %s: %w", dir, err)
		}
	}
	return nil
}
