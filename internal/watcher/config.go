package watcher

import "time"

// Config controls the reference-data watcher. Patterns are doublestar
// globs matched against file names inside the data directory.
type Config struct {
	Enabled        bool          `json:"enabled"`
	DebounceWindow time.Duration `json:"debounce_window"`
	MaxBatchSize   int           `json:"max_batch_size"`
	WatchPatterns  []string      `json:"watch_patterns"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		DebounceWindow: 300 * time.Millisecond,
		MaxBatchSize:   16,
		WatchPatterns:  []string{"*.json"},
	}
}
