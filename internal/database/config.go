package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all database configuration options
type Config struct {
	// Database connection settings
	Path           string `json:"path"`           // Database file path
	MaxConnections int    `json:"maxConnections"` // Maximum number of open connections
	MaxIdleConns   int    `json:"maxIdleConns"`   // Maximum number of idle connections

	// Performance settings
	JournalMode     string `json:"journalMode"`     // SQLite journal mode (WAL, DELETE, etc.)
	SynchronousMode string `json:"synchronousMode"` // SQLite synchronous mode (FULL, NORMAL, OFF)
	BusyTimeout     int    `json:"busyTimeout"`     // SQLite busy timeout in milliseconds
	ForeignKeys     bool   `json:"foreignKeys"`     // Enable foreign key constraints

	// Environment and runtime settings
	Environment string `json:"environment"` // Environment (development, production, test)
}

// DefaultConfig returns a configuration with sensible defaults. The order
// database is tiny (two keys per user) so the pool stays small and the
// synchronous mode conservative.
func DefaultConfig() *Config {
	return &Config{
		Path:            defaultDatabasePath(),
		MaxConnections:  4,
		MaxIdleConns:    2,
		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		BusyTimeout:     5000,
		ForeignKeys:     true,
		Environment:     "production",
	}
}

// ConfigForEnvironment returns a configuration tuned for the given environment
func ConfigForEnvironment(env string) *Config {
	config := DefaultConfig()
	config.Environment = env

	switch env {
	case "test":
		config.Path = ":memory:"
		config.JournalMode = "MEMORY"
		config.MaxConnections = 1
		config.MaxIdleConns = 1
	case "development":
		config.Path = "launchgrid-dev.db"
		config.SynchronousMode = "OFF"
	}

	return config
}

// defaultDatabasePath places the database under the user config dir,
// falling back to the working directory when that cannot be resolved.
func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "launchgrid.db"
	}
	return filepath.Join(dir, "launchgrid", "launchgrid.db")
}

// GetConnectionString builds the SQLite DSN with the configured pragmas
func (c *Config) GetConnectionString() string {
	params := url.Values{}

	if c.JournalMode != "" {
		params.Set("_journal_mode", c.JournalMode)
	}
	if c.SynchronousMode != "" {
		params.Set("_synchronous", c.SynchronousMode)
	}
	if c.BusyTimeout > 0 {
		params.Set("_busy_timeout", strconv.Itoa(c.BusyTimeout))
	}
	if c.ForeignKeys {
		params.Set("_foreign_keys", "on")
	}

	if len(params) == 0 {
		return c.Path
	}
	return fmt.Sprintf("file:%s?%s", c.Path, params.Encode())
}

// Validate checks the configuration for invalid combinations
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.MaxConnections < 1 {
		return fmt.Errorf("maxConnections must be at least 1, got %d", c.MaxConnections)
	}
	if c.MaxIdleConns > c.MaxConnections {
		return fmt.Errorf("maxIdleConns (%d) must not exceed maxConnections (%d)", c.MaxIdleConns, c.MaxConnections)
	}
	return nil
}

// EnsureDirectory creates the parent directory of the database file when the
// database is file-backed.
func (c *Config) EnsureDirectory() error {
	if c.Path == "" || c.Path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(c.Path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
