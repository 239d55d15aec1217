// Package config resolves runtime settings from defaults, an optional TOML
// file, TODO_* environment variables and command-line flags, in that order.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/JamesPrial/todo-tabs/internal/logging"
	"github.com/JamesPrial/todo-tabs/internal/seed"
	"github.com/JamesPrial/todo-tabs/internal/storage"
)

const (
	// AppName names the per-user config and data directory.
	AppName = "todo-tabs"
	// FileName is the config file looked up in the user config directory.
	FileName = "config.toml"

	DefaultSQLiteFile = "todo.db"
	DefaultLogFile    = "todo.log"
)

// Config is the resolved configuration shared by every command.
type Config struct {
	// DataDir holds the JSON store, the SQLite database and the TUI log
	// unless overridden.
	DataDir string        `toml:"data_dir"`
	Storage StorageConfig `toml:"storage"`
	Seed    SeedConfig    `toml:"seed"`
	Log     LogConfig     `toml:"log"`

	// Source is the config file that was read, empty if none.
	Source string `toml:"-"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Backend     string `toml:"backend"`
	JSONDir     string `toml:"json_dir"`
	SQLitePath  string `toml:"sqlite_path"`
	PostgresURL string `toml:"postgres_url"`
}

// SeedConfig describes the endpoint used to populate an empty store.
type SeedConfig struct {
	URL   string `toml:"url"`
	Limit int    `toml:"limit"`
	// Timeout bounds the seed request. Zero means no timeout.
	Timeout time.Duration `toml:"timeout"`
}

// LogConfig controls log verbosity and the TUI log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultDataDir returns <user config dir>/todo-tabs, falling back to a
// dot directory in the working directory when no user config dir exists.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(dir, AppName)
}

// DefaultPath returns the config file looked up when none is given.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), FileName)
}

func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir()
	cfg.Storage.Backend = storage.BackendJSON
	cfg.Seed.URL = seed.DefaultURL
	cfg.Seed.Limit = seed.DefaultLimit
	cfg.Log.Level = "info"
}

// StorageOptions returns the options for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:     c.Storage.Backend,
		JSONDir:     c.Storage.JSONDir,
		SQLitePath:  c.Storage.SQLitePath,
		PostgresURL: c.Storage.PostgresURL,
	}
}

// SeedSource returns the HTTP seed source described by Seed.
func (c *Config) SeedSource() *seed.HTTPSource {
	return seed.NewHTTPSource(c.Seed.URL, c.Seed.Limit, c.Seed.Timeout)
}

// LogOptions returns logger options at the configured level.
func (c *Config) LogOptions() logging.Options {
	opts := logging.DefaultOptions()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		opts.Level = level
	}
	return opts
}
