package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/JamesPrial/todo-tabs/internal/logging"
	"github.com/JamesPrial/todo-tabs/internal/pathutil"
	"github.com/JamesPrial/todo-tabs/internal/storage"
)

// Environment variables read by Load.
const (
	EnvConfig         = "TODO_CONFIG"
	EnvStorageBackend = "TODO_STORAGE_BACKEND"
	EnvDataDir        = "TODO_DATA_DIR"
	EnvJSONDir        = "TODO_JSON_DIR"
	EnvSQLitePath     = "TODO_SQLITE_PATH"
	EnvPostgresURL    = "TODO_POSTGRES_URL"
	EnvSeedURL        = "TODO_SEED_URL"
	EnvSeedLimit      = "TODO_SEED_LIMIT"
	EnvSeedTimeout    = "TODO_SEED_TIMEOUT"
	EnvLogLevel       = "TODO_LOG_LEVEL"
	EnvLogFile        = "TODO_LOG_FILE"
)

// LoadOptions carries the inputs Load layers on top of the defaults.
type LoadOptions struct {
	// Path is an explicit config file (--config). It must exist.
	Path string

	// LookupEnv reads the environment. Nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Flag overrides. Empty values are ignored.
	Backend  string
	DataDir  string
	LogLevel string
}

// Load resolves configuration in priority order:
// 1. Defaults
// 2. Config file (--config, $TODO_CONFIG, or the default path if present)
// 3. Environment variables
// 4. Flags
func Load(opts LoadOptions) (*Config, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := &Config{}
	setDefaults(cfg)

	path, required := opts.Path, opts.Path != ""
	if !required {
		if v, ok := lookup(EnvConfig); ok && v != "" {
			path, required = v, true
		} else {
			path = DefaultPath()
		}
	}
	if err := loadFile(cfg, expandHome(path), required); err != nil {
		return nil, err
	}

	if err := loadFromEnv(cfg, lookup); err != nil {
		return nil, err
	}

	applyFlags(cfg, opts)

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}
	cfg.Source = path
	return nil
}

func loadFromEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	str(EnvStorageBackend, &cfg.Storage.Backend)
	str(EnvDataDir, &cfg.DataDir)
	str(EnvJSONDir, &cfg.Storage.JSONDir)
	str(EnvSQLitePath, &cfg.Storage.SQLitePath)
	str(EnvPostgresURL, &cfg.Storage.PostgresURL)
	str(EnvSeedURL, &cfg.Seed.URL)
	str(EnvLogLevel, &cfg.Log.Level)
	str(EnvLogFile, &cfg.Log.File)

	if v, ok := lookup(EnvSeedLimit); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeedLimit, v, err)
		}
		cfg.Seed.Limit = n
	}
	if v, ok := lookup(EnvSeedTimeout); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeedTimeout, v, err)
		}
		cfg.Seed.Timeout = d
	}
	return nil
}

func applyFlags(cfg *Config, opts LoadOptions) {
	if opts.Backend != "" {
		cfg.Storage.Backend = opts.Backend
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
}

// finalize validates values and resolves paths against DataDir.
func finalize(cfg *Config) error {
	dataDir, err := filepath.Abs(expandHome(cfg.DataDir))
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}
	cfg.DataDir = dataDir

	cfg.Storage.Backend = storage.NormalizeBackend(cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case storage.BackendJSON, storage.BackendSQLite, storage.BackendPostgres, storage.BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %q. Expected 'json', 'sqlite', 'postgres' or 'memory'", cfg.Storage.Backend)
	}

	if cfg.Storage.JSONDir == "" {
		cfg.Storage.JSONDir = dataDir
	} else if cfg.Storage.JSONDir, err = pathutil.ResolveSafePath(dataDir, expandHome(cfg.Storage.JSONDir)); err != nil {
		return fmt.Errorf("invalid json_dir: %w", err)
	}

	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = filepath.Join(dataDir, DefaultSQLiteFile)
	} else if cfg.Storage.SQLitePath, err = pathutil.ResolveSafePath(dataDir, expandHome(cfg.Storage.SQLitePath)); err != nil {
		return fmt.Errorf("invalid sqlite_path: %w", err)
	}

	if cfg.Storage.Backend == storage.BackendPostgres && strings.TrimSpace(cfg.Storage.PostgresURL) == "" {
		return fmt.Errorf("postgres backend requires %s or storage.postgres_url", EnvPostgresURL)
	}

	if strings.TrimSpace(cfg.Seed.URL) == "" {
		return fmt.Errorf("seed url must not be empty")
	}
	if cfg.Seed.Limit < 1 {
		return fmt.Errorf("seed limit must be at least 1, got %d", cfg.Seed.Limit)
	}
	if cfg.Seed.Timeout < 0 {
		return fmt.Errorf("seed timeout must not be negative, got %s", cfg.Seed.Timeout)
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(dataDir, DefaultLogFile)
	} else {
		cfg.Log.File = expandHome(cfg.Log.File)
	}

	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
