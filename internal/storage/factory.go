package storage

import (
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Options selects and configures a storage backend.
//
// Paths must already be resolved and validated by the caller (see the config
// package); Open does not touch the environment.
type Options struct {
	// Backend is one of the Backend* names. Matching is case-insensitive and
	// ignores surrounding whitespace. Empty means BackendJSON.
	Backend string

	// JSONDir is the directory used by the JSON backend.
	JSONDir string

	// SQLitePath is the database file used by the SQLite backend.
	SQLitePath string

	// PostgresURL is the connection string used by the Postgres backend.
	PostgresURL string
}

// NormalizeBackend lowercases and trims a backend name, defaulting to json.
func NormalizeBackend(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return BackendJSON
	}
	return name
}

// Open returns the backend described by opts.
//
// Returns an error if the backend type is unknown, a required option is
// missing, or the backend fails to initialize its schema.
func Open(opts Options) (KVStore, error) {
	switch backend := NormalizeBackend(opts.Backend); backend {
	case BackendJSON:
		if strings.TrimSpace(opts.JSONDir) == "" {
			return nil, fmt.Errorf("json backend requires a directory")
		}
		return NewJSONBackend(opts.JSONDir), nil

	case BackendSQLite:
		if strings.TrimSpace(opts.SQLitePath) == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		return NewSQLiteBackend(opts.SQLitePath)

	case BackendPostgres:
		if strings.TrimSpace(opts.PostgresURL) == "" {
			return nil, fmt.Errorf("postgres backend requires a connection string")
		}
		return NewPostgresBackend(opts.PostgresURL)

	case BackendMemory:
		return NewMemoryBackend(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %q. Expected 'json', 'sqlite', 'postgres' or 'memory'", backend)
	}
}
