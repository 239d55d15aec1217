// Package app wires configuration into a ready task store. The CLI, the
// terminal UI and the MCP server all start here.
package app

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/JamesPrial/todo-tabs/internal/config"
	"github.com/JamesPrial/todo-tabs/internal/seed"
	"github.com/JamesPrial/todo-tabs/internal/storage"
	"github.com/JamesPrial/todo-tabs/internal/store"
	"github.com/JamesPrial/todo-tabs/internal/task"
)

// App holds the objects built from a Config.
type App struct {
	Config *config.Config
	Repo   *task.Repository
	Store  *store.Store
	Logger *log.Logger
}

// Options overrides parts of the wiring. Zero values use the configured
// defaults.
type Options struct {
	// Seed replaces the HTTP seed source built from cfg.Seed.
	Seed seed.Source
	// OpenKV replaces storage.Open.
	OpenKV func(storage.Options) (storage.KVStore, error)
}

// Open builds the storage backend, repository and store described by cfg.
//
// Returns an error if the backend cannot be constructed.
func Open(cfg *config.Config, logger *log.Logger, opts Options) (*App, error) {
	openKV := opts.OpenKV
	if openKV == nil {
		openKV = storage.Open
	}
	kv, err := openKV(cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	src := opts.Seed
	if src == nil {
		src = cfg.SeedSource()
	}

	repo := task.NewRepository(kv)
	logger.Debug("storage ready", "backend", cfg.Storage.Backend, "config", cfg.Source)

	return &App{
		Config: cfg,
		Repo:   repo,
		Store:  store.New(repo, src, store.WithLogger(logger)),
		Logger: logger,
	}, nil
}
