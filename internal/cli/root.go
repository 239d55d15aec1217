// Package cli implements the todo command line with cobra. Every command
// opens the configured store, focuses the screen it acts on and prints that
// screen afterwards.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/JamesPrial/todo-tabs/internal/app"
	"github.com/JamesPrial/todo-tabs/internal/config"
	"github.com/JamesPrial/todo-tabs/internal/logging"
	"github.com/JamesPrial/todo-tabs/internal/seed"
	"github.com/JamesPrial/todo-tabs/internal/storage"
	"github.com/JamesPrial/todo-tabs/internal/task"
	"github.com/JamesPrial/todo-tabs/internal/ui"
	"github.com/JamesPrial/todo-tabs/internal/view"
)

// Options injects process dependencies. Zero values use the real ones.
type Options struct {
	Version   string
	LookupEnv func(string) (string, bool)
	Seed      seed.Source
	OpenKV    func(storage.Options) (storage.KVStore, error)
	IsTTY     func() bool
	RunTUI    func(ctx context.Context, st ui.Store) error
}

// runner carries flag values and the opened app between cobra hooks.
type runner struct {
	opts Options

	configPath string
	backend    string
	dataDir    string
	logLevel   string

	cfg *config.Config
}

// NewRootCmd returns the todo command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.IsTTY == nil {
		opts.IsTTY = ui.IsTTY
	}
	if opts.RunTUI == nil {
		opts.RunTUI = ui.Run
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	r := &runner{opts: opts}

	root := &cobra.Command{
		Use:   "todo",
		Short: "A two-screen todo list",
		Long: `todo keeps a task list in a local key-value store.

Run without arguments on a terminal to open the interactive view. The list
is seeded from a remote endpoint the first time it is empty.`,
		Version:           opts.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: r.loadConfig,
		RunE:              r.runRoot,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&r.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&r.backend, "backend", "", "storage backend: json, sqlite, postgres or memory")
	pf.StringVar(&r.dataDir, "data-dir", "", "directory for the store, database and log")
	pf.StringVar(&r.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newListCmd(r),
		newAddCmd(r),
		newToggleCmd(r),
		newDeleteCmd(r),
		newCheckCmd(r),
	)
	return root
}

func (r *runner) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.LoadOptions{
		Path:      r.configPath,
		LookupEnv: r.opts.LookupEnv,
		Backend:   r.backend,
		DataDir:   r.dataDir,
		LogLevel:  r.logLevel,
	})
	if err != nil {
		return err
	}
	r.cfg = cfg
	return nil
}

// open builds the app logging to w.
func (r *runner) open(w io.Writer) (*app.App, error) {
	return r.openWith(logging.New(w, r.cfg.LogOptions()))
}

func (r *runner) openWith(logger *log.Logger) (*app.App, error) {
	return app.Open(r.cfg, logger, app.Options{Seed: r.opts.Seed, OpenKV: r.opts.OpenKV})
}

func (r *runner) runRoot(cmd *cobra.Command, _ []string) error {
	if !r.opts.IsTTY() {
		a, err := r.open(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return printScreen(cmd, view.Active, view.Active.Load(cmd.Context(), a.Store))
	}

	// The alternate screen owns stdout and stderr while the UI runs.
	logger, closer, err := logging.OpenFile(r.cfg.Log.File, r.cfg.LogOptions())
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	a, err := r.openWith(logger)
	if err != nil {
		return err
	}
	return r.opts.RunTUI(cmd.Context(), a.Store)
}

func printScreen(cmd *cobra.Command, screen view.Screen, tasks []task.Task) error {
	return screen.Render(cmd.OutOrStdout(), tasks)
}

// Execute runs the command tree with ctx and returns the exit code.
func Execute(ctx context.Context, opts Options, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
