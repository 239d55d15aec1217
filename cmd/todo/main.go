// Package main implements the todo command.
//
// With no arguments on a terminal it opens the two-tab interactive view;
// otherwise it prints the Active screen. Subcommands list, add, toggle,
// delete and check act on the same store.
//
// Exit codes:
//   - 0: Success
//   - 1: Error (bad arguments, invalid configuration, failed schema check)
//
// Environment variables (see internal/config):
//   - TODO_CONFIG: Optional. Config file path.
//   - TODO_STORAGE_BACKEND: Optional. "json" (default), "sqlite", "postgres" or "memory".
//   - TODO_DATA_DIR: Optional. Directory for the store, database and log.
//   - TODO_SEED_URL, TODO_SEED_LIMIT, TODO_SEED_TIMEOUT: Optional. Seed endpoint.
//   - TODO_LOG_LEVEL, TODO_LOG_FILE: Optional. Logging.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JamesPrial/todo-tabs/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// run executes the command line and returns the exit code.
func run(ctx context.Context, opts cli.Options, args []string, stdout, stderr io.Writer) int {
	opts.Version = version
	return cli.Execute(ctx, opts, args, stdout, stderr)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cli.Options{}, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
