// Package main implements the MCP server for the todo task list.
//
// The server exposes list_tasks, add_task, toggle_task, delete_task and
// check_tasks over stdio JSON-RPC (Model Context Protocol), backed by the
// same configured store as the todo command. Logs go to stderr.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/JamesPrial/todo-tabs/internal/app"
	"github.com/JamesPrial/todo-tabs/internal/config"
	"github.com/JamesPrial/todo-tabs/internal/logging"
	"github.com/JamesPrial/todo-tabs/internal/mcpserver"
)

var version = "dev"

func run() int {
	cfg, err := config.Load(config.LoadOptions{})
	if err != nil {
		logging.New(os.Stderr, logging.DefaultOptions()).Error("failed to load config", "err", err)
		return 1
	}

	opts := cfg.LogOptions()
	opts.Prefix = "todo-mcp"
	logger := logging.New(os.Stderr, opts)

	a, err := app.Open(cfg, logger, app.Options{})
	if err != nil {
		logger.Error("failed to open task store", "err", err)
		return 1
	}

	srv, err := mcpserver.NewServer(a, version)
	if err != nil {
		logger.Error("failed to create MCP server", "err", err)
		return 1
	}

	errLogger := logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})
	if err := server.ServeStdio(srv, server.WithErrorLogger(errLogger)); err != nil {
		logger.Error("server error", "err", err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(run())
}
