package mcpserver

import (
	"errors"

	"github.com/mark3labs/mcp-go/server"

	"github.com/JamesPrial/todo-tabs/internal/app"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "todo-tabs"

// NewServer creates an MCP server with all task tools registered against
// the store in a.
func NewServer(a *app.App, version string) (*server.MCPServer, error) {
	if a == nil || a.Store == nil || a.Repo == nil {
		return nil, errors.New("mcpserver: app has no task store")
	}
	h := NewTaskHandlers(a.Store, a.Repo)

	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(listTasksTool(), h.HandleListTasks)
	s.AddTool(addTaskTool(), h.HandleAddTask)
	s.AddTool(toggleTaskTool(), h.HandleToggleTask)
	s.AddTool(deleteTaskTool(), h.HandleDeleteTask)
	s.AddTool(checkTasksTool(), h.HandleCheckTasks)

	return s, nil
}
