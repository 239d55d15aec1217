// Package mcpserver exposes the task store as MCP tools over stdio.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// listTasksTool returns a tool definition for reading one projection of the list.
func listTasksTool() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription("List stored tasks as a JSON array. The list is seeded from the remote endpoint when it is empty."),
		mcp.WithString("filter",
			mcp.Enum("active", "completed", "all"),
			mcp.Description("Which tasks to return (defaults to 'active')")),
	)
}

// addTaskTool returns a tool definition for appending a task.
func addTaskTool() mcp.Tool {
	return mcp.NewTool("add_task",
		mcp.WithDescription("Append a new incomplete task to the list and return it."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title; surrounding whitespace is trimmed")),
	)
}

// toggleTaskTool returns a tool definition for flipping a task's completed flag.
func toggleTaskTool() mcp.Tool {
	return mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip the completed flag of a task and return the updated task."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("ID of the task to toggle")),
	)
}

// deleteTaskTool returns a tool definition for removing a task.
func deleteTaskTool() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Permanently delete a task. Returns the remaining tasks of the chosen projection."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("ID of the task to delete")),
		mcp.WithString("filter",
			mcp.Enum("active", "completed", "all"),
			mcp.Description("Projection to return afterwards (defaults to 'active')")),
	)
}

// checkTasksTool returns a tool definition for validating the stored array.
func checkTasksTool() mcp.Tool {
	return mcp.NewTool("check_tasks",
		mcp.WithDescription("Validate the stored task array against its JSON schema and report any problems."),
	)
}
