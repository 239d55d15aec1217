package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/JamesPrial/todo-tabs/internal/store"
	"github.com/JamesPrial/todo-tabs/internal/task"
)

// TaskHandlers serves the task tools from one shared Store.
type TaskHandlers struct {
	store *store.Store
	repo  *task.Repository
}

// NewTaskHandlers returns handlers over st. repo is read directly only by
// check_tasks.
func NewTaskHandlers(st *store.Store, repo *task.Repository) *TaskHandlers {
	return &TaskHandlers{store: st, repo: repo}
}

// HandleListTasks returns the requested projection as a JSON array.
// Parameters:
//   - filter (string, optional): active, completed or all
func (h *TaskHandlers) HandleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := filterArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tasks, err := h.store.Reload(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load tasks: %v", err)), nil
	}
	return listResult(filter.Apply(tasks))
}

// HandleAddTask appends a task and returns it.
// Parameters:
//   - title (string, required)
func (h *TaskHandlers) HandleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, _ := request.GetArguments()["title"].(string)

	created, err := h.store.AddTask(ctx, title)
	if errors.Is(err, store.ErrBlankTitle) {
		return mcp.NewToolResultError("Missing required parameter: title"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add task: %v", err)), nil
	}
	return taskResult(created)
}

// HandleToggleTask flips a task's completed flag and returns the task.
// Parameters:
//   - id (number, required)
func (h *TaskHandlers) HandleToggleTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := idArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	toggled, err := h.store.ToggleTask(ctx, id)
	if err != nil {
		return mutationError("toggle", id, err), nil
	}
	return taskResult(toggled)
}

// HandleDeleteTask removes a task and returns the remaining projection.
// Parameters:
//   - id (number, required)
//   - filter (string, optional): projection to return
func (h *TaskHandlers) HandleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	filter, err := filterArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := idArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	remaining, err := h.store.DeleteTask(ctx, id)
	if err != nil {
		return mutationError("delete", id, err), nil
	}
	return listResult(filter.Apply(remaining))
}

// HandleCheckTasks validates the raw stored array.
func (h *TaskHandlers) HandleCheckTasks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok, err := h.repo.Raw(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read tasks: %v", err)), nil
	}
	if !ok || len(raw) == 0 {
		return mcp.NewToolResultText("No tasks stored yet"), nil
	}

	result, err := task.Validate(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Stored value is not valid JSON: %v", err)), nil
	}
	if result.Valid {
		return mcp.NewToolResultText("Stored task list is valid"), nil
	}

	lines := make([]string, 0, len(result.Problems)+1)
	lines = append(lines, fmt.Sprintf("Stored task list has %d problem(s):", len(result.Problems)))
	for _, p := range result.Problems {
		lines = append(lines, "  "+p.String())
	}
	return mcp.NewToolResultError(strings.Join(lines, "\n")), nil
}

func mutationError(op string, id int64, err error) *mcp.CallToolResult {
	if errors.Is(err, task.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No task with id %d", id))
	}
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s task %d: %v", op, id, err))
}

var errMissingID = errors.New("Missing required parameter: id")

// idArg accepts JSON numbers and numeric strings.
func idArg(args map[string]any) (int64, error) {
	switch v := args["id"].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("Invalid id: %v is not an integer", v)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("Invalid id: %q is not an integer", v)
		}
		return id, nil
	default:
		return 0, errMissingID
	}
}

func filterArg(args map[string]any) (task.Filter, error) {
	s, _ := args["filter"].(string)
	f, err := task.ParseFilter(s)
	if err != nil {
		return task.All, fmt.Errorf("Invalid filter: %w", err)
	}
	return f, nil
}

func listResult(tasks []task.Task) (*mcp.CallToolResult, error) {
	data, err := task.Encode(tasks)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func taskResult(t task.Task) (*mcp.CallToolResult, error) {
	data, err := t.MarshalJSON()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
