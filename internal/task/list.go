package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no decoded task carries the requested id.
var ErrNotFound = errors.New("task not found")

// Filter selects the projection a screen renders.
type Filter int

const (
	// All keeps every task.
	All Filter = iota
	// Active keeps tasks with completed == false.
	Active
	// Completed keeps tasks with completed == true.
	Completed
)

// String returns the lowercase filter name used by the CLI and MCP tools.
func (f Filter) String() string {
	switch f {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "all"
	}
}

// ParseFilter maps "active", "completed" or "all" (case-insensitive) to a
// Filter. The empty string means Active, the default screen.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active":
		return Active, nil
	case "completed", "done":
		return Completed, nil
	case "all":
		return All, nil
	default:
		return All, fmt.Errorf("unknown filter %q: expected active, completed or all", s)
	}
}

// Match reports whether t belongs to the projection.
// Opaque elements match nothing.
func (f Filter) Match(t Task) bool {
	if t.IsOpaque() {
		return false
	}
	switch f {
	case Active:
		return !t.Completed
	case Completed:
		return t.Completed
	default:
		return true
	}
}

// Apply returns the tasks matching f in their stored order. The result is a
// new slice and never nil.
func (f Filter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Append returns a copy of tasks with t added at the end.
func Append(tasks []Task, t Task) []Task {
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, tasks...)
	return append(out, t)
}

// Toggle returns a copy of tasks where every task with the given id has its
// completed flag negated. Unknown ids leave the copy identical to the input.
func Toggle(tasks []Task, id int64) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if !out[i].IsOpaque() && out[i].ID == id {
			out[i].Completed = !out[i].Completed
		}
	}
	return out
}

// Remove returns a copy of tasks without the entries carrying id. Opaque
// elements are always kept.
func Remove(tasks []Task, id int64) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsOpaque() || t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// Find returns the first task with the given id.
func Find(tasks []Task, id int64) (Task, bool) {
	for _, t := range tasks {
		if !t.IsOpaque() && t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
