package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JamesPrial/todo-tabs/internal/task"
)

// TaskStore is the subset of store.Store a screen drives.
type TaskStore interface {
	Load(ctx context.Context, filter task.Filter) []task.Task
	Add(ctx context.Context, title string) []task.Task
	Toggle(ctx context.Context, id int64) []task.Task
	Delete(ctx context.Context, id int64, filter task.Filter) []task.Task
	View(filter task.Filter) []task.Task
}

// Screen describes one tab: its projection and which row actions it allows.
type Screen struct {
	Name      string
	Title     string
	Filter    task.Filter
	CanAdd    bool
	CanToggle bool
	Empty     string
}

var (
	// Active lists incomplete tasks and accepts new ones.
	Active = Screen{
		Name:      "active",
		Title:     "Todo List",
		Filter:    task.Active,
		CanAdd:    true,
		CanToggle: true,
		Empty:     "Nothing to do",
	}

	// Completed lists finished tasks. Toggling is inert here; tasks only
	// leave by deletion.
	Completed = Screen{
		Name:   "completed",
		Title:  "Completed Tasks",
		Filter: task.Completed,
		Empty:  "No completed tasks yet",
	}
)

// Screens returns the tabs in display order.
func Screens() []Screen {
	return []Screen{Active, Completed}
}

// ScreenFor returns the screen showing filter. All maps to Active.
func ScreenFor(filter task.Filter) Screen {
	if filter == task.Completed {
		return Completed
	}
	return Active
}

// Load is the focus event: it reads the store and returns this screen's
// projection.
func (s Screen) Load(ctx context.Context, st TaskStore) []task.Task {
	return st.Load(ctx, s.Filter)
}

// Add creates a task from title. Screens that cannot add return their
// current projection.
func (s Screen) Add(ctx context.Context, st TaskStore, title string) []task.Task {
	if !s.CanAdd {
		return st.View(s.Filter)
	}
	st.Add(ctx, title)
	return st.View(s.Filter)
}

// Toggle flips the task's completion where allowed and returns this screen's
// projection.
func (s Screen) Toggle(ctx context.Context, st TaskStore, id int64) []task.Task {
	if !s.CanToggle {
		return st.View(s.Filter)
	}
	st.Toggle(ctx, id)
	return st.View(s.Filter)
}

// Delete removes the task and returns this screen's projection.
func (s Screen) Delete(ctx context.Context, st TaskStore, id int64) []task.Task {
	return st.Delete(ctx, id, s.Filter)
}

// Rows builds the rows for tasks, wiring handlers according to the screen's
// permissions. selected is the index of the highlighted row, or -1.
func (s Screen) Rows(tasks []task.Task, selected int, h Handlers) []Row {
	if !s.CanToggle {
		h.OnToggle = nil
	}
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{Task: t, Selected: i == selected, Handlers: h}
	}
	return rows
}

// Render writes the screen title followed by one line per task, or the
// empty-state text. Ids are shown so the output can be acted on.
func (s Screen) Render(w io.Writer, tasks []task.Task) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title))
	b.WriteString("\n")

	if len(tasks) == 0 {
		b.WriteString(mutedStyle.Render(s.Empty))
		b.WriteString("\n")
	}
	for _, row := range s.Rows(tasks, -1, Handlers{}) {
		row.ShowID = true
		b.WriteString(row.Render())
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write %s screen: %w", s.Name, err)
	}
	return nil
}
