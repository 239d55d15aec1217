// Package view renders task rows and screens and routes row actions to the
// task store. It is shared by the terminal UI, the CLI and the MCP server.
package view

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JamesPrial/todo-tabs/internal/task"
)

const (
	checkboxOpen = "[ ]"
	checkboxDone = "[x]"
	deleteGlyph  = "✕"
	cursorGlyph  = ">"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFDF5")).
		Background(lipgloss.Color("#25A065")).
		Padding(0, 1)

	doneStyle = lipgloss.NewStyle().
		Strikethrough(true).
		Faint(true)

	selectedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EE6FF8"))

	deleteStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F38BA8"))

	mutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6C7086"))
)

// Handlers receive row actions. A nil handler makes that affordance inert.
type Handlers struct {
	OnToggle func(id int64)
	OnDelete func(id int64)
}

// Row is one task as shown on a screen.
type Row struct {
	Task     task.Task
	Selected bool
	// ShowID prefixes the title with the task id, for surfaces where the
	// user types ids back in.
	ShowID bool
	Handlers
}

// Toggle invokes OnToggle for the row's task. Reports whether a handler ran.
func (r Row) Toggle() bool {
	if r.OnToggle == nil {
		return false
	}
	r.OnToggle(r.Task.ID)
	return true
}

// Delete invokes OnDelete for the row's task. Reports whether a handler ran.
func (r Row) Delete() bool {
	if r.OnDelete == nil {
		return false
	}
	r.OnDelete(r.Task.ID)
	return true
}

// Render returns the row as a single line: cursor, checkbox, optional id,
// title and delete affordance. Completed titles are struck through and
// dimmed.
func (r Row) Render() string {
	var b strings.Builder

	if r.Selected {
		b.WriteString(selectedStyle.Render(cursorGlyph))
	} else {
		b.WriteString(" ")
	}
	b.WriteString(" ")

	if r.Task.Completed {
		b.WriteString(checkboxDone)
	} else {
		b.WriteString(checkboxOpen)
	}
	b.WriteString(" ")

	if r.ShowID {
		b.WriteString(mutedStyle.Render(strconv.FormatInt(r.Task.ID, 10)))
		b.WriteString(" ")
	}

	title := r.Task.Title
	switch {
	case r.Task.Completed:
		title = doneStyle.Render(title)
	case r.Selected:
		title = selectedStyle.Render(title)
	}
	b.WriteString(title)

	if r.OnDelete != nil || r.ShowID {
		b.WriteString("  ")
		b.WriteString(deleteStyle.Render(deleteGlyph))
	}
	return b.String()
}
