// Package ui is the interactive terminal front end: one tab per screen, a
// text input for new tasks and a spinner while the first load runs.
package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JamesPrial/todo-tabs/internal/store"
	"github.com/JamesPrial/todo-tabs/internal/task"
	"github.com/JamesPrial/todo-tabs/internal/view"
)

// Store is what the UI needs from store.Store.
type Store interface {
	view.TaskStore
	Err() error
	Subscribe(fn store.Listener) func()
}

var (
	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFDF5")).
		Background(lipgloss.Color("#25A065")).
		Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6C7086")).
		Padding(0, 1)

	emptyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6C7086")).
		PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F38BA8")).
		Bold(true)
)

// tasksMsg carries a screen's projection after a load or mutation.
type tasksMsg struct {
	screen int
	tasks  []task.Task
	err    error
}

// changedMsg carries the full list after any commit to the store.
type changedMsg struct {
	tasks []task.Task
}

// Watch forwards every commit to st as a message through send, typically
// tea.Program.Send. Call the returned function to stop.
func Watch(st Store, send func(tea.Msg)) func() {
	return st.Subscribe(func(tasks []task.Task) {
		send(changedMsg{tasks: tasks})
	})
}

// Model is the bubbletea model.
type Model struct {
	ctx     context.Context
	store   Store
	screens []view.Screen

	tab     int
	tasks   []task.Task
	cursor  int
	loading bool
	err     error

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// New returns a model showing the Active screen. The first load starts from
// Init.
func New(ctx context.Context, st Store) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 200
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		store:   st,
		screens: view.Screens(),
		tasks:   []task.Task{},
		loading: true,
		input:   ti,
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(m.tab))
}

func (m Model) screen() view.Screen {
	return m.screens[m.tab]
}

func (m Model) loadCmd(idx int) tea.Cmd {
	ctx, st, screen := m.ctx, m.store, m.screens[idx]
	return func() tea.Msg {
		tasks := screen.Load(ctx, st)
		return tasksMsg{screen: idx, tasks: tasks, err: st.Err()}
	}
}

func (m Model) addCmd(title string) tea.Cmd {
	ctx, st, idx, screen := m.ctx, m.store, m.tab, m.screen()
	return func() tea.Msg {
		tasks := screen.Add(ctx, st, title)
		return tasksMsg{screen: idx, tasks: tasks, err: st.Err()}
	}
}

func (m Model) toggleCmd(id int64) tea.Cmd {
	ctx, st, idx, screen := m.ctx, m.store, m.tab, m.screen()
	return func() tea.Msg {
		tasks := screen.Toggle(ctx, st, id)
		return tasksMsg{screen: idx, tasks: tasks, err: st.Err()}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	ctx, st, idx, screen := m.ctx, m.store, m.tab, m.screen()
	return func() tea.Msg {
		tasks := screen.Delete(ctx, st, id)
		return tasksMsg{screen: idx, tasks: tasks, err: st.Err()}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tasksMsg:
		if msg.screen != m.tab {
			return m, nil
		}
		m.loading = false
		m.tasks = msg.tasks
		m.err = msg.err
		m.clampCursor()
		return m, nil

	case changedMsg:
		// The first load's own result clears the spinner.
		if m.loading {
			return m, nil
		}
		m.tasks = m.screen().Filter.Apply(msg.tasks)
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		title := m.input.Value()
		m.input.Reset()
		if strings.TrimSpace(title) == "" {
			return m, nil
		}
		return m, m.addCmd(title)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % len(m.screens))

	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.tab + len(m.screens) - 1) % len(m.screens))

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		if !m.screen().CanAdd {
			return m, nil
		}
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Toggle):
		return m, m.rowAction(view.Row.Toggle)

	case key.Matches(msg, m.keys.Delete):
		return m, m.rowAction(view.Row.Delete)
	}
	return m, nil
}

// rowAction runs act on the selected row and returns the command its
// handler produced, or nil when the row has no such affordance.
func (m Model) rowAction(act func(view.Row) bool) tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return nil
	}
	var cmd tea.Cmd
	rows := m.screen().Rows(m.tasks, m.cursor, view.Handlers{
		OnToggle: func(id int64) { cmd = m.toggleCmd(id) },
		OnDelete: func(id int64) { cmd = m.deleteCmd(id) },
	})
	act(rows[m.cursor])
	return cmd
}

// switchTab focuses another screen. The cached projection is shown at once
// and refreshed by the load the focus triggers.
func (m Model) switchTab(idx int) (tea.Model, tea.Cmd) {
	m.tab = idx
	m.cursor = 0
	m.input.Blur()
	m.tasks = m.store.View(m.screen().Filter)
	return m, m.loadCmd(idx)
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	tabs := make([]string, len(m.screens))
	for i, s := range m.screens {
		if i == m.tab {
			tabs[i] = activeTabStyle.Render(s.Title)
		} else {
			tabs[i] = inactiveTabStyle.Render(s.Title)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	screen := m.screen()
	switch {
	case m.loading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading tasks...\n")
	case len(m.tasks) == 0:
		b.WriteString(emptyStyle.Render(screen.Empty))
		b.WriteString("\n")
	default:
		rows := screen.Rows(m.tasks, m.cursor, view.Handlers{
			OnToggle: func(int64) {},
			OnDelete: func(int64) {},
		})
		for _, row := range rows {
			b.WriteString(row.Render())
			b.WriteString("\n")
		}
	}

	if screen.CanAdd {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("storage error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
