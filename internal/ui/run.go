package ui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

// IsTTY reports whether both stdin and stdout are terminals.
func IsTTY() bool {
	return term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
}

// Run starts the full-screen program and blocks until the user quits or ctx
// is cancelled. Commits to st from any source refresh the focused tab.
func Run(ctx context.Context, st Store) error {
	p := tea.NewProgram(New(ctx, st), tea.WithAltScreen(), tea.WithContext(ctx))
	stop := Watch(st, p.Send)
	defer stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run terminal ui: %w", err)
	}
	return nil
}
