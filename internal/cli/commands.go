package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JamesPrial/todo-tabs/internal/task"
	"github.com/JamesPrial/todo-tabs/internal/view"
)

func newListCmd(r *runner) *cobra.Command {
	var completed bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the active or completed tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := r.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			screen := screenFlag(completed)
			return printScreen(cmd, screen, screen.Load(cmd.Context(), a.Store))
		},
	}
	cmd.Flags().BoolVarP(&completed, "completed", "c", false, "show completed tasks")
	return cmd
}

func newAddCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task to the active list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			screen := view.Active
			screen.Load(cmd.Context(), a.Store)
			tasks := screen.Add(cmd.Context(), a.Store, strings.Join(args, " "))
			return printScreen(cmd, screen, tasks)
		},
	}
}

func newToggleCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark an active task complete (or a completed one active again)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := r.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			screen := view.Active
			screen.Load(cmd.Context(), a.Store)
			return printScreen(cmd, screen, screen.Toggle(cmd.Context(), a.Store, id))
		},
	}
}

func newDeleteCmd(r *runner) *cobra.Command {
	var completed bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task permanently",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := r.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			screen := screenFlag(completed)
			screen.Load(cmd.Context(), a.Store)
			return printScreen(cmd, screen, screen.Delete(cmd.Context(), a.Store, id))
		},
	}
	cmd.Flags().BoolVarP(&completed, "completed", "c", false, "print the completed screen afterwards")
	return cmd
}

func newCheckCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the stored task list against its schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := r.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			raw, ok, err := a.Repo.Raw(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok || len(raw) == 0 {
				fmt.Fprintln(out, "No tasks stored yet")
				return nil
			}

			result, err := task.Validate(raw)
			if err != nil {
				return err
			}
			if result.Valid {
				fmt.Fprintln(out, "Stored task list is valid")
				return nil
			}
			for _, p := range result.Problems {
				fmt.Fprintln(out, p.String())
			}
			return fmt.Errorf("stored task list has %d problem(s)", len(result.Problems))
		},
	}
}

func screenFlag(completed bool) view.Screen {
	if completed {
		return view.ScreenFor(task.Completed)
	}
	return view.ScreenFor(task.Active)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: must be an integer", s)
	}
	return id, nil
}
