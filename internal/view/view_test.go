package view_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/JamesPrial/todo-tabs/internal/seed"
	"github.com/JamesPrial/todo-tabs/internal/storage"
	"github.com/JamesPrial/todo-tabs/internal/store"
	"github.com/JamesPrial/todo-tabs/internal/task"
	"github.com/JamesPrial/todo-tabs/internal/view"
)

func newStore(t *testing.T, stored string) *store.Store {
	t.Helper()
	kv := storage.NewMemoryBackend()
	if stored != "" {
		if err := kv.Set(context.Background(), task.StoreKey, []byte(stored)); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return store.New(task.NewRepository(kv), seed.Static(`[{"id":1,"title":"seeded","completed":false}]`))
}

// ---------------------------------------------------------------------------
// Row
// ---------------------------------------------------------------------------

func Test_Row_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		row     view.Row
		want    []string
		notWant []string
	}{
		{
			name:    "active",
			row:     view.Row{Task: task.Task{ID: 1, Title: "buy milk"}},
			want:    []string{"[ ]", "buy milk"},
			notWant: []string{"[x]", ">", "✕"},
		},
		{
			name: "completed with delete",
			row: view.Row{
				Task:     task.Task{ID: 2, Title: "done thing", Completed: true},
				Handlers: view.Handlers{OnDelete: func(int64) {}},
			},
			want: []string{"[x]", "done thing", "✕"},
		},
		{
			name: "selected with id",
			row:  view.Row{Task: task.Task{ID: 77, Title: "pick me"}, Selected: true, ShowID: true},
			want: []string{">", "77", "pick me"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.row.Render()
			if strings.Contains(got, "\n") {
				t.Errorf("Render() spans lines: %q", got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Render() = %q, missing %q", got, w)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("Render() = %q, unexpected %q", got, nw)
				}
			}
		})
	}
}

func Test_Row_HandlersDelegate(t *testing.T) {
	t.Parallel()
	var toggled, deleted int64
	row := view.Row{
		Task: task.Task{ID: 5},
		Handlers: view.Handlers{
			OnToggle: func(id int64) { toggled = id },
			OnDelete: func(id int64) { deleted = id },
		},
	}

	if !row.Toggle() || toggled != 5 {
		t.Errorf("Toggle() did not delegate, got id %d", toggled)
	}
	if !row.Delete() || deleted != 5 {
		t.Errorf("Delete() did not delegate, got id %d", deleted)
	}
	if (view.Row{}).Toggle() {
		t.Error("Toggle() with nil handler reported true")
	}
}

// ---------------------------------------------------------------------------
// Screen
// ---------------------------------------------------------------------------

func Test_Screen_Rows_CompletedToggleIsInert(t *testing.T) {
	t.Parallel()
	calls := 0
	h := view.Handlers{OnToggle: func(int64) { calls++ }, OnDelete: func(int64) {}}
	tasks := []task.Task{{ID: 1, Title: "A", Completed: true}}

	rows := view.Completed.Rows(tasks, 0, h)
	if rows[0].Toggle() {
		t.Error("completed row toggle ran")
	}
	if !rows[0].Delete() {
		t.Error("completed row delete did not run")
	}
	if !rows[0].Selected {
		t.Error("row 0 not selected")
	}

	view.Active.Rows(tasks, -1, h)[0].Toggle()
	if calls != 1 {
		t.Errorf("active toggle calls = %d, want 1", calls)
	}
}

func Test_Screen_Toggle_ActiveMovesToCompleted(t *testing.T) {
	t.Parallel()
	st := newStore(t, `[{"id":1,"title":"A","completed":false}]`)
	ctx := context.Background()

	if got := view.Active.Load(ctx, st); len(got) != 1 {
		t.Fatalf("Active rows = %d, want 1", len(got))
	}
	if got := view.Active.Toggle(ctx, st, 1); len(got) != 0 {
		t.Errorf("Active after toggle = %d rows, want 0", len(got))
	}
	completed := view.Completed.Load(ctx, st)
	if len(completed) != 1 || completed[0].Title != "A" {
		t.Errorf("Completed = %+v, want [A]", completed)
	}
}

func Test_Screen_Toggle_CompletedIsNoOp(t *testing.T) {
	t.Parallel()
	st := newStore(t, `[{"id":1,"title":"A","completed":true}]`)
	ctx := context.Background()
	view.Completed.Load(ctx, st)

	got := view.Completed.Toggle(ctx, st, 1)
	if len(got) != 1 || !got[0].Completed {
		t.Errorf("Completed after toggle = %+v, want unchanged", got)
	}
	if active := view.Active.Load(ctx, st); len(active) != 0 {
		t.Errorf("Active = %+v, want empty", active)
	}
}

func Test_Screen_Add_OnlyActive(t *testing.T) {
	t.Parallel()
	st := newStore(t, `[{"id":1,"title":"A","completed":false}]`)
	ctx := context.Background()

	if got := view.Active.Add(ctx, st, "B"); len(got) != 2 {
		t.Errorf("Active after add = %d rows, want 2", len(got))
	}
	view.Completed.Add(ctx, st, "C")
	if got := len(st.Snapshot()); got != 2 {
		t.Errorf("store len = %d after completed add, want 2", got)
	}
}

func Test_Screen_Delete_CompletedShowsEmptyState(t *testing.T) {
	t.Parallel()
	st := newStore(t, `[{"id":1,"title":"A","completed":true}]`)
	ctx := context.Background()

	tasks := view.Completed.Delete(ctx, st, 1)
	var buf bytes.Buffer
	if err := view.Completed.Render(&buf, tasks); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Completed Tasks") || !strings.Contains(out, "No completed tasks yet") {
		t.Errorf("Render() = %q", out)
	}
}

func Test_Screen_Render_ListsRowsWithIDs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	tasks := []task.Task{{ID: 11, Title: "A"}, {ID: 12, Title: "B"}}
	if err := view.Active.Render(&buf, tasks); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want title + 2 rows: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "Todo List") {
		t.Errorf("title line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "11") || !strings.Contains(lines[2], "B") {
		t.Errorf("rows = %q", lines[1:])
	}
	if strings.Contains(buf.String(), "Nothing to do") {
		t.Error("empty text shown for non-empty list")
	}
}

func Test_ScreenFor(t *testing.T) {
	t.Parallel()
	if view.ScreenFor(task.Completed).Title != "Completed Tasks" {
		t.Error("ScreenFor(Completed) wrong screen")
	}
	if view.ScreenFor(task.All).Title != "Todo List" {
		t.Error("ScreenFor(All) wrong screen")
	}
	if len(view.Screens()) != 2 {
		t.Error("Screens() want 2 tabs")
	}
}
