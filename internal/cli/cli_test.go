package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JamesPrial/todo-tabs/internal/cli"
	"github.com/JamesPrial/todo-tabs/internal/seed"
	"github.com/JamesPrial/todo-tabs/internal/task"
	"github.com/JamesPrial/todo-tabs/internal/ui"
)

const seedTwo = `[{"userId":1,"id":1,"title":"delectus aut autem","completed":false},` +
	`{"userId":1,"id":2,"title":"quis ut nam facilis","completed":false}]`

// env is an isolated command environment over a temp data dir.
type env struct {
	t       *testing.T
	dataDir string
	config  string
	tty     bool
	tuiRan  bool
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfg, nil, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &env{t: t, dataDir: filepath.Join(dir, "data"), config: cfg}
}

func (e *env) storeFile() string {
	return filepath.Join(e.dataDir, task.StoreKey+".json")
}

func (e *env) writeStore(contents string) {
	e.t.Helper()
	if err := os.MkdirAll(e.dataDir, 0o755); err != nil {
		e.t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(e.storeFile(), []byte(contents), 0o644); err != nil {
		e.t.Fatalf("write store: %v", err)
	}
}

func (e *env) readStore() string {
	e.t.Helper()
	data, err := os.ReadFile(e.storeFile())
	if err != nil {
		e.t.Fatalf("read store: %v", err)
	}
	return string(data)
}

// run executes the CLI and returns exit code, stdout and stderr.
func (e *env) run(args ...string) (int, string, string) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	opts := cli.Options{
		LookupEnv: func(string) (string, bool) { return "", false },
		Seed:      seed.Static(seedTwo),
		IsTTY:     func() bool { return e.tty },
		RunTUI: func(ctx context.Context, st ui.Store) error {
			e.tuiRan = true
			return nil
		},
	}
	full := append([]string{"--config", e.config, "--data-dir", e.dataDir}, args...)
	code := cli.Execute(context.Background(), opts, full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// ---------------------------------------------------------------------------
// Root
// ---------------------------------------------------------------------------

func Test_Root_NonTTYPrintsSeededActiveList(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	code, out, errOut := e.run()
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	for _, want := range []string{"Todo List", "delectus aut autem", "quis ut nam facilis"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	if e.readStore() != seedTwo {
		t.Errorf("seed not stored verbatim: %s", e.readStore())
	}
	if e.tuiRan {
		t.Error("TUI started without a terminal")
	}
}

func Test_Root_TTYStartsTUIWithFileLog(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.tty = true

	if code, _, errOut := e.run(); code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	if !e.tuiRan {
		t.Error("TUI not started")
	}
	if _, err := os.Stat(filepath.Join(e.dataDir, "todo.log")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func Test_Add_AppendsToStoredList(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.writeStore(`[{"id":1,"title":"A","completed":false}]`)

	code, out, errOut := e.run("add", "buy", "milk")
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "A") || !strings.Contains(out, "buy milk") {
		t.Errorf("stdout = %s", out)
	}

	tasks, err := task.Decode([]byte(e.readStore()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 2 || tasks[1].Title != "buy milk" || tasks[1].Completed {
		t.Errorf("stored = %+v", tasks)
	}
}

func Test_Add_BlankTitleLeavesStore(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	const stored = `[{"id":1,"title":"A","completed":false}]`
	e.writeStore(stored)

	if code, _, errOut := e.run("add", "   "); code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	if e.readStore() != stored {
		t.Errorf("stored = %s, want unchanged", e.readStore())
	}
}

func Test_Toggle_MovesToCompleted(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.writeStore(`[{"id":1,"title":"A","completed":false}]`)

	code, out, errOut := e.run("toggle", "1")
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "Nothing to do") {
		t.Errorf("active screen not empty:\n%s", out)
	}

	_, out, _ = e.run("list", "--completed")
	if !strings.Contains(out, "Completed Tasks") || !strings.Contains(out, "[x]") || !strings.Contains(out, "A") {
		t.Errorf("completed screen:\n%s", out)
	}
}

func Test_Delete_CompletedEmptiesStore(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.writeStore(`[{"id":1,"title":"A","completed":true}]`)

	code, out, errOut := e.run("delete", "--completed", "1")
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "No completed tasks yet") {
		t.Errorf("stdout = %s", out)
	}
	if e.readStore() != "[]" {
		t.Errorf("stored = %s, want []", e.readStore())
	}
}

func Test_Commands_ArgumentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"toggle non numeric", []string{"toggle", "abc"}, "invalid task id"},
		{"delete missing id", []string{"delete"}, "accepts 1 arg"},
		{"add without title", []string{"add"}, "requires at least 1 arg"},
		{"unknown backend", []string{"--backend", "redis", "list"}, "unknown storage backend"},
		{"root with args", []string{"stray"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newEnv(t)
			code, _, errOut := e.run(tt.args...)
			if code != 1 {
				t.Errorf("exit = %d, want 1", code)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr = %q, want substring %q", errOut, tt.wantErr)
			}
		})
	}
}

func Test_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stored   string
		wantCode int
		wantOut  string
	}{
		{"nothing stored", "", 0, "No tasks stored yet"},
		{"valid seeded list", seedTwo, 0, "valid"},
		{"empty title", `[{"id":1,"title":"","completed":false}]`, 1, "/0/title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newEnv(t)
			if tt.stored != "" {
				e.writeStore(tt.stored)
			}
			code, out, _ := e.run("check")
			if code != tt.wantCode {
				t.Errorf("exit = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("stdout = %q, want substring %q", out, tt.wantOut)
			}
		})
	}
}

func Test_Check_CorruptStoreFails(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.writeStore(`[{"id":`)

	code, _, errOut := e.run("check")
	if code != 1 || !strings.Contains(errOut, task.ErrMalformed.Error()) {
		t.Errorf("exit = %d stderr = %q", code, errOut)
	}
}
