package pathutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JamesPrial/todo-tabs/internal/pathutil"
)

// resolvedTempDir returns t.TempDir() with symlinks resolved (macOS puts temp
// dirs behind /private).
func resolvedTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks(TempDir): %v", err)
	}
	return dir
}

// ---------------------------------------------------------------------------
// ResolveSafePath
// ---------------------------------------------------------------------------

func Test_ResolveSafePath_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setup    func(t *testing.T, base string)
		userPath func(base string) string
		wantRel  string // expected path relative to base; ignored when wantErr
		wantErr  bool
	}{
		{
			name:     "relative file in base",
			userPath: func(string) string { return "tasks.db" },
			wantRel:  "tasks.db",
		},
		{
			name:     "nested path that does not exist yet",
			userPath: func(string) string { return "a/b/c/tasks.db" },
			wantRel:  filepath.Join("a", "b", "c", "tasks.db"),
		},
		{
			name:     "absolute path inside base",
			userPath: func(base string) string { return filepath.Join(base, "store") },
			wantRel:  "store",
		},
		{
			name:     "dot resolves to base",
			userPath: func(string) string { return "." },
			wantRel:  ".",
		},
		{
			name:     "redundant separators are cleaned",
			userPath: func(string) string { return "./x//y/../tasks.json" },
			wantRel:  filepath.Join("x", "tasks.json"),
		},
		{
			name: "symlink inside base",
			setup: func(t *testing.T, base string) {
				t.Helper()
				mustMkdirAll(t, filepath.Join(base, "real"))
				if err := os.Symlink(filepath.Join(base, "real"), filepath.Join(base, "link")); err != nil {
					t.Skipf("symlinks unsupported: %v", err)
				}
			},
			userPath: func(string) string { return "link/tasks.db" },
			wantRel:  filepath.Join("real", "tasks.db"),
		},
		{
			name:     "parent traversal",
			userPath: func(string) string { return "../outside.db" },
			wantErr:  true,
		},
		{
			name:     "traversal in the middle",
			userPath: func(string) string { return "a/../../outside.db" },
			wantErr:  true,
		},
		{
			name:     "absolute path outside base",
			userPath: func(base string) string { return filepath.Join(filepath.Dir(base), "elsewhere") },
			wantErr:  true,
		},
		{
			name: "symlink escaping base",
			setup: func(t *testing.T, base string) {
				t.Helper()
				outside := t.TempDir()
				if err := os.Symlink(outside, filepath.Join(base, "escape")); err != nil {
					t.Skipf("symlinks unsupported: %v", err)
				}
			},
			userPath: func(string) string { return "escape/tasks.db" },
			wantErr:  true,
		},
		{
			name:     "empty",
			userPath: func(string) string { return "" },
			wantErr:  true,
		},
		{
			name:     "whitespace",
			userPath: func(string) string { return "  \t " },
			wantErr:  true,
		},
		{
			name:     "null byte",
			userPath: func(string) string { return "tasks\x00.db" },
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			base := resolvedTempDir(t)
			if tt.setup != nil {
				tt.setup(t, base)
			}

			got, err := pathutil.ResolveSafePath(base, tt.userPath(base))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ResolveSafePath() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveSafePath() unexpected error: %v", err)
			}
			want := filepath.Join(base, tt.wantRel)
			if got != want {
				t.Errorf("ResolveSafePath() = %q, want %q", got, want)
			}
		})
	}
}

func Test_ResolveSafePath_BaseDoesNotExistYet(t *testing.T) {
	t.Parallel()
	base := filepath.Join(resolvedTempDir(t), "fresh", "data")

	got, err := pathutil.ResolveSafePath(base, "tasks.db")
	if err != nil {
		t.Fatalf("ResolveSafePath() error = %v", err)
	}
	if want := filepath.Join(base, "tasks.db"); got != want {
		t.Errorf("ResolveSafePath() = %q, want %q", got, want)
	}
}

func Test_ResolveSafePath_EscapeErrorIsTyped(t *testing.T) {
	t.Parallel()
	_, err := pathutil.ResolveSafePath(resolvedTempDir(t), "../x")
	if !errors.Is(err, pathutil.ErrEscapesBase) {
		t.Fatalf("error = %v, want ErrEscapesBase", err)
	}
	if !strings.Contains(err.Error(), "../x") {
		t.Errorf("error %q does not name the offending path", err)
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("MkdirAll(%q): %v", path, err)
	}
}
