package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/JamesPrial/todo-tabs/internal/logging"
)

func Test_ParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"debug", log.DebugLevel, false},
		{" WARN ", log.WarnLevel, false},
		{"warning", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", log.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := logging.ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func Test_New_WritesPrefixAndFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	opts := logging.DefaultOptions()
	opts.ReportTimestamp = false
	logger := logging.New(&buf, opts)

	logger.Error("toggle failed", "id", 7)

	out := buf.String()
	for _, want := range []string{"ERRO", "todo", "toggle failed", "id=7"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func Test_New_RespectsLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	opts := logging.DefaultOptions()
	opts.Level = log.WarnLevel
	logger := logging.New(&buf, opts)

	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
}

func Test_OpenFile_CreatesDirectoryAndAppends(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "todo.log")

	logger, closer, err := logging.OpenFile(path, logging.DefaultOptions())
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	logger.Info("seeded", "count", 5)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "seeded") {
		t.Errorf("log file = %q, want seeded line", data)
	}
}
