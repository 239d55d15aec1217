package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// JSONBackend implements KVStore using one file per key.
//
// The value for key "tasks" lives in <Dir>/tasks.json, so the stored task
// array can be inspected with any text editor. Writes go through a temporary
// file and os.Rename to prevent torn files.
type JSONBackend struct {
	// Dir is the absolute path of the directory holding the key files.
	Dir string
}

// NewJSONBackend creates a new JSONBackend rooted at dir.
//
// The directory is created lazily on the first Set.
func NewJSONBackend(dir string) *JSONBackend {
	return &JSONBackend{
		Dir: dir,
	}
}

// Path returns the file path used for key.
func (b *JSONBackend) Path(key string) string {
	return filepath.Join(b.Dir, key+".json")
}

// Get reads the file for key.
//
// Returns (nil, false, nil) if the file doesn't exist. Unlike the SQL
// backends there is no schema to initialize, so a missing directory is
// treated the same as a missing key.
func (b *JSONBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(b.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return data, true, nil
}

// Set atomically replaces the file for key.
//
// Creates the directory if needed, writes value to a temporary file in the
// same directory and renames it over the target. A trailing newline is not
// added; the value is stored byte-for-byte.
func (b *JSONBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(b.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(value)
	closeErr := tmpFile.Close()

	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, writeErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", key, closeErr)
	}

	if err := os.Rename(tmpPath, b.Path(key)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}

	return nil
}
