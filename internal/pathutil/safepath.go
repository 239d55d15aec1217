// Package pathutil keeps user-supplied storage paths inside the data directory.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEscapesBase is returned when a path resolves outside its base directory.
var ErrEscapesBase = errors.New("path escapes base directory")

// ResolveSafePath resolves userPath against baseDir and guarantees the result
// stays inside baseDir once symlinks are followed.
//
// Relative paths are joined onto baseDir; absolute paths are accepted only if
// they already point inside it. Neither baseDir nor userPath has to exist yet:
// the longest existing prefix is resolved and the missing tail re-attached,
// so a fresh data directory on first launch is handled the same as an
// existing one.
//
// Returns an error if userPath is blank, contains a null byte, or escapes
// baseDir (directly or through a symlink).
func ResolveSafePath(baseDir, userPath string) (string, error) {
	if strings.TrimSpace(userPath) == "" {
		return "", fmt.Errorf("path is empty or whitespace-only")
	}
	if strings.ContainsRune(userPath, 0) {
		return "", fmt.Errorf("path contains null byte")
	}

	candidate := userPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(baseDir, candidate)
	}

	resolved, err := resolveLenient(filepath.Clean(candidate))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", userPath, err)
	}

	base, err := resolveLenient(filepath.Clean(baseDir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	if !within(base, resolved) {
		return "", fmt.Errorf("%w: %s", ErrEscapesBase, userPath)
	}

	return resolved, nil
}

// within reports whether target equals base or lies below it.
func within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolveLenient follows symlinks in the longest existing prefix of path and
// appends the components that do not exist yet.
func resolveLenient(path string) (string, error) {
	var missing []string
	current := path

	for {
		if _, err := os.Lstat(current); err == nil {
			real, err := filepath.EvalSymlinks(current)
			if err != nil {
				return "", err
			}
			for i := len(missing) - 1; i >= 0; i-- {
				real = filepath.Join(real, missing[i])
			}
			return real, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing parent directory for %s", path)
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}
