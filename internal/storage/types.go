// Package storage provides the key-value persistence layer for the task list.
//
// The application keeps its whole state under a handful of string keys, each
// holding an opaque byte value (in practice a JSON document). All storage
// backends must implement the KVStore interface to be usable by the task
// repository.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidKey is returned when a key is empty or contains characters that
// cannot be mapped onto every backend (file names, table rows).
var ErrInvalidKey = errors.New("invalid storage key")

// keyPattern restricts keys to a portable subset. Keys become file names in the
// JSON backend, so path separators and dots are rejected.
var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,128}$`)

// KVStore defines the contract for key-value persistence.
//
// Values are stored and returned verbatim; backends never interpret them.
// Implementations should make Set atomic so that a crash mid-write leaves
// either the old or the new value in place.
type KVStore interface {
	// Get returns the value stored under key.
	//
	// The boolean reports whether the key exists. A missing key is not an
	// error: Get returns (nil, false, nil).
	//
	// Returns an error if the backend cannot be read.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set replaces the value stored under key.
	//
	// Returns an error if the value cannot be written. On error the previous
	// value must remain readable.
	Set(ctx context.Context, key string, value []byte) error
}

// ValidateKey checks that key is usable with every backend.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
