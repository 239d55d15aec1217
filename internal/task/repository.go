package task

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JamesPrial/todo-tabs/internal/storage"
)

// StoreKey is the single key under which the whole task array is persisted.
const StoreKey = "tasks"

// ErrMalformed is returned when the stored value is not a JSON array.
var ErrMalformed = errors.New("malformed task list")

// Repository reads and writes the full task array through a KVStore.
//
// There is no partial-update path: callers load the whole array, transform
// it, and save the whole array back.
type Repository struct {
	kv  storage.KVStore
	key string
}

// NewRepository returns a Repository storing the list under StoreKey.
func NewRepository(kv storage.KVStore) *Repository {
	return &Repository{kv: kv, key: StoreKey}
}

// Raw returns the stored bytes without decoding them.
func (r *Repository) Raw(ctx context.Context) ([]byte, bool, error) {
	data, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", r.key, err)
	}
	return data, ok, nil
}

// Load returns the stored task array.
//
// The boolean is false when the key is absent or holds an empty value; in
// that case the slice is empty. A stored JSON null decodes to an empty list
// with ok true. Records are not validated beyond what decoding requires.
//
// Returns ErrMalformed (wrapped) if the value cannot be decoded.
func (r *Repository) Load(ctx context.Context) ([]Task, bool, error) {
	data, ok, err := r.Raw(ctx)
	if err != nil {
		return nil, false, err
	}
	if !ok || len(data) == 0 {
		return []Task{}, false, nil
	}

	tasks, err := Decode(data)
	if err != nil {
		return nil, true, err
	}
	return tasks, true, nil
}

// Save encodes tasks and replaces the stored array.
func (r *Repository) Save(ctx context.Context, tasks []Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	return r.SaveRaw(ctx, data)
}

// SaveRaw stores data verbatim. Used for the seed import, which persists the
// remote response without transformation.
func (r *Repository) SaveRaw(ctx context.Context, data []byte) error {
	if err := r.kv.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.key, err)
	}
	return nil
}

// Decode parses a stored task array. Only the array itself must be well
// formed: elements that do not decode as tasks (wrong field types, null,
// non-objects) come back as opaque tasks.
func Decode(data []byte) ([]Task, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	tasks := make([]Task, 0, len(elems))
	for _, raw := range elems {
		tasks = append(tasks, decodeElement(raw))
	}
	return tasks, nil
}

func decodeElement(raw json.RawMessage) Task {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Opaque(raw)
	}
	var t Task
	if err := json.Unmarshal(raw, &t); err != nil {
		return Opaque(raw)
	}
	return t
}

// Encode serializes tasks as a JSON array. A nil slice encodes as [].
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}
