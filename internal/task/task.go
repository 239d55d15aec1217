// Package task defines the Task entity, the pure list transforms applied by
// every mutation, and the repository that persists the list under one key.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Task is a titled, completable, deletable unit of work.
//
// The JSON form is {id, title, completed}. Any other fields found in stored
// records (the seed endpoint adds userId) are kept in extra and written back
// unchanged, so a read-transform-write cycle never drops data it does not
// understand.
//
// A stored element that does not decode as a task at all is kept as an
// opaque Task: it is written back byte for byte, matches no filter and
// no id.
type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`

	extra map[string]json.RawMessage
	raw   json.RawMessage
}

// knownFields are decoded into struct fields rather than extra.
var knownFields = map[string]bool{"id": true, "title": true, "completed": true}

// New returns an incomplete task with a trimmed title and the given id.
func New(id int64, title string) Task {
	return Task{ID: id, Title: strings.TrimSpace(title)}
}

// NewID derives an id from wall-clock time in milliseconds since the Unix
// epoch. Uniqueness is not checked: two tasks created in the same millisecond
// share an id.
func NewID(now time.Time) int64 {
	return now.UnixMilli()
}

// Opaque wraps a stored element that could not be decoded.
func Opaque(raw json.RawMessage) Task {
	kept := make(json.RawMessage, len(raw))
	copy(kept, raw)
	return Task{raw: kept}
}

// IsOpaque reports whether t holds an undecodable stored element.
func (t Task) IsOpaque() bool {
	return t.raw != nil
}

// Extra returns the raw value of an unknown field preserved from storage.
func (t Task) Extra(name string) (json.RawMessage, bool) {
	v, ok := t.extra[name]
	return v, ok
}

// UnmarshalJSON decodes the known fields and keeps everything else verbatim.
func (t *Task) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	type plain Task
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*t = Task(decoded)

	t.extra = nil
	for name, raw := range fields {
		if knownFields[name] {
			continue
		}
		if t.extra == nil {
			t.extra = make(map[string]json.RawMessage)
		}
		t.extra[name] = raw
	}
	return nil
}

// MarshalJSON writes preserved unknown fields first, then id, title and
// completed, matching the key order of records from the seed endpoint.
func (t Task) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if t.raw != nil {
		if err := json.Compact(&buf, t.raw); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	buf.WriteByte('{')

	names := make([]string, 0, len(t.extra))
	for name := range t.extra {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := writeField(&buf, name, t.extra[name]); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}

	title, err := json.Marshal(t.Title)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, `"id":%d,"title":%s,"completed":%t}`, t.ID, title, t.Completed)
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, name string, raw json.RawMessage) error {
	key, err := json.Marshal(name)
	if err != nil {
		return err
	}
	buf.Write(key)
	buf.WriteByte(':')
	if len(raw) == 0 {
		buf.WriteString("null")
		return nil
	}
	return json.Compact(buf, raw)
}
