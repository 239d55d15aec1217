// Package store holds the shared, observable task list.
//
// Every screen and command reads projections of one Store. Load, Add, Toggle
// and Delete never return errors: failures are logged and the caller gets
// the last known projection, which is empty before the first successful
// load. Reload, AddTask, ToggleTask and DeleteTask do the same work and
// report the failure of that one call.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/JamesPrial/todo-tabs/internal/logging"
	"github.com/JamesPrial/todo-tabs/internal/seed"
	"github.com/JamesPrial/todo-tabs/internal/task"
)

// Listener receives the full task list after each successful load or
// mutation. It must not call Store mutations.
type Listener func(tasks []task.Task)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for suppressed failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source used for new ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the in-memory task list synchronized to a Repository.
type Store struct {
	repo   *task.Repository
	seed   seed.Source
	logger *log.Logger
	now    func() time.Time

	// opMu serializes read-transform-write cycles.
	opMu sync.Mutex

	mu        sync.Mutex
	tasks     []task.Task
	lastErr   error
	listeners map[int]Listener
	nextID    int
}

// New returns a Store over repo that seeds from src when the stored list is
// empty. src may be nil, in which case an empty store stays empty.
func New(repo *task.Repository, src seed.Source, opts ...Option) *Store {
	s := &Store{
		repo:      repo,
		seed:      src,
		logger:    logging.Discard(),
		now:       time.Now,
		tasks:     []task.Task{},
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ErrBlankTitle is returned by AddTask when the title is empty after
// trimming.
var ErrBlankTitle = errors.New("task title is blank")

// Load reads the stored list and returns the projection for filter.
//
// When the stored list is absent or empty it is replaced by the seed
// response, persisted byte for byte.
func (s *Store) Load(ctx context.Context, filter task.Filter) []task.Task {
	tasks, err := s.Reload(ctx)
	if err != nil {
		return s.View(filter)
	}
	return filter.Apply(tasks)
}

// Reload is Load returning the full list and the failure, if any, of this
// call.
func (s *Store) Reload(ctx context.Context) ([]task.Task, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	tasks, ok, err := s.repo.Load(ctx)
	if err != nil {
		return nil, s.fail("load", err)
	}
	if !ok || len(tasks) == 0 {
		tasks, err = s.importSeed(ctx)
		if err != nil {
			return nil, s.fail("seed", err)
		}
	}

	s.commit(tasks)
	return tasks, nil
}

func (s *Store) importSeed(ctx context.Context) ([]task.Task, error) {
	if s.seed == nil {
		return []task.Task{}, nil
	}
	raw, err := s.seed.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := task.Decode(raw)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveRaw(ctx, raw); err != nil {
		return nil, err
	}
	s.logger.Info("seeded task store", "count", len(tasks))
	return tasks, nil
}

// Add appends a new incomplete task and returns the Active projection. A
// blank title is ignored without touching storage.
func (s *Store) Add(ctx context.Context, title string) []task.Task {
	_, next, err := s.add(ctx, title)
	if err != nil {
		return s.View(task.Active)
	}
	return task.Active.Apply(next)
}

// AddTask is Add returning the created task.
func (s *Store) AddTask(ctx context.Context, title string) (task.Task, error) {
	created, _, err := s.add(ctx, title)
	return created, err
}

func (s *Store) add(ctx context.Context, title string) (task.Task, []task.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return task.Task{}, nil, ErrBlankTitle
	}
	var created task.Task
	next, err := s.mutate(ctx, "add", func(tasks []task.Task) []task.Task {
		created = task.New(task.NewID(s.now()), title)
		return task.Append(tasks, created)
	})
	if err != nil {
		return task.Task{}, nil, err
	}
	return created, next, nil
}

// Toggle flips completed on the task with id and returns the Active
// projection. An unknown id still rewrites the unchanged list.
func (s *Store) Toggle(ctx context.Context, id int64) []task.Task {
	_, next, _ := s.toggle(ctx, id)
	if next == nil {
		return s.View(task.Active)
	}
	return task.Active.Apply(next)
}

// ToggleTask is Toggle returning the task after the flip. An unknown id
// yields task.ErrNotFound after the unchanged list is written.
func (s *Store) ToggleTask(ctx context.Context, id int64) (task.Task, error) {
	toggled, _, err := s.toggle(ctx, id)
	return toggled, err
}

func (s *Store) toggle(ctx context.Context, id int64) (task.Task, []task.Task, error) {
	var (
		toggled task.Task
		found   bool
	)
	next, err := s.mutate(ctx, "toggle", func(tasks []task.Task) []task.Task {
		out := task.Toggle(tasks, id)
		toggled, found = task.Find(out, id)
		return out
	}, "id", id)
	if err != nil {
		return task.Task{}, nil, err
	}
	if !found {
		return task.Task{}, next, fmt.Errorf("%w: %d", task.ErrNotFound, id)
	}
	return toggled, next, nil
}

// Delete removes the task with id and returns the projection for filter.
func (s *Store) Delete(ctx context.Context, id int64, filter task.Filter) []task.Task {
	next, _ := s.remove(ctx, id)
	if next == nil {
		return s.View(filter)
	}
	return filter.Apply(next)
}

// DeleteTask is Delete returning the full remaining list. An unknown id
// yields task.ErrNotFound after the unchanged list is written.
func (s *Store) DeleteTask(ctx context.Context, id int64) ([]task.Task, error) {
	return s.remove(ctx, id)
}

func (s *Store) remove(ctx context.Context, id int64) ([]task.Task, error) {
	var found bool
	next, err := s.mutate(ctx, "delete", func(tasks []task.Task) []task.Task {
		_, found = task.Find(tasks, id)
		return task.Remove(tasks, id)
	}, "id", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return next, fmt.Errorf("%w: %d", task.ErrNotFound, id)
	}
	return next, nil
}

// mutate performs one full read, applies fn and performs one full write. A
// failed read skips the write.
func (s *Store) mutate(ctx context.Context, op string, fn func([]task.Task) []task.Task, keyvals ...any) ([]task.Task, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	tasks, _, err := s.repo.Load(ctx)
	if err != nil {
		return nil, s.fail(op, err, keyvals...)
	}
	next := fn(tasks)
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, s.fail(op, err, keyvals...)
	}

	s.commit(next)
	return next, nil
}

// fail logs err, records it for Err and returns it.
func (s *Store) fail(op string, err error, keyvals ...any) error {
	fields := append([]any{"op", op}, keyvals...)
	fields = append(fields, "err", err)
	s.logger.Error("task store operation failed", fields...)

	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}

func (s *Store) commit(tasks []task.Task) {
	s.mu.Lock()
	s.tasks = append([]task.Task{}, tasks...)
	s.lastErr = nil
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(append([]task.Task{}, tasks...))
	}
}

// View returns the projection of the last known list without touching
// storage.
func (s *Store) View(filter task.Filter) []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Apply(s.tasks)
}

// Snapshot returns a copy of the last known full list.
func (s *Store) Snapshot() []task.Task {
	return s.View(task.All)
}

// Err returns the failure suppressed by the most recent operation, or nil
// if it succeeded.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}
