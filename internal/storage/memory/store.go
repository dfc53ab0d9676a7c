package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"taskmanager/internal/models"
	"taskmanager/internal/storage"
)

// Store keeps tasks in process memory. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
}

var _ storage.TaskRepository = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{tasks: make(map[string]models.Task)}
}

// Create stores a new task.
func (s *Store) Create(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID]; exists {
		return models.Task{}, fmt.Errorf("insert task: duplicate id %s", task.ID)
	}
	task = normalize(task)
	s.tasks[task.ID] = task
	return clone(task), nil
}

// Get returns a task by id.
func (s *Store) Get(_ context.Context, id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	return clone(task), nil
}

// List returns the tasks matching the query in the requested order.
func (s *Store) List(_ context.Context, query models.ListQuery) ([]models.Task, error) {
	query = query.Normalized()

	s.mu.RLock()
	out := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if query.Status != "" && task.Status != query.Status {
			continue
		}
		if query.Priority != "" && task.Priority != query.Priority {
			continue
		}
		out = append(out, clone(task))
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b models.Task) int {
		c := compareBy(query.SortBy, a, b)
		if query.Order == models.OrderDesc {
			c = -c
		}
		if c == 0 {
			c = b.CreatedAt.Compare(a.CreatedAt)
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		return c
	})
	return out, nil
}

// Update overwrites the mutable columns of an existing task.
func (s *Store) Update(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.tasks[task.ID]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	task = normalize(task)
	current.Title = task.Title
	current.Description = task.Description
	current.Status = task.Status
	current.Priority = task.Priority
	current.DueDate = task.DueDate
	current.UpdatedAt = task.UpdatedAt
	s.tasks[task.ID] = current
	return clone(current), nil
}

// Delete removes a task permanently.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// Count returns how many tasks match the filter.
func (s *Store) Count(_ context.Context, filter storage.CountFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, task := range s.tasks {
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.DueBefore != nil && (task.DueDate == nil || !task.DueDate.Before(*filter.DueBefore)) {
			continue
		}
		n++
	}
	return n, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

func compareBy(field models.SortField, a, b models.Task) int {
	switch field {
	case models.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case models.SortByDueDate:
		// nulls sort last ascending, like Postgres
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		return a.DueDate.Compare(*b.DueDate)
	case models.SortByPriority:
		return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
	case models.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func normalize(task models.Task) models.Task {
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	if task.DueDate != nil {
		due := task.DueDate.UTC()
		task.DueDate = &due
	}
	return task
}

// clone detaches pointer fields so callers cannot mutate stored rows.
func clone(task models.Task) models.Task {
	if task.Description != nil {
		d := *task.Description
		task.Description = &d
	}
	if task.DueDate != nil {
		due := *task.DueDate
		task.DueDate = &due
	}
	return task
}
