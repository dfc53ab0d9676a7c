package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"taskmanager/internal/models"
	"taskmanager/internal/storage"
)

const dateOnly = "2006-01-02"

// Service implements the task operations on top of a repository.
type Service struct {
	repo   storage.TaskRepository
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// New builds a Service around repo.
func New(repo storage.TaskRepository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping reports whether the backing store is reachable. Stores that cannot
// be pinged always count as healthy.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.repo.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// ParseListQuery validates raw query string values. Empty values mean no filter or the default sort.
func ParseListQuery(status, priority, sortBy, order string) (models.ListQuery, error) {
	q := models.ListQuery{
		Status:   models.Status(status),
		Priority: models.Priority(priority),
		SortBy:   models.SortField(sortBy),
		Order:    models.SortOrder(strings.ToLower(order)),
	}
	if q.Status != "" && !q.Status.Valid() {
		return models.ListQuery{}, invalid("status", fmt.Sprintf("Invalid status %q", status))
	}
	if q.Priority != "" && !q.Priority.Valid() {
		return models.ListQuery{}, invalid("priority", fmt.Sprintf("Invalid priority %q", priority))
	}
	if q.SortBy != "" && !q.SortBy.Valid() {
		return models.ListQuery{}, invalid("sortBy", fmt.Sprintf("Invalid sort field %q", sortBy))
	}
	if q.Order != "" && !q.Order.Valid() {
		return models.ListQuery{}, invalid("order", fmt.Sprintf("Invalid sort order %q", order))
	}
	return q.Normalized(), nil
}

// List returns every task matching the query.
func (s *Service) List(ctx context.Context, query models.ListQuery) ([]models.Task, error) {
	tasks, err := s.repo.List(ctx, query.Normalized())
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Get returns one task.
func (s *Service) Get(ctx context.Context, id string) (models.Task, error) {
	if err := checkID(id); err != nil {
		return models.Task{}, err
	}
	return s.repo.Get(ctx, id)
}

// Create validates the input and stores a new pending task.
func (s *Service) Create(ctx context.Context, in models.TaskInput) (models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Task{}, invalid("title", "Title is required")
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return models.Task{}, invalid("priority", fmt.Sprintf("Invalid priority %q", in.Priority))
	}

	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return models.Task{}, err
	}

	now := s.now().UTC()
	task := models.Task{
		ID:          s.newID(),
		Title:       title,
		Description: trimmedOrNil(in.Description),
		Status:      models.StatusPending,
		Priority:    priority,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return models.Task{}, err
	}
	s.logger.Debug("task created", slog.String("id", created.ID))
	return created, nil
}

// Update applies the fields present in patch. An empty patch returns the task
// as stored without writing.
func (s *Service) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if err := checkID(id); err != nil {
		return models.Task{}, err
	}

	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if patch.Empty() {
		return task, nil
	}

	if title, ok := patch.Title.Get(); ok {
		title = strings.TrimSpace(title)
		if title == "" {
			return models.Task{}, invalid("title", "Title cannot be empty")
		}
		task.Title = title
	}
	if desc, ok := patch.Description.Get(); ok {
		task.Description = trimmedOrNil(desc)
	}
	if status, ok := patch.Status.Get(); ok {
		if !status.Valid() {
			return models.Task{}, invalid("status", fmt.Sprintf("Invalid status %q", status))
		}
		task.Status = status
	}
	if priority, ok := patch.Priority.Get(); ok {
		if !priority.Valid() {
			return models.Task{}, invalid("priority", fmt.Sprintf("Invalid priority %q", priority))
		}
		task.Priority = priority
	}
	if raw, ok := patch.DueDate.Get(); ok {
		due, err := parseDueDate(raw)
		if err != nil {
			return models.Task{}, err
		}
		task.DueDate = due
	}

	task.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, task)
}

// Toggle flips a task between PENDING and COMPLETED.
func (s *Service) Toggle(ctx context.Context, id string) (models.Task, error) {
	if err := checkID(id); err != nil {
		return models.Task{}, err
	}
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	task.Status = task.Status.Toggled()
	task.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, task)
}

// Delete removes a task for good.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("task deleted", slog.String("id", id))
	return nil
}

// Stats computes the overview counts. The four counts run concurrently and
// are not taken from a single snapshot.
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	now := s.now().UTC()
	var stats models.Stats

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, filter storage.CountFilter) {
		g.Go(func() error {
			n, err := s.repo.Count(gctx, filter)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(&stats.Total, storage.CountFilter{})
	count(&stats.Completed, storage.CountFilter{Status: models.StatusCompleted})
	count(&stats.Pending, storage.CountFilter{Status: models.StatusPending})
	count(&stats.Overdue, storage.CountFilter{Status: models.StatusPending, DueBefore: &now})

	if err := g.Wait(); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

func checkID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return invalid("id", "Invalid task id")
	}
	return nil
}

// parseDueDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates (UTC midnight).
// An empty string means no due date.
func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(dateOnly, raw); err == nil {
		return &t, nil
	}
	return nil, invalid("dueDate", fmt.Sprintf("Invalid due date %q", raw))
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
