package storage

import (
	"context"
	"errors"
	"time"

	"taskmanager/internal/models"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// CountFilter selects the tasks an aggregate count covers. Zero fields do not filter.
type CountFilter struct {
	Status    models.Status
	DueBefore *time.Time
}

// TaskRepository is the persistence contract used by the task service.
// Implementations store timestamps in UTC.
type TaskRepository interface {
	Create(ctx context.Context, task models.Task) (models.Task, error)
	Get(ctx context.Context, id string) (models.Task, error)
	List(ctx context.Context, query models.ListQuery) ([]models.Task, error)
	Update(ctx context.Context, task models.Task) (models.Task, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter CountFilter) (int64, error)
}

// Pinger is implemented by repositories that can report backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
