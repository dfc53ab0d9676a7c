package viewstate

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"taskmanager/internal/client"
	"taskmanager/internal/models"
)

// API is the part of the task client the view-state needs.
type API interface {
	ListTasks(ctx context.Context, query models.ListQuery) ([]models.Task, error)
	Stats(ctx context.Context) (models.Stats, error)
	CreateTask(ctx context.Context, in models.TaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	ToggleTask(ctx context.Context, id string) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

var _ API = (*client.Client)(nil)

// Refresh loads the list and the stats concurrently. Either failure fails the
// whole refresh so the state never mixes old and new data.
func Refresh(ctx context.Context, api API, query models.ListQuery) Action {
	var (
		tasks []models.Task
		stats models.Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = api.ListTasks(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = api.Stats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Failed{Message: errorMessage(err, "Failed to fetch tasks")}
	}
	return Loaded{Tasks: tasks, Stats: stats}
}

// RefreshStats reloads only the stats.
func RefreshStats(ctx context.Context, api API) Action {
	stats, err := api.Stats(ctx)
	if err != nil {
		return Failed{Message: errorMessage(err, "Failed to fetch task statistics")}
	}
	return StatsLoaded{Stats: stats}
}

func Create(ctx context.Context, api API, in models.TaskInput) Action {
	task, err := api.CreateTask(ctx, in)
	if err != nil {
		return Failed{Message: errorMessage(err, "Failed to create task")}
	}
	return Batch{TaskCreated{Task: task}, RefreshStats(ctx, api)}
}

// Update always refreshes stats, whatever fields the patch touched.
func Update(ctx context.Context, api API, id string, patch models.TaskPatch) Action {
	task, err := api.UpdateTask(ctx, id, patch)
	if err != nil {
		return Failed{Message: errorMessage(err, "Failed to update task")}
	}
	return Batch{TaskUpdated{Task: task}, RefreshStats(ctx, api)}
}

func Toggle(ctx context.Context, api API, id string) Action {
	task, err := api.ToggleTask(ctx, id)
	if err != nil {
		return Failed{Message: errorMessage(err, "Failed to toggle task status")}
	}
	return Batch{TaskUpdated{Task: task}, RefreshStats(ctx, api)}
}

func Delete(ctx context.Context, api API, id string) Action {
	if err := api.DeleteTask(ctx, id); err != nil {
		return Failed{Message: errorMessage(err, "Failed to delete task")}
	}
	return Batch{TaskRemoved{ID: id}, RefreshStats(ctx, api)}
}

// errorMessage prefers the server's message, then a network notice, then fallback.
func errorMessage(err error, fallback string) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, client.ErrNetwork):
		return "Network error or server unavailable"
	default:
		return fallback
	}
}
