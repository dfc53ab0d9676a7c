package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/models"
	"taskmanager/internal/storage"
)

func seed(t *testing.T, s *Store, id, title string, status models.Status, priority models.Priority, created time.Time) models.Task {
	t.Helper()
	task, err := s.Create(context.Background(), models.Task{
		ID:        id,
		Title:     title,
		Status:    status,
		Priority:  priority,
		CreatedAt: created,
		UpdatedAt: created,
	})
	require.NoError(t, err)
	return task
}

func TestStoreListFiltersAndSorts(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seed(t, s, "a", "Alpha", models.StatusPending, models.PriorityHigh, base)
	seed(t, s, "b", "Bravo", models.StatusCompleted, models.PriorityHigh, base.Add(time.Hour))
	seed(t, s, "c", "Charlie", models.StatusPending, models.PriorityLow, base.Add(2*time.Hour))

	all, err := s.List(ctx, models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, ids(all), "default is createdAt desc")

	byPriority, err := s.List(ctx, models.ListQuery{SortBy: models.SortByPriority, Order: models.OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, "c", byPriority[0].ID, "LOW ranks before HIGH")

	pendingHigh, err := s.List(ctx, models.ListQuery{Status: models.StatusPending, Priority: models.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(pendingHigh))

	none, err := s.List(ctx, models.ListQuery{Status: models.StatusCompleted, Priority: models.PriorityLow})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStoreUpdateDeleteNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Update(ctx, models.Task{ID: "missing"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "missing"), storage.ErrNotFound)

	task := seed(t, s, "x", "Task", models.StatusPending, models.PriorityMedium, time.Now())
	require.NoError(t, s.Delete(ctx, task.ID))
	_, err = s.Get(ctx, task.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStoreCount(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)

	task := seed(t, s, "1", "Overdue", models.StatusPending, models.PriorityMedium, past)
	task.DueDate = &past
	_, err := s.Update(ctx, task)
	require.NoError(t, err)
	seed(t, s, "2", "Done", models.StatusCompleted, models.PriorityMedium, past)

	total, err := s.Count(ctx, storage.CountFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	overdue, err := s.Count(ctx, storage.CountFilter{Status: models.StatusPending, DueBefore: &now})
	require.NoError(t, err)
	assert.EqualValues(t, 1, overdue)
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}
