package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskmanager/internal/models"
	"taskmanager/internal/storage"
)

var _ storage.TaskRepository = (*Store)(nil)

var sortColumns = map[models.SortField]string{
	models.SortByCreatedAt: "created_at",
	models.SortByUpdatedAt: "updated_at",
	models.SortByDueDate:   "due_date",
	models.SortByTitle:     "title",
}

const priorityRankExpr = "CASE priority WHEN 'LOW' THEN 0 WHEN 'MEDIUM' THEN 1 WHEN 'HIGH' THEN 2 END"

// Create inserts a task and returns the stored row.
func (s *Store) Create(ctx context.Context, task models.Task) (models.Task, error) {
	task = normalize(task)
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return s.Get(ctx, task.ID)
}

// Get returns a task by id.
func (s *Store) Get(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return normalize(task), nil
}

// List returns the tasks matching the query in the requested order.
func (s *Store) List(ctx context.Context, query models.ListQuery) ([]models.Task, error) {
	query = query.Normalized()

	tx := s.db.WithContext(ctx).Model(&models.Task{})
	if query.Status != "" {
		tx = tx.Where("status = ?", query.Status)
	}
	if query.Priority != "" {
		tx = tx.Where("priority = ?", query.Priority)
	}
	for _, clause := range orderClauses(query) {
		tx = tx.Order(clause)
	}

	var tasks []models.Task
	if err := tx.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	for i := range tasks {
		tasks[i] = normalize(tasks[i])
	}
	return tasks, nil
}

// Update overwrites the mutable columns of an existing task.
func (s *Store) Update(ctx context.Context, task models.Task) (models.Task, error) {
	task = normalize(task)
	res := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"priority":    task.Priority,
			"due_date":    task.DueDate,
			"updated_at":  task.UpdatedAt,
		})
	if res.Error != nil {
		return models.Task{}, fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Task{}, storage.ErrNotFound
	}
	return s.Get(ctx, task.ID)
}

// Delete removes a task permanently.
func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Count returns how many tasks match the filter.
func (s *Store) Count(ctx context.Context, filter storage.CountFilter) (int64, error) {
	tx := s.db.WithContext(ctx).Model(&models.Task{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.DueBefore != nil {
		tx = tx.Where("due_date IS NOT NULL AND due_date < ?", filter.DueBefore.UTC())
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func orderClauses(query models.ListQuery) []string {
	dir := "ASC"
	if query.Order == models.OrderDesc {
		dir = "DESC"
	}

	var primary []string
	switch query.SortBy {
	case models.SortByPriority:
		primary = []string{priorityRankExpr + " " + dir}
	case models.SortByDueDate:
		// tasks without a due date go last ascending, first descending
		if dir == "ASC" {
			primary = []string{"due_date IS NULL", "due_date ASC"}
		} else {
			primary = []string{"due_date IS NULL DESC", "due_date DESC"}
		}
	default:
		col, ok := sortColumns[query.SortBy]
		if !ok {
			col = "created_at"
		}
		primary = []string{col + " " + dir}
	}
	return append(primary, "created_at DESC", "id ASC")
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
