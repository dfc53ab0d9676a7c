package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/models"
)

func filledForm(title, due string) Form {
	f := NewForm()
	f.title.SetValue(title)
	f.dueDate.SetValue(due)
	return f
}

func TestFormValidate(t *testing.T) {
	now := time.Date(2026, 4, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		title    string
		due      string
		titleErr string
		dueErr   string
	}{
		{"valid", "Buy milk", "", "", ""},
		{"blank title", "   ", "", "Title is required", ""},
		{"short title after trim", "  ab  ", "", "Title must be at least 3 characters", ""},
		{"due today", "Buy milk", "2026-04-15", "", ""},
		{"due yesterday", "Buy milk", "2026-04-14", "", "Due date cannot be in the past"},
		{"bad date", "Buy milk", "15/04/2026", "", "Due date must be YYYY-MM-DD"},
		{"both wrong", "", "2020-01-01", "Title is required", "Due date cannot be in the past"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, ok := filledForm(tc.title, tc.due).Validate(now)
			assert.Equal(t, tc.titleErr == "" && tc.dueErr == "", ok)
			assert.Equal(t, tc.titleErr, f.Error(fieldTitle))
			assert.Equal(t, tc.dueErr, f.Error(fieldDueDate))
		})
	}
}

func TestFormPayloads(t *testing.T) {
	f := filledForm("  Pay rent ", "2026-05-01")
	f.description.SetValue("  ")
	f = f.CyclePriority(1)

	in := f.Input()
	assert.Equal(t, models.TaskInput{Title: "Pay rent", Priority: models.PriorityHigh, DueDate: "2026-05-01"}, in)

	desc := "landlord"
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	edit := EditForm(models.Task{ID: "t1", Title: "Pay rent", Description: &desc, Priority: models.PriorityLow, DueDate: &due})
	require.True(t, edit.Editing())
	edit.dueDate.SetValue("")

	patch := edit.Patch()
	assert.Equal(t, models.Some("Pay rent"), patch.Title)
	assert.Equal(t, models.Some("landlord"), patch.Description)
	assert.Equal(t, models.Some(models.PriorityLow), patch.Priority)
	assert.Equal(t, models.Some(""), patch.DueDate, "cleared field is sent so the server clears it")
	assert.False(t, patch.Status.Set)
}

func TestFormCyclePriorityWraps(t *testing.T) {
	f := NewForm()
	assert.Equal(t, models.PriorityHigh, f.CyclePriority(1).priority)
	assert.Equal(t, models.PriorityLow, f.CyclePriority(-1).priority)
	assert.Equal(t, models.PriorityLow, f.CyclePriority(2).priority)
	assert.Equal(t, models.PriorityHigh, f.CyclePriority(-2).priority)
}

func TestDueStateOf(t *testing.T) {
	now := time.Date(2026, 4, 15, 18, 0, 0, 0, time.UTC)
	at := func(d time.Time) *time.Time { return &d }

	tests := []struct {
		name string
		task models.Task
		want DueState
	}{
		{"no due date", models.Task{Status: models.StatusPending}, DueNone},
		{"yesterday", models.Task{Status: models.StatusPending, DueDate: at(now.Add(-24 * time.Hour))}, DueOverdue},
		{"earlier today is not overdue", models.Task{Status: models.StatusPending, DueDate: at(time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC))}, DueSoon},
		{"within a day", models.Task{Status: models.StatusPending, DueDate: at(now.Add(23 * time.Hour))}, DueSoon},
		{"next week", models.Task{Status: models.StatusPending, DueDate: at(now.Add(7 * 24 * time.Hour))}, DueLater},
		{"completed overdue", models.Task{Status: models.StatusCompleted, DueDate: at(now.Add(-48 * time.Hour))}, DueNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DueStateOf(tc.task, now))
		})
	}
}

func TestDueStateUsesCalendarDateWestOfUTC(t *testing.T) {
	now := time.Date(2026, 4, 15, 18, 0, 0, 0, time.FixedZone("EST", -5*60*60))
	today := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	yesterday := today.Add(-24 * time.Hour)

	assert.Equal(t, DueSoon, DueStateOf(models.Task{Status: models.StatusPending, DueDate: &today}, now))
	assert.Equal(t, DueOverdue, DueStateOf(models.Task{Status: models.StatusPending, DueDate: &yesterday}, now))

	out := renderCard(DefaultStyles(), models.Task{Title: "Pay rent", Status: models.StatusPending, DueDate: &today, CreatedAt: now}, now, false, 60)
	assert.Contains(t, out, "Due: Apr 15, 2026")
}

func TestRenderCardMarksOverdue(t *testing.T) {
	now := time.Date(2026, 4, 15, 18, 0, 0, 0, time.UTC)
	due := now.Add(-72 * time.Hour)
	out := renderCard(DefaultStyles(), models.Task{Title: "Pay rent", Priority: models.PriorityHigh, Status: models.StatusPending, DueDate: &due, CreatedAt: now}, now, false, 60)
	assert.Contains(t, out, "Pay rent")
	assert.Contains(t, out, "Overdue: Apr 12, 2026")
}
