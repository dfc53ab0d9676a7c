package ui

import (
	"fmt"
	"strings"
	"time"

	"taskmanager/internal/models"
)

// DueState is the urgency of a task's deadline, derived at render time.
type DueState int

const (
	DueNone DueState = iota
	DueLater
	DueSoon
	DueOverdue
)

const dueSoonWindow = 24 * time.Hour

// DueStateOf classifies task against now. Completed tasks and tasks without a
// due date have no urgency. Overdue means due before the start of today.
func DueStateOf(task models.Task, now time.Time) DueState {
	if task.DueDate == nil || task.IsCompleted() {
		return DueNone
	}
	due := dueDay(*task.DueDate, now.Location())
	switch {
	case due.Before(startOfDay(now)):
		return DueOverdue
	case due.Before(now.Add(dueSoonWindow)):
		return DueSoon
	default:
		return DueLater
	}
}

// dueDay moves the calendar date of a stored due date to midnight in loc.
// Due dates are stored as UTC midnight, so reading them in a local zone west
// of UTC would otherwise land on the previous day.
func dueDay(due time.Time, loc *time.Location) time.Time {
	y, m, d := due.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// renderCard draws one task.
func renderCard(s Styles, task models.Task, now time.Time, selected bool, width int) string {
	state := DueStateOf(task, now)

	box := s.Card
	switch {
	case selected:
		box = s.CardSelected
	case state == DueOverdue:
		box = s.CardOverdue
	}
	if width > 4 {
		box = box.Width(width - 2)
	}

	check := "[ ]"
	title := task.Title
	if task.IsCompleted() {
		check = "[x]"
		title = s.TitleDone.Render(title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s", check, title, s.Priority(task.Priority).Render(string(task.Priority)))
	if task.Description != nil {
		b.WriteString("\n")
		b.WriteString(s.Muted.Render(*task.Description))
	}
	if task.DueDate != nil {
		b.WriteString("\n")
		b.WriteString(renderDue(s, *task.DueDate, state))
	}
	b.WriteString("\n")
	b.WriteString(s.Muted.Render("Created " + task.CreatedAt.In(now.Location()).Format("Jan 2, 2006")))

	return box.Render(b.String())
}

func renderDue(s Styles, due time.Time, state DueState) string {
	date := due.UTC().Format("Jan 2, 2006")
	switch state {
	case DueOverdue:
		return s.DueOverdue.Render("! Overdue: " + date)
	case DueSoon:
		return s.DueSoon.Render("Due: " + date)
	default:
		return s.DueNormal.Render("Due: " + date)
	}
}
