package ui

import (
	"fmt"
	"strings"

	"taskmanager/internal/models"
)

var sortLabels = map[models.SortField]string{
	models.SortByCreatedAt: "Created Date",
	models.SortByUpdatedAt: "Updated Date",
	models.SortByDueDate:   "Due Date",
	models.SortByPriority:  "Priority",
	models.SortByTitle:     "Title",
}

// renderStats draws the summary line. Nil stats mean nothing has loaded yet.
func renderStats(s Styles, stats *models.Stats) string {
	if stats == nil {
		return s.Muted.Render("  Total -  Completed -  Pending -  Overdue -")
	}
	item := func(label string, value int64) string {
		return s.StatLabel.Render(label+" ") + s.StatValue.Render(fmt.Sprint(value))
	}
	overdue := s.StatLabel.Render("Overdue ") + s.StatValue.Render(fmt.Sprint(stats.Overdue))
	if stats.Overdue > 0 {
		overdue = s.Overdue.Render(fmt.Sprintf("Overdue %d", stats.Overdue))
	}
	return "  " + strings.Join([]string{
		item("Total", stats.Total),
		item("Completed", stats.Completed),
		item("Pending", stats.Pending),
		overdue,
	}, "  ")
}

// renderFilters draws the active filters and sort.
func renderFilters(s Styles, q models.ListQuery) string {
	status := "All Status"
	if q.Status != "" {
		status = string(q.Status)
	}
	priority := "All Priorities"
	if q.Priority != "" {
		priority = string(q.Priority)
	}
	order := "↓ desc"
	if q.Order == models.OrderAsc {
		order = "↑ asc"
	}

	field := func(label, value string) string {
		return s.FilterLabel.Render(label+": ") + s.FilterActive.Render(value)
	}
	return "  " + strings.Join([]string{
		field("Status", status),
		field("Priority", priority),
		field("Sort", sortLabels[q.SortBy]+" "+order),
	}, "   ")
}

// nextStatus cycles all → PENDING → COMPLETED → all.
func nextStatus(st models.Status) models.Status {
	switch st {
	case "":
		return models.StatusPending
	case models.StatusPending:
		return models.StatusCompleted
	default:
		return ""
	}
}

// nextPriority cycles all → LOW → MEDIUM → HIGH → all.
func nextPriority(p models.Priority) models.Priority {
	if p == "" {
		return priorities[0]
	}
	for i, known := range priorities {
		if known == p && i+1 < len(priorities) {
			return priorities[i+1]
		}
	}
	return ""
}

func nextSortField(f models.SortField) models.SortField {
	for i, known := range models.SortFields {
		if known == f {
			return models.SortFields[(i+1)%len(models.SortFields)]
		}
	}
	return models.SortByCreatedAt
}

func flipOrder(o models.SortOrder) models.SortOrder {
	if o == models.OrderAsc {
		return models.OrderDesc
	}
	return models.OrderAsc
}
