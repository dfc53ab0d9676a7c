package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskmanager/internal/models"
)

// Styles holds the pre-computed lipgloss styles used by the views
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style
	Error  lipgloss.Style
	Muted  lipgloss.Style

	// Stats
	StatLabel lipgloss.Style
	StatValue lipgloss.Style
	Overdue   lipgloss.Style

	// Filter panel
	FilterLabel  lipgloss.Style
	FilterActive lipgloss.Style

	// Cards
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardOverdue  lipgloss.Style
	TitleDone    lipgloss.Style
	DueNormal    lipgloss.Style
	DueSoon      lipgloss.Style
	DueOverdue   lipgloss.Style

	// Priorities
	PriorityLow    lipgloss.Style
	PriorityMedium lipgloss.Style
	PriorityHigh   lipgloss.Style

	// Form
	Form         lipgloss.Style
	FormTitle    lipgloss.Style
	FieldLabel   lipgloss.Style
	FieldFocused lipgloss.Style
	FieldError   lipgloss.Style

	Confirm lipgloss.Style
}

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
	colorSubtle  = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
)

// DefaultStyles builds the styles for the default palette
func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	return Styles{
		Header: lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1),
		Footer: lipgloss.NewStyle().Foreground(colorSubtle).Padding(0, 1),
		Error:  lipgloss.NewStyle().Foreground(colorError).Bold(true).Padding(0, 1),
		Muted:  lipgloss.NewStyle().Foreground(colorSubtle),

		StatLabel: lipgloss.NewStyle().Foreground(colorSubtle),
		StatValue: lipgloss.NewStyle().Bold(true),
		Overdue:   lipgloss.NewStyle().Foreground(colorError).Bold(true),

		FilterLabel:  lipgloss.NewStyle().Foreground(colorSubtle),
		FilterActive: lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),

		Card:         card,
		CardSelected: card.BorderForeground(colorPrimary),
		CardOverdue:  card.BorderForeground(colorError),
		TitleDone:    lipgloss.NewStyle().Strikethrough(true).Foreground(colorSubtle),
		DueNormal:    lipgloss.NewStyle().Foreground(colorSubtle),
		DueSoon:      lipgloss.NewStyle().Foreground(colorWarning),
		DueOverdue:   lipgloss.NewStyle().Foreground(colorError).Bold(true),

		PriorityLow:    lipgloss.NewStyle().Foreground(colorSuccess),
		PriorityMedium: lipgloss.NewStyle().Foreground(colorWarning),
		PriorityHigh:   lipgloss.NewStyle().Foreground(colorError).Bold(true),

		Form: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2),
		FormTitle:    lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		FieldLabel:   lipgloss.NewStyle().Foreground(colorSubtle),
		FieldFocused: lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		FieldError:   lipgloss.NewStyle().Foreground(colorError),

		Confirm: lipgloss.NewStyle().Foreground(colorWarning).Bold(true).Padding(0, 1),
	}
}

// Priority returns the style for a priority badge
func (s Styles) Priority(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return s.PriorityHigh
	case models.PriorityLow:
		return s.PriorityLow
	default:
		return s.PriorityMedium
	}
}
