// Package ui renders the task view-state as a terminal application.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskmanager/internal/models"
	"taskmanager/internal/viewstate"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

// actionMsg carries a view-state transition produced by a command.
type actionMsg struct {
	action viewstate.Action
}

// Model is the root bubbletea model. It owns the only copy of the view-state.
type Model struct {
	api    viewstate.API
	state  viewstate.State
	keys   KeyMap
	help   help.Model
	styles Styles
	now    func() time.Time

	mode     mode
	cursor   int
	form     Form
	deleteID string

	width  int
	height int
}

// Option customises a Model.
type Option func(*Model)

// WithClock replaces the wall clock used for due-date states and form validation.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New returns the root model talking to api.
func New(api viewstate.API, opts ...Option) Model {
	m := Model{
		api:    api,
		state:  viewstate.Reduce(viewstate.New(), viewstate.LoadStarted{}),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: DefaultStyles(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// State exposes the current view-state.
func (m Model) State() viewstate.State {
	return m.state
}

// Init loads the first page of tasks.
func (m Model) Init() tea.Cmd {
	return m.run(func(ctx context.Context) viewstate.Action {
		return viewstate.Refresh(ctx, m.api, m.state.Query)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case actionMsg:
		return m.apply(msg.action)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.handleFormKey(msg)
		case modeConfirmDelete:
			return m.handleDeleteConfirm(msg)
		default:
			return m.handleListKey(msg)
		}
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply reduces an action. A changed query triggers a re-fetch.
func (m Model) apply(action viewstate.Action) (tea.Model, tea.Cmd) {
	m.state = viewstate.Reduce(m.state, action)
	m.clampCursor()
	if _, changed := action.(viewstate.QueryChanged); changed && m.state.Stale {
		return m.refresh()
	}
	return m, nil
}

func (m Model) refresh() (Model, tea.Cmd) {
	m.state = viewstate.Reduce(m.state, viewstate.LoadStarted{})
	query := m.state.Query
	return m, m.run(func(ctx context.Context) viewstate.Action {
		return viewstate.Refresh(ctx, m.api, query)
	})
}

func (m Model) run(fn func(ctx context.Context) viewstate.Action) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{action: fn(context.Background())}
	}
}

func (m Model) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Tasks) {
		return models.Task{}, false
	}
	return m.state.Tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Tasks) {
		m.cursor = len(m.state.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// handleListKey handles keypresses while browsing the list
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()

	case key.Matches(msg, m.keys.Status):
		q := m.state.Query
		q.Status = nextStatus(q.Status)
		return m.apply(viewstate.QueryChanged{Query: q})
	case key.Matches(msg, m.keys.Priority):
		q := m.state.Query
		q.Priority = nextPriority(q.Priority)
		return m.apply(viewstate.QueryChanged{Query: q})
	case key.Matches(msg, m.keys.SortBy):
		q := m.state.Query
		q.SortBy = nextSortField(q.SortBy)
		return m.apply(viewstate.QueryChanged{Query: q})
	case key.Matches(msg, m.keys.Order):
		q := m.state.Query
		q.Order = flipOrder(q.Order)
		return m.apply(viewstate.QueryChanged{Query: q})

	case key.Matches(msg, m.keys.Add):
		m.form = NewForm()
		m.mode = modeForm
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.selected(); ok {
			m.form = EditForm(task)
			m.mode = modeForm
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selected(); ok {
			id := task.ID
			return m, m.run(func(ctx context.Context) viewstate.Action {
				return viewstate.Toggle(ctx, m.api, id)
			})
		}
	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selected(); ok {
			m.deleteID = task.ID
			m.mode = modeConfirmDelete
		}
	}
	return m, nil
}

// handleDeleteConfirm handles keypresses in delete confirmation
func (m Model) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.deleteID
	m.mode = modeList
	m.deleteID = ""

	switch msg.String() {
	case "y", "Y":
		return m, m.run(func(ctx context.Context) viewstate.Action {
			return viewstate.Delete(ctx, m.api, id)
		})
	default:
		return m, nil
	}
}

// handleFormKey handles keypresses while the create/edit form is open
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	case key.Matches(msg, m.keys.NextField):
		m.form = m.form.Next()
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.form = m.form.Prev()
		return m, nil
	case m.form.focus == fieldPriority && key.Matches(msg, m.keys.Cycle):
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		m.form = m.form.CyclePriority(delta)
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// submitForm validates locally and only then calls the API.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	form, ok := m.form.Validate(m.now())
	m.form = form
	if !ok {
		return m, nil
	}
	m.mode = modeList

	if form.Editing() {
		id, patch := form.taskID, form.Patch()
		return m, m.run(func(ctx context.Context) viewstate.Action {
			return viewstate.Update(ctx, m.api, id, patch)
		})
	}
	in := form.Input()
	m.cursor = 0
	return m, m.run(func(ctx context.Context) viewstate.Action {
		return viewstate.Create(ctx, m.api, in)
	})
}

// View renders the screen
func (m Model) View() string {
	var sections []string
	sections = append(sections, m.styles.Header.Render("Task Manager"))
	sections = append(sections, renderStats(m.styles, m.state.Stats))
	sections = append(sections, renderFilters(m.styles, m.state.Query))

	if m.state.Err != "" {
		sections = append(sections, m.styles.Error.Render("Error: "+m.state.Err))
	}

	switch m.mode {
	case modeForm:
		sections = append(sections, m.form.View(m.styles))
		sections = append(sections, m.styles.Footer.Render(m.help.View(formKeys(m.keys))))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	case modeConfirmDelete:
		title := m.deleteID
		if task, ok := m.selected(); ok {
			title = task.Title
		}
		sections = append(sections, m.styles.Confirm.Render(fmt.Sprintf("Delete %q? (y/n)", title)))
	}

	sections = append(sections, m.renderList())
	sections = append(sections, m.styles.Footer.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderList() string {
	if m.state.Loading && len(m.state.Tasks) == 0 {
		return m.styles.Muted.Render("  Loading tasks...")
	}
	if len(m.state.Tasks) == 0 {
		return m.styles.Muted.Render("  No tasks found. Press a to create one.")
	}

	now := m.now()
	cards := make([]string, 0, len(m.state.Tasks))
	for i, task := range m.state.Tasks {
		cards = append(cards, renderCard(m.styles, task, now, i == m.cursor, m.width))
	}
	return strings.Join(cards, "\n")
}
