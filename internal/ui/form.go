package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"

	"taskmanager/internal/models"
)

const dateLayout = "2006-01-02"

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldDueDate
	fieldCount
)

var priorities = []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}

// Form edits the fields of a new or existing task.
type Form struct {
	taskID      string // empty when creating
	title       textinput.Model
	description textinput.Model
	dueDate     textinput.Model
	priority    models.Priority
	focus       formField
	errors      map[formField]string
}

// formValues is what the form validates before anything is sent.
type formValues struct {
	Title string     `validate:"required,min=3"`
	Due   *time.Time `validate:"omitempty,gtefield=Today"`
	Today time.Time
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewForm returns an empty create form.
func NewForm() Form {
	title := textinput.New()
	title.Placeholder = "Enter task title..."
	title.CharLimit = 200

	desc := textinput.New()
	desc.Placeholder = "Optional description"
	desc.CharLimit = 1000

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len(dateLayout)

	f := Form{
		title:       title,
		description: desc,
		dueDate:     due,
		priority:    models.PriorityMedium,
		errors:      map[formField]string{},
	}
	f.setFocus(fieldTitle)
	return f
}

// EditForm returns a form pre-filled from task. The due date is shown as its
// stored UTC calendar date so an unchanged save sends the same day back.
func EditForm(task models.Task) Form {
	f := NewForm()
	f.taskID = task.ID
	f.title.SetValue(task.Title)
	if task.Description != nil {
		f.description.SetValue(*task.Description)
	}
	if task.DueDate != nil {
		f.dueDate.SetValue(task.DueDate.UTC().Format(dateLayout))
	}
	if task.Priority.Valid() {
		f.priority = task.Priority
	}
	return f
}

// Editing reports whether the form edits an existing task.
func (f Form) Editing() bool {
	return f.taskID != ""
}

func (f *Form) setFocus(field formField) {
	f.focus = field
	inputs := map[formField]*textinput.Model{
		fieldTitle:       &f.title,
		fieldDescription: &f.description,
		fieldDueDate:     &f.dueDate,
	}
	for id, in := range inputs {
		if id == field {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// Next moves focus forward, wrapping around.
func (f Form) Next() Form {
	f.setFocus((f.focus + 1) % fieldCount)
	return f
}

// Prev moves focus backward, wrapping around.
func (f Form) Prev() Form {
	f.setFocus((f.focus + fieldCount - 1) % fieldCount)
	return f
}

// CyclePriority steps the priority selector by delta.
func (f Form) CyclePriority(delta int) Form {
	i := f.priority.Rank() + delta
	i = (i%len(priorities) + len(priorities)) % len(priorities)
	f.priority = priorities[i]
	return f
}

// Update forwards key input to the focused text field. Typing clears that field's error.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldDueDate:
		f.dueDate, cmd = f.dueDate.Update(msg)
	}
	if _, ok := msg.(tea.KeyMsg); ok && f.errors[f.focus] != "" {
		f.errors = withoutError(f.errors, f.focus)
	}
	return f, cmd
}

// Validate checks the title and due date. On failure it returns the form with
// inline messages set and ok=false.
func (f Form) Validate(now time.Time) (Form, bool) {
	errs := map[formField]string{}
	values := formValues{
		Title: strings.TrimSpace(f.title.Value()),
		Today: startOfDay(now),
	}

	if raw := strings.TrimSpace(f.dueDate.Value()); raw != "" {
		due, err := time.ParseInLocation(dateLayout, raw, now.Location())
		if err != nil {
			errs[fieldDueDate] = "Due date must be YYYY-MM-DD"
		} else {
			values.Due = &due
		}
	}

	if err := validate.Struct(values); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs[fieldTitle] = err.Error()
		}
		for _, fe := range verrs {
			switch fe.Field() {
			case "Title":
				if fe.Tag() == "required" {
					errs[fieldTitle] = "Title is required"
				} else {
					errs[fieldTitle] = "Title must be at least 3 characters"
				}
			case "Due":
				errs[fieldDueDate] = "Due date cannot be in the past"
			}
		}
	}

	f.errors = errs
	return f, len(errs) == 0
}

// Input returns the create payload. Call after Validate.
func (f Form) Input() models.TaskInput {
	return models.TaskInput{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: strings.TrimSpace(f.description.Value()),
		Priority:    f.priority,
		DueDate:     strings.TrimSpace(f.dueDate.Value()),
	}
}

// Patch returns the update payload. Every field is sent, so clearing the
// description or due date in the form clears it on the server.
func (f Form) Patch() models.TaskPatch {
	return models.TaskPatch{
		Title:       models.Some(strings.TrimSpace(f.title.Value())),
		Description: models.Some(strings.TrimSpace(f.description.Value())),
		Priority:    models.Some(f.priority),
		DueDate:     models.Some(strings.TrimSpace(f.dueDate.Value())),
	}
}

// Error returns the inline message for a field, if any.
func (f Form) Error(field formField) string {
	return f.errors[field]
}

// View renders the form.
func (f Form) View(s Styles) string {
	heading := "Create New Task"
	if f.Editing() {
		heading = "Edit Task"
	}

	var b strings.Builder
	b.WriteString(s.FormTitle.Render(heading))
	b.WriteString("\n\n")

	row := func(field formField, label, body string) {
		style := s.FieldLabel
		if f.focus == field {
			style = s.FieldFocused
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
		if msg := f.errors[field]; msg != "" {
			b.WriteString(s.FieldError.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	row(fieldTitle, "Title *", f.title.View())
	row(fieldDescription, "Description", f.description.View())

	var opts []string
	for _, p := range priorities {
		label := string(p)
		if p == f.priority {
			label = s.Priority(p).Render("[" + label + "]")
		} else {
			label = s.Muted.Render(" " + label + " ")
		}
		opts = append(opts, label)
	}
	row(fieldPriority, "Priority", strings.Join(opts, " "))
	row(fieldDueDate, "Due date", f.dueDate.View())

	return s.Form.Render(strings.TrimRight(b.String(), "\n"))
}

func withoutError(errs map[formField]string, field formField) map[formField]string {
	out := make(map[formField]string, len(errs))
	for k, v := range errs {
		if k != field {
			out[k] = v
		}
	}
	return out
}
