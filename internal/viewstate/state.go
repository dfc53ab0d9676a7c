// Package viewstate holds the client-side task list and stats as an explicit
// state value. Reduce is the only way state changes; the IO commands in
// commands.go talk to the API and return the Action to apply.
package viewstate

import (
	"slices"

	"taskmanager/internal/models"
)

// State is what the task screens render from.
type State struct {
	Tasks   []models.Task
	Stats   *models.Stats // nil until the first successful load
	Loading bool
	Err     string
	Query   models.ListQuery
	// Stale is set when the query changed and the list must be fetched again.
	Stale bool
}

// New returns the initial state with the default sort.
func New() State {
	return State{Query: models.DefaultListQuery(), Stale: true}
}

// Action is a state transition.
type Action interface {
	isAction()
}

type (
	LoadStarted struct{}
	Loaded      struct {
		Tasks []models.Task
		Stats models.Stats
	}
	Failed       struct{ Message string }
	TaskCreated  struct{ Task models.Task }
	TaskUpdated  struct{ Task models.Task }
	TaskRemoved  struct{ ID string }
	StatsLoaded  struct{ Stats models.Stats }
	QueryChanged struct{ Query models.ListQuery }
	// Batch applies several actions in order.
	Batch []Action
)

func (LoadStarted) isAction()  {}
func (Loaded) isAction()       {}
func (Failed) isAction()       {}
func (TaskCreated) isAction()  {}
func (TaskUpdated) isAction()  {}
func (TaskRemoved) isAction()  {}
func (StatsLoaded) isAction()  {}
func (QueryChanged) isAction() {}
func (Batch) isAction()        {}

// Reduce returns the state after applying a. The input state is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadStarted:
		s.Loading = true
	case Loaded:
		s.Tasks = slices.Clone(a.Tasks)
		stats := a.Stats
		s.Stats = &stats
		s.Loading = false
		s.Err = ""
		s.Stale = false
	case Failed:
		s.Loading = false
		s.Err = a.Message
	case TaskCreated:
		s.Tasks = append([]models.Task{a.Task}, s.Tasks...)
		s.Err = ""
	case TaskUpdated:
		s.Tasks = slices.Clone(s.Tasks)
		for i := range s.Tasks {
			if s.Tasks[i].ID == a.Task.ID {
				s.Tasks[i] = a.Task
			}
		}
		s.Err = ""
	case TaskRemoved:
		s.Tasks = slices.DeleteFunc(slices.Clone(s.Tasks), func(t models.Task) bool {
			return t.ID == a.ID
		})
		s.Err = ""
	case StatsLoaded:
		stats := a.Stats
		s.Stats = &stats
	case QueryChanged:
		s.Query = a.Query.Normalized()
		s.Stale = true
	case Batch:
		for _, inner := range a {
			s = Reduce(s, inner)
		}
	}
	return s
}
