package service

import "taskmanager/internal/storage"

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = storage.ErrNotFound

// ValidationError reports a request the service refuses to act on.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
