package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource already exists")
)

// ValidationError reports missing or malformed input. Message is safe to show to clients.
type ValidationError struct {
	Message string
	Missing []string
}

func (e *ValidationError) Error() string { return e.Message }

// MissingFields builds the error returned when a create request lacks required fields.
func MissingFields(fields []string) *ValidationError {
	return &ValidationError{
		Message: "Missing required fields: " + strings.Join(fields, ", "),
		Missing: fields,
	}
}

// IDRequired builds the error returned when an update or delete names no key.
func IDRequired(noun string) *ValidationError {
	return &ValidationError{Message: noun + " ID is required", Missing: []string{"id"}}
}
