package domain

import (
	"errors"
	"strings"
)

// Error kinds shared by every layer. Repositories and services wrap these with
// fmt.Errorf("...: %w") and the HTTP layer maps them to status codes.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("resource already exists")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrUpstream            = errors.New("upstream service unavailable")
	ErrTimeout             = errors.New("operation timed out")
	ErrPaymentVerification = errors.New("payment verification failed")
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field level failures. It matches ErrInvalidInput
// under errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError holding one field message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field failure.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Error concatenates every field message.
func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return strings.Join(messages, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
