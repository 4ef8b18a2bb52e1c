// Package fault is the error taxonomy shared by every domain service.
// Services return these typed errors; the transport layer maps them onto
// HTTP statuses with errors.As and never inspects message text.
package fault

import "fmt"

// NotFoundError marks a lookup whose subject does not exist, including
// scoped lookups where the subject exists but belongs to someone else.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError marks an operation that is valid in form but collides with
// the current state of its subject.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func Conflictf(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError marks malformed or out-of-range input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UniquenessError marks a write that would duplicate a unique attribute,
// such as a user email or category name.
type UniquenessError struct {
	Message string
}

func (e *UniquenessError) Error() string {
	return e.Message
}

func Uniquef(format string, args ...any) error {
	return &UniquenessError{Message: fmt.Sprintf(format, args...)}
}
