package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates missing or oversized required input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateUsername is returned when registering a taken username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateEmail is returned when registering a taken email.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPersistence wraps storage failures during writes.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError describes which input was rejected. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Message is the user-facing form of the error.
func (e *ValidationError) Message() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
