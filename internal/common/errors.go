// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Fault classes raised while reading or computing over record sets.
	ErrDivisionByZero   = errors.New("division by zero")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrValueOutOfRange  = errors.New("value out of range")
	ErrMissingKey       = errors.New("missing key")
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// Scoring errors.
	ErrUnresolvedInput = errors.New("unresolved input")

	// Data errors.
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrEmptyDataset   = errors.New("empty dataset")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	Kind        error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// NewMessage creates an error whose text is exactly userMessage while still
// matching kind with errors.Is.
func NewMessage(userMessage string, kind error) error {
	return &UserError{
		UserMessage: userMessage,
		Kind:        kind,
	}
}

// UserMessage returns the message to show for err. UserErrors report their
// own message; anything else falls back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.Error()
	}
	return err.Error()
}
