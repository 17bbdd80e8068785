// Package common provides shared utilities and types used across the
// application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound indicates that a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// Validation errors.
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrEmptyCategoryName = errors.New("category name cannot be empty")

	// Consistency errors.
	ErrUnknownCategory = errors.New("unknown category")
	ErrCategoryInUse   = errors.New("category is referenced by expenses")

	// Recognition errors.
	ErrRecognitionFailed = errors.New("expense recognition failed")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
