// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Ingestion errors.
	ErrSchema       = errors.New("schema error")
	ErrEmptyDataset = errors.New("empty dataset")

	// Analysis errors.
	ErrNoData       = errors.New("no data for selected filters")
	ErrNoSnapshot   = errors.New("no dataset snapshot loaded")
	ErrUnknownStore = errors.New("unknown store")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
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

// IsFatal reports whether an error should abort the whole run rather than
// degrade to an empty result. Schema and configuration problems are fatal;
// empty-filter conditions are not.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSchema) ||
		errors.Is(err, ErrMissingConfig) ||
		errors.Is(err, ErrInvalidConfig)
}
