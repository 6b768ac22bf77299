// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// Download errors. ErrNotAvailable and ErrBlocked are terminal: retrying
	// will not change the outcome, the caller must fall through to the next
	// source or to manual download instructions.
	ErrNotAvailable = errors.New("data not available for period")
	ErrBlocked      = errors.New("download blocked by server")
	ErrCorruptInput = errors.New("corrupt input")

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

// IsRetryable determines if an error should trigger a retry. Terminal download
// errors never retry; transient network failures do.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrNotAvailable) ||
		errors.Is(err, ErrBlocked) ||
		errors.Is(err, ErrCorruptInput) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
