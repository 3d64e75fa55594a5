package service

import (
	"errors"
	"fmt"

	"lendflow/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrReaderNil          = errors.New("reader is nil")
	ErrNotificationFailed = errors.New("notification could not be stored")
)

// ValidationError reports a rejected input field. It matches ErrInvalidInput.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// notFound yields "<what> not found" for a missing row and passes other errors through.
func notFound(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
