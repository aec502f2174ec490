package service

import (
	"errors"
	"fmt"

	"github.com/krzotki/eleven-labs-demo/internal/quota"
)

var (
	// ErrValidation marks malformed or missing request input. Never retried.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a player or match the provider does not know.
	ErrNotFound = errors.New("not found")
	// ErrProvider marks a failure of an external provider.
	ErrProvider = errors.New("provider error")
	// ErrPersistence marks a failed store read or write.
	ErrPersistence = errors.New("persistence error")
)

// QuotaExceededError is returned when the quota gate denies a request.
type QuotaExceededError struct {
	Reason quota.Reason
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %s", e.Reason)
}

// validationError wraps ErrValidation with a message safe to show to the user.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return ErrValidation }

func newValidationError(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}
