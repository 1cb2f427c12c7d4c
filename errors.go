package spendbook

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("spendbook: not found")
	ErrAlreadyExists = errors.New("spendbook: already exists")
	ErrInvalidInput  = errors.New("spendbook: invalid input")
	ErrNotStarted    = errors.New("spendbook: engine not started")

	// User errors
	ErrUserNotFound  = errors.New("spendbook: user not found")
	ErrDuplicateUser = errors.New("spendbook: user already registered")

	// Expense errors
	ErrExpenseNotFound        = errors.New("spendbook: expense not found")
	ErrDuplicateExpenseNumber = errors.New("spendbook: expense number already in use")

	// Allocator errors
	ErrCounterNotFound      = errors.New("spendbook: counter not found")
	ErrAllocatorUnavailable = errors.New("spendbook: sequence allocator unavailable")

	// Store errors
	ErrStoreUnavailable = errors.New("spendbook: store unavailable")
	ErrStoreClosed      = errors.New("spendbook: store is closed")
	ErrMigrationFailed  = errors.New("spendbook: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("spendbook: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "spendbook: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("spendbook: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrExpenseNotFound) ||
		errors.Is(err, ErrCounterNotFound)
}

// IsDuplicate returns true if the error is a uniqueness violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateExpenseNumber) ||
		errors.Is(err, ErrDuplicateUser)
}

// IsValidation returns true if the error is a field validation failure.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidInput)
}

// IsUnavailable returns true if the error means the durable store could not
// be reached or did not complete the operation. Retry policy belongs to the
// caller; nothing is retried here.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrAllocatorUnavailable) ||
		errors.Is(err, ErrStoreClosed)
}
