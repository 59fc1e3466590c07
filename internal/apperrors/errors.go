package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates that an operation is not legal for the entity's current state.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrDuplicateEmission indicates that an issued emission already exists for the
// same community and period.
var ErrDuplicateEmission = errors.New("emission already issued for this period")

// ErrOverApplication indicates that a payment allocation would exceed either the
// payment amount or a unit account balance.
var ErrOverApplication = errors.New("payment application exceeds available amount")

// ErrConcurrencyConflict indicates a version mismatch or lock conflict. The
// operation left no partial writes and is safe to retry.
var ErrConcurrencyConflict = errors.New("concurrent modification detected")

// ErrConflict indicates a generic conflict with existing data.
var ErrConflict = errors.New("conflict with current resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries a status code alongside a message and an optional cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
