// Package errors provides categorized errors shared by the service and HTTP layers.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the type of error for mapping to transport status codes
type ErrorCategory string

const (
	CategoryNotFound     ErrorCategory = "not-found"
	CategoryValidation   ErrorCategory = "validation"
	CategoryConflict     ErrorCategory = "conflict"
	CategoryUnauthorized ErrorCategory = "unauthorized"
	CategoryDatabase     ErrorCategory = "database"
	CategoryInternal     ErrorCategory = "internal"
)

// AppError wraps an error with a category and a user-facing message
type AppError struct {
	Err      error
	Category ErrorCategory
	Message  string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Category)
}

// Unwrap implements the error unwrapping interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *AppError of the same category.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if stderrors.As(target, &other) {
		return e.Category == other.Category
	}
	return false
}

// Sentinels usable with errors.Is
var (
	ErrNotFound     = &AppError{Category: CategoryNotFound}
	ErrValidation   = &AppError{Category: CategoryValidation}
	ErrConflict     = &AppError{Category: CategoryConflict}
	ErrUnauthorized = &AppError{Category: CategoryUnauthorized}
	ErrDatabase     = &AppError{Category: CategoryDatabase}
)

func newf(category ErrorCategory, format string, args ...any) *AppError {
	return &AppError{Category: category, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error
func NotFound(format string, args ...any) *AppError {
	return newf(CategoryNotFound, format, args...)
}

// Validation creates a validation error
func Validation(format string, args ...any) *AppError {
	return newf(CategoryValidation, format, args...)
}

// Conflict creates a conflict error
func Conflict(format string, args ...any) *AppError {
	return newf(CategoryConflict, format, args...)
}

// Unauthorized creates an unauthorized error
func Unauthorized(format string, args ...any) *AppError {
	return newf(CategoryUnauthorized, format, args...)
}

// Database wraps a storage failure. The message stays generic so driver
// details are not leaked to clients.
func Database(err error, operation string) *AppError {
	return &AppError{
		Err:      err,
		Category: CategoryDatabase,
		Message:  fmt.Sprintf("failed to %s", operation),
	}
}

// CategoryOf returns the category of err, or CategoryInternal when err
// carries none.
func CategoryOf(err error) ErrorCategory {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Category
	}
	return CategoryInternal
}

// Is is a passthrough to the standard library
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a passthrough to the standard library
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// New is a passthrough to the standard library
func New(text string) error {
	return stderrors.New(text)
}
