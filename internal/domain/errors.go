// Package domain defines core types, interfaces, and errors for the
// workspace authorization core.
package domain

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError indicates insufficient permissions.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// StorageUnavailableError indicates a transient storage failure. Callers
// may retry with backoff.
type StorageUnavailableError struct {
	Message string
}

func (e *StorageUnavailableError) Error() string { return e.Message }

// StorageTimeoutError indicates the storage layer did not answer in time.
// It is distinct from an empty result: authorization checks must fail
// closed on it, never report "no grants".
type StorageTimeoutError struct {
	Message string
}

func (e *StorageTimeoutError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrStorageUnavailable creates a StorageUnavailableError with a formatted message.
func ErrStorageUnavailable(format string, args ...interface{}) *StorageUnavailableError {
	return &StorageUnavailableError{Message: fmt.Sprintf(format, args...)}
}

// ErrStorageTimeout creates a StorageTimeoutError with a formatted message.
func ErrStorageTimeout(format string, args ...interface{}) *StorageTimeoutError {
	return &StorageTimeoutError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFoundError reports whether err is a NotFoundError.
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsAccessDeniedError reports whether err is an AccessDeniedError.
func IsAccessDeniedError(err error) bool {
	var target *AccessDeniedError
	return errors.As(err, &target)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConflictError reports whether err is a ConflictError.
func IsConflictError(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsStorageUnavailableError reports whether err is a StorageUnavailableError.
func IsStorageUnavailableError(err error) bool {
	var target *StorageUnavailableError
	return errors.As(err, &target)
}

// IsStorageTimeoutError reports whether err is a StorageTimeoutError.
func IsStorageTimeoutError(err error) bool {
	var target *StorageTimeoutError
	return errors.As(err, &target)
}
