// Package errors provides standardized error handling for the intake bot.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeDuplicateDepartment ErrorCode = "DUPLICATE_DEPARTMENT"
	ErrCodeDepartmentNotFound  ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeStorageFailed       ErrorCode = "STORAGE_ERROR"
	ErrCodeTransportFailed     ErrorCode = "TRANSPORT_ERROR"
)

// Sentinels for errors.Is checks across package boundaries.
var (
	ErrValidation          = errors.New("VALIDATION_FAILED")
	ErrDuplicateDepartment = errors.New("DUPLICATE_DEPARTMENT")
	ErrDepartmentNotFound  = errors.New("DEPARTMENT_NOT_FOUND")
	ErrSessionNotFound     = errors.New("SESSION_NOT_FOUND")
	ErrCatalogEmpty        = errors.New("CATALOG_EMPTY")
)

// BotError represents a structured application error.
type BotError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *BotError) Error() string {
	return fmt.Sprintf("BotError[%s]: %s", e.Code, e.Message)
}

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(details string) *BotError {
	return &BotError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input does not match the expected format",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateDepartmentError creates a non-retryable duplicate title error.
func NewDuplicateDepartmentError(title string) *BotError {
	return &BotError{
		Code:      ErrCodeDuplicateDepartment,
		Message:   "Department title already exists",
		Details:   fmt.Sprintf("title: %s", title),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDepartmentNotFoundError creates a non-retryable not-found error.
func NewDepartmentNotFoundError(id int64) *BotError {
	return &BotError{
		Code:      ErrCodeDepartmentNotFound,
		Message:   "Department does not exist",
		Details:   fmt.Sprintf("departmentId: %d", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError creates a retryable storage error.
func NewStorageError(op string, err error) *BotError {
	return &BotError{
		Code:      ErrCodeStorageFailed,
		Message:   "Storage operation failed",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError creates a retryable transport error.
func NewTransportError(op string, err error) *BotError {
	return &BotError{
		Code:      ErrCodeTransportFailed,
		Message:   "Transport operation failed",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
