package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a CallSnap error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrConflict           ErrorCode = "CONFLICT"            // 409
	ErrPreconditionFailed ErrorCode = "PRECONDITION_FAILED" // 412
	ErrCancelled          ErrorCode = "CANCELLED"           // 499
	ErrInternal           ErrorCode = "INTERNAL"            // 500
)

// CallSnapError represents a structured error with code, status, and details.
type CallSnapError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *CallSnapError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for malformed or missing input.
func NewInvalidRequest(msg string) *CallSnapError {
	return &CallSnapError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for an unknown meeting id.
func NewNotFound(id string) *CallSnapError {
	return &CallSnapError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("meeting not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewConflict creates a 409 error when an optimistic update keeps losing the race.
func NewConflict(msg string) *CallSnapError {
	return &CallSnapError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewPreconditionFailed creates a 412 error for operations that need prior state,
// e.g. exporting before a summary exists.
func NewPreconditionFailed(msg string) *CallSnapError {
	return &CallSnapError{
		Code:    ErrPreconditionFailed,
		Status:  412,
		Message: msg,
	}
}

// NewCancelled creates a 499 error when the caller's context ends mid-operation.
func NewCancelled(operation string) *CallSnapError {
	return &CallSnapError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *CallSnapError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &CallSnapError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a CallSnapError with the given code.
func Is(err error, code ErrorCode) bool {
	var cErr *CallSnapError
	if stderrors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// As returns err as a *CallSnapError, wrapping unknown errors as INTERNAL.
func As(err error) *CallSnapError {
	var cErr *CallSnapError
	if stderrors.As(err, &cErr) {
		return cErr
	}
	return NewInternal(err)
}
