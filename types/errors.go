/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies every failure the task engine surfaces to callers.
type ErrorCode string

const (
	ErrAlreadyExists         ErrorCode = "AlreadyExists"
	ErrNotFound              ErrorCode = "NotFound"
	ErrValidation            ErrorCode = "ValidationError"
	ErrNotPermitted          ErrorCode = "OperationNotPermitted"
	ErrCircularDependency    ErrorCode = "CircularDependency"
	ErrInvalidTransition     ErrorCode = "InvalidStatusTransition"
	ErrTransactionInProgress ErrorCode = "TransactionInProgress"
	ErrNoTransaction         ErrorCode = "NoTransaction"
	ErrFileRead              ErrorCode = "FileReadError"
	ErrFileWrite             ErrorCode = "FileWriteError"
	// ErrOperationFailed is the synthetic code assigned to background work
	// that panicked or returned a failure without a code of its own.
	ErrOperationFailed ErrorCode = "OperationFailed"
)

// TaskError provides structured error information for engine failures.
type TaskError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *TaskError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// NewTaskError creates a new structured task error.
func NewTaskError(code ErrorCode, message string, details map[string]interface{}) *TaskError {
	return &TaskError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// WrapError attaches a code and a user-facing message to an underlying error.
func WrapError(code ErrorCode, message string, err error) *TaskError {
	return &TaskError{Code: code, Message: message, Err: err}
}

// NotFoundError builds the canonical unknown-id error.
func NotFoundError(id string) *TaskError {
	return &TaskError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("task with ID '%s' not found", id),
		Details: map[string]interface{}{"id": id},
	}
}

// AlreadyExistsError builds the canonical duplicate-id error.
func AlreadyExistsError(id string) *TaskError {
	return &TaskError{
		Code:    ErrAlreadyExists,
		Message: fmt.Sprintf("task with ID '%s' already exists", id),
		Details: map[string]interface{}{"id": id},
	}
}

// CodeOf extracts the ErrorCode from err, or "" when err carries none.
func CodeOf(err error) ErrorCode {
	var te *TaskError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
