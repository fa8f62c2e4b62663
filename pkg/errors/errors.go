// Package errors provides structured error types for floatplace.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (scenes, placements, middleware)
//   - NOT_FOUND_*: Referenced resource does not exist
//   - CONTRACT_VIOLATION: A middleware broke the engine's data contract
//   - INTERNAL_*: Unexpected internal errors
//
// The positioning engine itself never returns errors; geometry that does not
// fit is reported through overflow values and middleware data. Errors come
// from the surfaces around it: scene parsing, caching, rendering and I/O.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPlacement, "unknown placement %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidPlacement) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidScene, origErr, "failed to parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidPlacement  Code = "INVALID_PLACEMENT"
	ErrCodeInvalidScene      Code = "INVALID_SCENE"
	ErrCodeInvalidMiddleware Code = "INVALID_MIDDLEWARE"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeElementNotFound Code = "NOT_FOUND_ELEMENT"
	ErrCodeFileNotFound    Code = "NOT_FOUND_FILE"

	// ErrCodeMethodNotAllowed is returned by the HTTP API for a known route
	// requested with the wrong method.
	ErrCodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"

	// Backend errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Contract errors are raised as panics by the engine when a middleware
	// returns data that cannot be merged with what it stored before.
	ErrCodeContract Code = "CONTRACT_VIOLATION"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the status the HTTP API responds with.
// Errors without a code map to 500.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidPlacement, ErrCodeInvalidScene,
		ErrCodeInvalidMiddleware, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return 400
	case ErrCodeNotFound, ErrCodeElementNotFound, ErrCodeFileNotFound:
		return 404
	case ErrCodeMethodNotAllowed:
		return 405
	case ErrCodeTimeout:
		return 504
	case ErrCodeUnsupported:
		return 501
	}
	return 500
}
