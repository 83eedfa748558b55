// Package errors provides structured error types for archviz.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the render service and the library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages and process exit codes
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The diagram pipeline surfaces four domain failures:
//   - UNKNOWN_REFERENCE: a parent, edge source or edge target does not exist
//   - DUPLICATE_ID: an identifier is reused anywhere in the diagram
//   - LAYOUT_OVERFLOW: the computed canvas exceeds the configured maximum
//   - EXPORT_IO: the destination could not be written (cause attached)
//
// The remaining codes cover input validation and internal failures.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateID, "identifier %q already in use", id)
//	if errors.Is(err, errors.ErrCodeDuplicateID) {
//	    // Handle conflict
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExportIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Diagram construction errors
	ErrCodeUnknownReference Code = "UNKNOWN_REFERENCE"
	ErrCodeDuplicateID      Code = "DUPLICATE_ID"

	// Layout errors
	ErrCodeLayoutOverflow Code = "LAYOUT_OVERFLOW"

	// Export errors
	ErrCodeExportIO Code = "EXPORT_IO"

	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle     Code = "INVALID_STYLE"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidReference Code = "INVALID_REFERENCE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
// For *Error types, returns the message without the code prefix,
// followed by the cause when one is attached.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// Exit codes reported by the command-line tool.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitInput    = 2 // unknown reference, duplicate id, invalid input
	ExitOverflow = 3
	ExitIO       = 4
)

// ExitCode maps an error to a process exit code. A nil error maps to ExitOK
// and errors without a known code map to ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetCode(err) {
	case ErrCodeUnknownReference, ErrCodeDuplicateID, ErrCodeInvalidInput,
		ErrCodeInvalidFormat, ErrCodeInvalidStyle, ErrCodeInvalidReference,
		ErrCodeInvalidConfig, ErrCodeInvalidPath:
		return ExitInput
	case ErrCodeLayoutOverflow:
		return ExitOverflow
	case ErrCodeExportIO, ErrCodeFileNotFound:
		return ExitIO
	default:
		return ExitFailure
	}
}
