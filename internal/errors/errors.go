package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeMissingInput       = "MISSING_INPUT"
	CodeInsufficientSample = "INSUFFICIENT_SAMPLE"
	CodeOutputWrite        = "OUTPUT_WRITE_ERROR"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Common error constructors

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// MissingInput signals an absent source artifact (bronze file, silver table).
func MissingInput(path string) *AppError {
	return New(CodeMissingInput, fmt.Sprintf("input artifact not found: %s", path))
}

// InsufficientSample signals an unmet minimum-sample precondition.
func InsufficientSample(detail string) *AppError {
	return New(CodeInsufficientSample, detail)
}

// OutputWrite wraps a failure to persist a gold artifact. These are the only
// errors that halt a run; the wrapped cause is reported verbatim.
func OutputWrite(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeOutputWrite,
		Message: fmt.Sprintf("failed to write output artifact %s", path),
		Cause:   cause,
	}
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}
