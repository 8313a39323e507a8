package errors

import (
	"errors"
	"fmt"
)

// Code represents an error code for categorizing errors
type Code string

const (
	// CodeUnknown indicates an unknown error
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates the caller specified an invalid argument
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a requested resource was not found
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists indicates an attempt to create a resource that already exists
	CodeAlreadyExists Code = "already_exists"

	// CodeConflict indicates the operation lost a race (spawn already
	// claimed, slot changed underneath the caller)
	CodeConflict Code = "conflict"

	// CodeInsufficientFunds indicates a trade party cannot cover the price
	CodeInsufficientFunds Code = "insufficient_funds"

	// CodeTimeout indicates a confirmation prompt expired without a reply
	CodeTimeout Code = "timeout"

	// CodeInternal indicates an internal system error (storage I/O and the like)
	CodeInternal Code = "internal"
)

// Error represents an application error with code and metadata
type Error struct {
	// Code is the error code
	Code Code

	// Message is the error message
	Message string

	// Cause is the wrapped error
	Cause error

	// Meta contains additional context
	Meta map[string]any
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern)
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context, preserving the code if the
// cause is already one of ours
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return &Error{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(appErr.Meta),
		}
	}

	return &Error{
		Code:    CodeUnknown,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

// Helper constructors for the common codes

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a formatted not found error
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid argument error
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExists creates an already exists error
func AlreadyExists(message string) *Error {
	return New(CodeAlreadyExists, message)
}

// AlreadyExistsf creates a formatted already exists error
func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

// Conflict creates a conflict error
func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// Conflictf creates a formatted conflict error
func Conflictf(format string, args ...any) *Error {
	return Newf(CodeConflict, format, args...)
}

// InsufficientFunds creates an insufficient funds error
func InsufficientFunds(message string) *Error {
	return New(CodeInsufficientFunds, message)
}

// InsufficientFundsf creates a formatted insufficient funds error
func InsufficientFundsf(format string, args ...any) *Error {
	return Newf(CodeInsufficientFunds, format, args...)
}

// Timeout creates a timeout error
func Timeout(message string) *Error {
	return New(CodeTimeout, message)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates a formatted internal error
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// Error checking functions

// Is checks if the error is of a specific code
func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return Is(err, CodeInvalidArgument)
}

// IsAlreadyExists checks if the error is an already exists error
func IsAlreadyExists(err error) bool {
	return Is(err, CodeAlreadyExists)
}

// IsConflict checks if the error is a conflict error
func IsConflict(err error) bool {
	return Is(err, CodeConflict)
}

// IsInsufficientFunds checks if the error is an insufficient funds error
func IsInsufficientFunds(err error) bool {
	return Is(err, CodeInsufficientFunds)
}

// IsTimeout checks if the error is a timeout error
func IsTimeout(err error) bool {
	return Is(err, CodeTimeout)
}

// IsInternal checks if the error is an internal error
func IsInternal(err error) bool {
	return Is(err, CodeInternal)
}

// GetCode returns the error code
func GetCode(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the error metadata
func GetMeta(err error) map[string]any {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Meta
	}
	return nil
}

// copyMeta creates a copy of the metadata map
func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}

	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
