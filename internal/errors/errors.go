package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is an application-specific error type
type AppError struct {
	Code    string
	Message string
	Cause   error
	// Kind is an optional component-level sentinel matched by errors.Is
	Kind error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the Kind sentinel of this error
func (e *AppError) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

// WithKind tags the error with a component sentinel and returns it
func (e *AppError) WithKind(kind error) *AppError {
	e.Kind = kind
	return e
}

// creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// wraps an error with a code and message
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// CodeOf returns the code of the outermost AppError in err's chain, or CodeInternal
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf returns the message of the outermost AppError, falling back to err.Error()
func MessageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Error code constants
const (
	CodeInternal    = "INTERNAL_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeInvalidArg  = "INVALID_ARGUMENT"     // Bad or unparseable input, never retried
	CodeUnavailable = "UPSTREAM_UNAVAILABLE" // Connection-level failure to a provider
	CodeRejected    = "UPSTREAM_REJECTED"    // Provider answered with non-2xx or a failure flag
	CodeExternal    = "EXTERNAL_ERROR"       // Local external tool (yt-dlp, ffmpeg) failed
	CodeConflict    = "CONFLICT"             // Resource already exists (UNIQUE violation)
	CodeDependency  = "DEPENDENCY_ERROR"     // Foreign key constraint violation
)
