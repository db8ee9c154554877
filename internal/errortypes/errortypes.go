// Package errortypes provides error types and handling for the condense service.
package errortypes

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// ErrorType represents the type of error that occurred
type ErrorType string

// Error types
const (
	// ErrorTypeBudget indicates an unusable token-budget configuration:
	// the prompt overhead plus the target summary size exceeds the
	// model's context window.
	ErrorTypeBudget ErrorType = "budget"

	// ErrorTypeTransient indicates a provider error that may succeed on
	// retry: connectivity failure, rate limiting, or a generic API error.
	ErrorTypeTransient ErrorType = "transient"

	// ErrorTypeCallFailed indicates a summarization call that must not be
	// retried, either because the provider flagged it non-retryable or
	// because the retry budget is exhausted.
	ErrorTypeCallFailed ErrorType = "call_failed"

	// ErrorTypePrecondition indicates a violated caller precondition,
	// such as a synthesis prompt exceeding its token ceiling.
	ErrorTypePrecondition ErrorType = "precondition"

	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common sentinel errors
var (
	// ErrMissingAPIKey indicates that no API key was found in the
	// environment for the configured provider.
	ErrMissingAPIKey = errors.New("missing provider API key")
)

// AppError represents an application error with context
type AppError struct {
	Err       error
	Type      ErrorType
	Message   string
	StackInfo string
	Fields    map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Err.Error()
}

// Unwrap unwraps the error to support errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithField adds a field to the error for additional context
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithFields adds multiple fields to the error for additional context
func (e *AppError) WithFields(fields map[string]interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// captureStack captures the stack trace at the call site
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		// Skip testing and standard library frames
		if !strings.Contains(frame.File, "testing/") && !strings.Contains(frame.File, "/go/src/") {
			fmt.Fprintf(&builder, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		}
		if !more {
			break
		}
	}
	return builder.String()
}

// newAppError creates a new AppError with the given type, underlying error, and message
func newAppError(errType ErrorType, err error, message string) *AppError {
	if err == nil {
		err = errors.New("unknown error")
	}

	return &AppError{
		Err:       err,
		Type:      errType,
		Message:   message,
		StackInfo: captureStack(),
		Fields:    make(map[string]interface{}),
	}
}

// BudgetError creates a new invalid-budget error
func BudgetError(err error, message string) *AppError {
	return newAppError(ErrorTypeBudget, err, message)
}

// TransientError creates a new transient call error
func TransientError(err error, message string) *AppError {
	return newAppError(ErrorTypeTransient, err, message)
}

// CallFailedError creates a new non-retryable call failure
func CallFailedError(err error, message string) *AppError {
	return newAppError(ErrorTypeCallFailed, err, message)
}

// PreconditionError creates a new precondition violation
func PreconditionError(err error, message string) *AppError {
	return newAppError(ErrorTypePrecondition, err, message)
}

// ValidationError creates a new validation error
func ValidationError(err error, message string) *AppError {
	return newAppError(ErrorTypeValidation, err, message)
}

// DatabaseError creates a new database error
func DatabaseError(err error, message string) *AppError {
	return newAppError(ErrorTypeDatabase, err, message)
}

// NetworkError creates a new network error
func NetworkError(err error, message string) *AppError {
	return newAppError(ErrorTypeNetwork, err, message)
}

// ConfigError creates a new configuration error
func ConfigError(err error, message string) *AppError {
	return newAppError(ErrorTypeConfig, err, message)
}

// InternalError creates a new internal error
func InternalError(err error, message string) *AppError {
	return newAppError(ErrorTypeInternal, err, message)
}

// LogError logs an AppError using the provided slog.Logger or the default slog logger.
// It logs the error message, type, stack trace, and any associated fields.
func LogError(logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		// Prepare arguments for structured logging
		args := []any{
			"type", string(appErr.Type),
			"original_error", appErr.Err.Error(),
		}
		if appErr.StackInfo != "" {
			args = append(args, "stack", appErr.StackInfo)
		}
		for k, v := range appErr.Fields {
			args = append(args, k, v)
		}
		logger.Error(appErr.Message, args...)
	} else {
		// For generic errors, log the error message and the error itself
		logger.Error(err.Error(), "error", err)
	}
}

// typeOf extracts the ErrorType from an error, or "" when it is not an AppError.
func typeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsBudgetError checks if an error is an invalid-budget error
func IsBudgetError(err error) bool {
	return typeOf(err) == ErrorTypeBudget
}

// IsTransientError checks if an error is a transient call error
func IsTransientError(err error) bool {
	return typeOf(err) == ErrorTypeTransient
}

// IsCallFailedError checks if an error is a non-retryable call failure
func IsCallFailedError(err error) bool {
	return typeOf(err) == ErrorTypeCallFailed
}

// IsPreconditionError checks if an error is a precondition violation
func IsPreconditionError(err error) bool {
	return typeOf(err) == ErrorTypePrecondition
}

// IsDatabaseError checks if an error is a database error
func IsDatabaseError(err error) bool {
	return typeOf(err) == ErrorTypeDatabase
}

// IsRetryable reports whether the retry loop may attempt the call again.
// Only transient provider errors and network errors qualify; everything
// else escalates immediately.
func IsRetryable(err error) bool {
	t := typeOf(err)
	return t == ErrorTypeTransient || t == ErrorTypeNetwork
}
