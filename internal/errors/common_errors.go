package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies application errors along the failure taxonomy used by
// the per-dataset pipelines: configuration halts the action, transport and
// schema fail a single dataset, advisories never fail anything.
type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"     // bad/missing source identifier
	ErrTypeTransport  ErrorType = "TRANSPORT"  // HTTP non-2xx, timeout
	ErrTypeSchema     ErrorType = "SCHEMA"     // required column not found
	ErrTypeParsing    ErrorType = "PARSING"    // malformed body
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeStorage    ErrorType = "STORAGE" // export file I/O
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewConfigError creates a configuration error (missing or unparseable
// source identifier). These halt the whole action.
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewTransportError creates a transport error (non-2xx status or timeout).
// These fail one dataset without aborting its siblings.
func NewTransportError(message string, cause error) *AppError {
	return NewAppError(ErrTypeTransport, message, cause)
}

// NewSchemaError creates a schema error naming the missing logical columns.
func NewSchemaError(dataset string, missing []string) *AppError {
	return NewAppError(ErrTypeSchema,
		fmt.Sprintf("required columns not found for %s dataset: %v", dataset, missing), nil).
		WithContext("dataset", dataset).
		WithContext("missing_columns", missing)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Type == t
}
