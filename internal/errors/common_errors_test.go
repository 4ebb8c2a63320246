package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "transport error type", errType: ErrTypeTransport, expected: "TRANSPORT"},
		{name: "schema error type", errType: ErrTypeSchema, expected: "SCHEMA"},
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeConfig,
				Message: "spreadsheet reference missing",
			},
			wantMessage: "[CONFIG] spreadsheet reference missing",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeTransport,
				Message: "sheet fetch failed",
				Cause:   fmt.Errorf("status 502"),
			},
			wantMessage: "[TRANSPORT] sheet fetch failed: status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransportError("sheet fetch failed", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	noCause := NewAppValidationError("bad input")
	assert.Nil(t, noCause.Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := NewTransportError("sheet fetch failed", nil).
		WithContext("dataset", "variation").
		WithContext("status", 502)

	assert.Equal(t, "variation", err.Context["dataset"])
	assert.Equal(t, 502, err.Context["status"])
}

func TestNewSchemaError(t *testing.T) {
	err := NewSchemaError("variation", []string{"date", "variation_pct"})

	require.Equal(t, ErrTypeSchema, err.Type)
	assert.Contains(t, err.Message, "variation")
	assert.Contains(t, err.Message, "date")
	assert.Equal(t, "variation", err.Context["dataset"])
	assert.Equal(t, []string{"date", "variation_pct"}, err.Context["missing_columns"])
}

func TestHelperConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{name: "config", err: NewConfigError("bad id", nil), wantType: ErrTypeConfig},
		{name: "transport", err: NewTransportError("timeout", nil), wantType: ErrTypeTransport},
		{name: "parsing", err: NewParsingError("bad csv", nil), wantType: ErrTypeParsing},
		{name: "validation", err: NewAppValidationError("bad input"), wantType: ErrTypeValidation},
		{name: "not found", err: NewNotFoundError("dataset"), wantType: ErrTypeNotFound},
		{name: "storage", err: NewStorageError("disk full", nil), wantType: ErrTypeStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
		})
	}
}

func TestNewNotFoundError_Message(t *testing.T) {
	err := NewNotFoundError("dataset")
	assert.Equal(t, "[NOT_FOUND] dataset not found", err.Error())
}

func TestIsType(t *testing.T) {
	schemaErr := NewSchemaError("rsi", []string{"close"})

	assert.True(t, IsType(schemaErr, ErrTypeSchema))
	assert.False(t, IsType(schemaErr, ErrTypeTransport))

	wrapped := fmt.Errorf("building rsi: %w", schemaErr)
	assert.True(t, IsType(wrapped, ErrTypeSchema))

	assert.False(t, IsType(errors.New("plain"), ErrTypeSchema))
	assert.False(t, IsType(nil, ErrTypeSchema))
}
