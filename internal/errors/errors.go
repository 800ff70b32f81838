package errors

import (
	"fmt"
)

// AppError is the structured error type used at call boundaries. Domain-edge
// conditions (grazing geometry, negative radicand, T14 < T23) are NOT
// errors; they propagate as NaN through sample arrays. AppError is for
// caller contract violations and external-capability failures only.
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

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an error with additional context, preserving the code of an
// underlying AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	code := CodeInternalError
	if appErr, ok := err.(*AppError); ok {
		code = appErr.Code
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if err is an AppError, otherwise "UNKNOWN".
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Error codes.
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeDatabaseError = "DATABASE_ERROR"
	CodeExternalModel = "EXTERNAL_MODEL_ERROR"
	CodeSamplerError  = "SAMPLER_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeInternalError = "INTERNAL_ERROR"
)

// InvalidInput marks a caller contract violation (mismatched array lengths,
// incompatible walker/step/discard counts). These fail fast and are never
// silently truncated or padded.
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// InvalidInputf is InvalidInput with formatting.
func InvalidInputf(format string, args ...interface{}) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf(format, args...))
}

// ConfigInvalid marks a configuration problem detected at startup.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// DatabaseError marks a persistence failure.
func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

// NotFound marks a missing resource.
func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// ExternalModel marks a forward-model failure that the core cannot recover
// from. Per-sample domain errors inside a run degrade to -Inf posterior
// instead of surfacing through this path.
func ExternalModel(cause error) *AppError {
	return &AppError{Code: CodeExternalModel, Message: "transit model error", Cause: cause}
}

// Sampler marks an ensemble-sampler failure.
func Sampler(message string) *AppError {
	return New(CodeSamplerError, message)
}
