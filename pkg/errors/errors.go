// Package errors defines the error kinds shared across the reconstruction
// pipeline and its surrounding services.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown             = "UNKNOWN_ERROR"
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeDegenerateGeometry  = "DEGENERATE_GEOMETRY"
	CodeEvaluationUndefined = "EVALUATION_UNDEFINED"
	CodeIngestError         = "INGEST_ERROR"
	CodeDatabaseError       = "DATABASE_ERROR"
	CodeUploadError         = "UPLOAD_ERROR"
	CodeDownloadError       = "DOWNLOAD_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConfigError         = "CONFIG_ERROR"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances. InvalidConfig and DegenerateGeometry correspond to
// the pipeline's own error kinds; the rest belong to the collaborators
// around it (ingest, repository, storage).
var (
	ErrInvalidConfig       = New(CodeInvalidConfig, "invalid configuration")
	ErrDegenerateGeometry  = New(CodeDegenerateGeometry, "degenerate geometry")
	ErrEvaluationUndefined = New(CodeEvaluationUndefined, "evaluation ratio undefined")
	ErrIngestError         = New(CodeIngestError, "ingest error")
	ErrDatabaseError       = New(CodeDatabaseError, "database error")
	ErrUploadError         = New(CodeUploadError, "upload error")
	ErrDownloadError       = New(CodeDownloadError, "download error")
	ErrNotFound            = New(CodeNotFound, "resource not found")
	ErrConfigError         = New(CodeConfigError, "configuration error")
)

// IsInvalidConfig checks if the error is an InvalidConfig error.
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsDegenerateGeometry checks if the error is a DegenerateGeometry error.
func IsDegenerateGeometry(err error) bool {
	return errors.Is(err, ErrDegenerateGeometry)
}

// IsDatabaseError checks if the error is a database error.
func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabaseError)
}

// IsUploadError checks if the error is an upload error.
func IsUploadError(err error) bool {
	return errors.Is(err, ErrUploadError)
}

// IsDownloadError checks if the error is a download error.
func IsDownloadError(err error) bool {
	return errors.Is(err, ErrDownloadError)
}

// IsNotFound checks if the error is a NotFound error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
