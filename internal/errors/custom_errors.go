package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	OriginalError    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %v", e.UserMessage, e.OriginalError)
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// Common error codes
const (
	ErrCodeControlNotFound    = "CONTROL_NOT_FOUND"
	ErrCodeInvalidPlace       = "INVALID_PLACE"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeInvalidParameters  = "INVALID_PARAMETERS"
	ErrCodeNotReady           = "WIDGET_NOT_READY"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// Sentinel errors raised by the domain layers and classified by MapError.
var (
	ErrControlNotFound   = errors.New("control not found")
	ErrControlDestroyed  = errors.New("control destroyed")
	ErrWidgetNotReady    = errors.New("autocomplete widget not loaded")
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrInvalidPlace      = errors.New("invalid place")
	ErrUpstream          = errors.New("places upstream failure")
)
