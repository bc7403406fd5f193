package utils

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"places-autocomplete/internal/errors"
	"places-autocomplete/pkg/logger"
)

// LogAndMapError logs technical details and returns a user-friendly AppError.
func LogAndMapError(err error, operation string, params ...interface{}) *errors.AppError {
	appErr := errors.MapError(err)
	if appErr == nil {
		return nil
	}

	var details strings.Builder
	for i := 0; i+1 < len(params); i += 2 {
		fmt.Fprintf(&details, " %v=%v", params[i], params[i+1])
	}
	logger.GlobalLogger.Errorf("%s failed: code=%s%s, error=%s", operation, appErr.Code, details.String(), appErr.TechnicalMessage)

	return appErr
}

// WrapError adds context to an error while preserving the original.
func WrapError(err error, message string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(message, args...), err)
}

// StatusError describes a non-2xx HTTP response from an upstream API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsRetryableError determines if an error is transient and worth retrying.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if stderrors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.HTTPStatus == http.StatusServiceUnavailable
	}

	msg := err.Error()
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "connection")
}
