package errors

import (
	"errors"
	"net/http"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	technicalMessage := err.Error()

	switch {
	case errors.Is(err, ErrControlNotFound), errors.Is(err, ErrControlDestroyed):
		return NewAppError(technicalMessage, MsgControlNotFound, ErrCodeControlNotFound, http.StatusNotFound, err)
	case errors.Is(err, ErrInvalidParameters):
		return NewAppError(technicalMessage, MsgInvalidParameters, ErrCodeInvalidParameters, http.StatusBadRequest, err)
	case errors.Is(err, ErrInvalidPlace):
		return NewAppError(technicalMessage, MsgInvalidPlace, ErrCodeInvalidPlace, http.StatusBadRequest, err)
	case errors.Is(err, ErrWidgetNotReady):
		return NewAppError(technicalMessage, MsgNotReady, ErrCodeNotReady, http.StatusConflict, err)
	case errors.Is(err, ErrUpstream):
		return NewAppError(technicalMessage, MsgServiceUnavailable, ErrCodeServiceUnavailable, http.StatusServiceUnavailable, err)
	default:
		return NewAppError(technicalMessage, MsgInternalError, ErrCodeInternal, http.StatusInternalServerError, err)
	}
}
