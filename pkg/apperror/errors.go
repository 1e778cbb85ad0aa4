package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrConflict          = errors.New("conflict")
	ErrInternal          = errors.New("internal server error")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// AppError is an error with an HTTP status and a client-safe message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, ErrBadRequest)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, ErrForbidden)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, ErrNotFound)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, ErrConflict)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message, ErrRateLimitExceeded)
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(message string, err error) *AppError {
	if err == nil {
		err = ErrInternal
	}
	return New(http.StatusInternalServerError, message, err)
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// Is reports whether err carries the given status code.
func Is(err error, code int) bool {
	return MapErrorToStatus(err) == code
}
