package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Envelope is the body of every successful response.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorBody is the body of every failed response.
type ErrorBody struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// JSON writes data wrapped in the response envelope.
func JSON(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

func OK(c echo.Context, data interface{}, message string) error {
	return JSON(c, http.StatusOK, data, message)
}

func Created(c echo.Context, data interface{}, message string) error {
	return JSON(c, http.StatusCreated, data, message)
}

// Resolve turns any error into a status code and a message safe to send.
func Resolve(err error) (int, string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code, appErr.Message
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg := http.StatusText(httpErr.Code)
		if httpErr.Message != nil {
			msg = fmt.Sprint(httpErr.Message)
		}
		return httpErr.Code, msg
	}

	status := apperror.MapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		return status, http.StatusText(status)
	}
	return status, err.Error()
}

// ErrorHandler renders every error returned by a handler as an ErrorBody.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := Resolve(err)
		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, ErrorBody{Success: false, Message: message, Data: nil})
		}
		if err != nil {
			logger.Error().Err(err).Msg("failed to write error response")
		}
	}
}
