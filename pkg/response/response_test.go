package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONEnvelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Created(c, map[string]string{"id": "1"}, "Tweet created successfully"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(201), body["statusCode"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Tweet created successfully", body["message"])
	assert.Equal(t, map[string]interface{}{"id": "1"}, body["data"])
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"app error", apperror.Forbidden("You can only delete your own tweets"), http.StatusForbidden, "You can only delete your own tweets"},
		{"echo error", echo.NewHTTPError(http.StatusNotFound, "Not Found"), http.StatusNotFound, "Not Found"},
		{"unknown error hides detail", errors.New("mongo: connection reset"), http.StatusInternalServerError, "Internal Server Error"},
		{"internal app error keeps message", apperror.Internal("Failed to upload photo", errors.New("timeout")), http.StatusInternalServerError, "Failed to upload photo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = ErrorHandler(zerolog.Nop())
			e.GET("/boom", func(c echo.Context) error { return tt.err })

			req := httptest.NewRequest(http.MethodGet, "/boom", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.Contains(t, body, "data")
			assert.Nil(t, body["data"])
		})
	}
}

func TestErrorHandlerUnknownRoute(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
