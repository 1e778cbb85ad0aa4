package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/v1/tweets/:tweetId", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/tweets/:tweetId", "200"))

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tweets/"+id, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/tweets/:tweetId", "200"))
	assert.Equal(t, before+2, after)
}

func TestHandlerExposesRegistry(t *testing.T) {
	LikesToggled.WithLabelValues("tweet", "liked").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "campus_diary_likes_toggled_total")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "success", Status(nil))
	assert.Equal(t, "error", Status(assert.AnError))
}

func TestMiddlewareResolvesErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/v1/interviews/:id", func(c echo.Context) error {
		return apperror.NotFound("Interview not found")
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/interviews/:id", "404"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/interviews/x", nil))

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/interviews/:id", "404"))
	assert.Equal(t, before+1, after)
}
