package middleware

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
)

type stubVerifier struct {
	claims *models.AccessClaims
	err    error
}

func (s stubVerifier) VerifyAccess(token string) (*models.AccessClaims, error) {
	if token != "good" {
		return nil, apperror.Unauthorized("Invalid Access Token")
	}
	return s.claims, s.err
}

type stubLoader struct {
	user *models.User
}

func (s stubLoader) GetUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, errors.New("not found")
	}
	return s.user, nil
}

func newAuth(role models.Role) (*Auth, *models.User) {
	user := &models.User{ID: primitive.NewObjectID(), Role: role}
	claims := &models.AccessClaims{UserID: user.ID.Hex()}
	return NewAuth(stubVerifier{claims: claims}, stubLoader{user: user}), user
}

func run(t *testing.T, req *http.Request, chain ...echo.MiddlewareFunc) (*models.User, error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *models.User
	h := func(c echo.Context) error {
		seen = CurrentUser(c)
		return nil
	}
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return seen, h(c)
}

func statusOf(err error) int {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}

func TestRequireAuth(t *testing.T) {
	auth, user := newAuth(models.RoleUser)

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "good"})
		seen, err := run(t, req, auth.RequireAuth())
		require.NoError(t, err)
		assert.Equal(t, user.ID, seen.ID)
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good")
		seen, err := run(t, req, auth.RequireAuth())
		require.NoError(t, err)
		assert.Equal(t, user.ID, seen.ID)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := run(t, httptest.NewRequest(http.MethodGet, "/", nil), auth.RequireAuth())
		assert.Equal(t, http.StatusUnauthorized, statusOf(err))
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer forged")
		_, err := run(t, req, auth.RequireAuth())
		assert.Equal(t, http.StatusUnauthorized, statusOf(err))
	})

	t.Run("deleted user", func(t *testing.T) {
		gone := NewAuth(stubVerifier{claims: &models.AccessClaims{UserID: primitive.NewObjectID().Hex()}}, stubLoader{user: user})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good")
		_, err := run(t, req, gone.RequireAuth())
		assert.Equal(t, http.StatusUnauthorized, statusOf(err))
	})
}

func TestOptionalAuth(t *testing.T) {
	auth, user := newAuth(models.RoleUser)

	seen, err := run(t, httptest.NewRequest(http.MethodGet, "/", nil), auth.OptionalAuth())
	require.NoError(t, err)
	assert.Nil(t, seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer forged")
	seen, err = run(t, req, auth.OptionalAuth())
	require.NoError(t, err)
	assert.Nil(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	seen, err = run(t, req, auth.OptionalAuth())
	require.NoError(t, err)
	assert.Equal(t, user.ID, seen.ID)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		role models.Role
		want int
	}{
		{"admin", models.RoleAdmin, 0},
		{"user", models.RoleUser, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, _ := newAuth(tt.role)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer good")
			_, err := run(t, req, auth.RequireAuth(), RequireAdmin())
			assert.Equal(t, tt.want, statusOf(err))
		})
	}

	_, err := run(t, httptest.NewRequest(http.MethodGet, "/", nil), RequireAdmin())
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func multipartRequest(t *testing.T, field, filename string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("name", "Ada"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestTempUpload(t *testing.T) {
	dir := t.TempDir()
	e := echo.New()

	t.Run("saves then removes", func(t *testing.T) {
		var path string
		h := TempUpload(dir, zerolog.Nop(), "photo", "photoUrl")(func(c echo.Context) error {
			path = UploadPath(c)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "image-bytes", string(data))
			return nil
		})
		c := e.NewContext(multipartRequest(t, "photoUrl", "me.PNG"), httptest.NewRecorder())
		require.NoError(t, h(c))

		assert.NotEmpty(t, path)
		assert.NoFileExists(t, path)
	})

	t.Run("removes on handler error", func(t *testing.T) {
		var path string
		h := TempUpload(dir, zerolog.Nop(), "photo")(func(c echo.Context) error {
			path = UploadPath(c)
			return apperror.Internal("upload failed", nil)
		})
		c := e.NewContext(multipartRequest(t, "photo", "me.jpg"), httptest.NewRecorder())
		assert.Error(t, h(c))
		assert.NoFileExists(t, path)
	})

	t.Run("no file passes through", func(t *testing.T) {
		called := false
		h := TempUpload(dir, zerolog.Nop(), "photo")(func(c echo.Context) error {
			called = true
			assert.Empty(t, UploadPath(c))
			return nil
		})
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"Ada"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		require.NoError(t, h(e.NewContext(req, httptest.NewRecorder())))
		assert.True(t, called)
	})

	t.Run("rejects non images", func(t *testing.T) {
		h := TempUpload(dir, zerolog.Nop(), "photo")(func(c echo.Context) error {
			t.Fatal("handler must not run")
			return nil
		})
		c := e.NewContext(multipartRequest(t, "photo", "script.sh"), httptest.NewRecorder())
		assert.Equal(t, http.StatusBadRequest, statusOf(h(c)))
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
