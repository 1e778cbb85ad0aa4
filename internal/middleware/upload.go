package middleware

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/anonto42/campus-diary/backend/pkg/apperror"
)

const uploadContextKey = "uploadPath"

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".avif": true,
}

// TempUpload stores the first multipart file found under one of fields in
// dir and removes it again once the handler returns. Requests without a
// file pass through unchanged.
func TempUpload(dir string, logger zerolog.Logger, fields ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path, err := saveUpload(c, dir, fields)
			if err != nil {
				return err
			}
			if path == "" {
				return next(c)
			}
			defer func() {
				if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
					logger.Warn().Err(err).Str("path", path).Msg("failed to remove temp upload")
				}
			}()
			c.Set(uploadContextKey, path)
			return next(c)
		}
	}
}

func saveUpload(c echo.Context, dir string, fields []string) (string, error) {
	for _, field := range fields {
		header, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			continue
		}
		if err != nil {
			return "", apperror.BadRequest("Invalid file upload")
		}

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedImageExt[ext] {
			return "", apperror.BadRequest("Only image files are allowed")
		}

		src, err := header.Open()
		if err != nil {
			return "", apperror.BadRequest("Invalid file upload")
		}
		defer src.Close()

		path := filepath.Join(dir, uuid.NewString()+ext)
		dst, err := os.Create(path)
		if err != nil {
			return "", apperror.Internal("Failed to store upload", err)
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			_ = os.Remove(path)
			return "", apperror.Internal("Failed to store upload", err)
		}
		if err := dst.Close(); err != nil {
			_ = os.Remove(path)
			return "", apperror.Internal("Failed to store upload", err)
		}
		return path, nil
	}
	return "", nil
}

// UploadPath returns the local path of the file saved by TempUpload, or
// "" when none was sent.
func UploadPath(c echo.Context) string {
	path, _ := c.Get(uploadContextKey).(string)
	return path
}
