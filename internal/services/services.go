package services

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
)

// DefaultPageSize is used when a listing is requested without a limit.
const DefaultPageSize = 10

// MaxPageSize caps the limit a client may ask for.
const MaxPageSize = 100

// ParseID parses a hex object id, naming what in the error message.
func ParseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, apperror.BadRequest("Invalid " + what + " id")
	}
	return id, nil
}

// NewPagination clamps page and limit to at least 1 and limit to
// MaxPageSize. A zero limit means the default page size.
func NewPagination(page, limit int64) models.Pagination {
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return models.Pagination{Page: page, Limit: limit}
}

// storeErr turns a repository error into an AppError. Missing records get
// notFound as their message; anything else is internal.
func storeErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	return apperror.Internal("Something went wrong", err)
}

// hashErr reports an over-long password as a client error.
func hashErr(err error) error {
	if errors.Is(err, models.ErrPasswordTooLong) {
		return apperror.BadRequest("Password must be at most 72 bytes long")
	}
	return apperror.Internal("Something went wrong", err)
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
