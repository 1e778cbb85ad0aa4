package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-diary/backend/internal/middleware"
	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/services"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
)

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.BadRequest("Invalid request payload")
	}
	return nil
}

// bindValid decodes the request into req and runs struct validation.
func bindValid(c echo.Context, req interface{}) error {
	if err := bind(c, req); err != nil {
		return err
	}
	return c.Validate(req)
}

// pagination reads ?page and ?limit. Missing values fall back to the
// service defaults.
func pagination(c echo.Context) (models.Pagination, error) {
	var page, limit int64
	err := echo.QueryParamsBinder(c).
		Int64("page", &page).
		Int64("limit", &limit).
		BindError()
	if err != nil {
		return models.Pagination{}, apperror.BadRequest("page and limit must be numbers")
	}
	return services.NewPagination(page, limit), nil
}

// caller is the authenticated user. Routes using it sit behind RequireAuth.
func caller(c echo.Context) (*models.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, apperror.Unauthorized("Unauthorized request")
	}
	return user, nil
}
