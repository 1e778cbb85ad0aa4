package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-diary/backend/internal/middleware"
	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/services"
	"github.com/anonto42/campus-diary/backend/pkg/response"
)

// PhotoFields are the multipart fields a developer photo may arrive in.
var PhotoFields = []string{"photo", "photoUrl"}

type DeveloperHandler struct {
	developers *services.DeveloperService
}

func NewDeveloperHandler(developers *services.DeveloperService) *DeveloperHandler {
	return &DeveloperHandler{developers: developers}
}

// RegisterDeveloperRoutes mounts the directory. Reads are public; admin
// wraps the mutations and upload stores the photo for their duration.
func (h *DeveloperHandler) RegisterDeveloperRoutes(g *echo.Group, admin []echo.MiddlewareFunc, upload echo.MiddlewareFunc) {
	g.GET("", h.ListDevelopers)
	g.GET("/:id", h.GetDeveloper)

	withUpload := append(append([]echo.MiddlewareFunc{}, admin...), upload)
	g.POST("", h.CreateDeveloper, withUpload...)
	g.PATCH("/:id", h.UpdateDeveloper, withUpload...)
	g.DELETE("/:id", h.DeleteDeveloper, admin...)
}

func (h *DeveloperHandler) ListDevelopers(c echo.Context) error {
	developers, err := h.developers.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, developers, "Developers fetched successfully")
}

func (h *DeveloperHandler) GetDeveloper(c echo.Context) error {
	developer, err := h.developers.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.OK(c, developer, "Developer fetched successfully")
}

func (h *DeveloperHandler) CreateDeveloper(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	var form models.DeveloperForm
	if err := bindValid(c, &form); err != nil {
		return err
	}
	developer, err := h.developers.Create(c.Request().Context(), me, form, middleware.UploadPath(c))
	if err != nil {
		return err
	}
	return response.Created(c, developer, "Developer created successfully")
}

func (h *DeveloperHandler) UpdateDeveloper(c echo.Context) error {
	var form models.DeveloperForm
	if err := bindValid(c, &form); err != nil {
		return err
	}
	developer, err := h.developers.Update(c.Request().Context(), c.Param("id"), form, middleware.UploadPath(c))
	if err != nil {
		return err
	}
	return response.OK(c, developer, "Developer updated successfully")
}

func (h *DeveloperHandler) DeleteDeveloper(c echo.Context) error {
	if err := h.developers.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return response.OK(c, nil, "Developer deleted successfully")
}
