package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-diary/backend/internal/middleware"
	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/services"
	"github.com/anonto42/campus-diary/backend/pkg/response"
)

type InterviewHandler struct {
	interviews *services.InterviewService
}

func NewInterviewHandler(interviews *services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

// RegisterInterviewRoutes mounts the interview routes. Reads work for
// anonymous callers; isLiked is then always false.
func (h *InterviewHandler) RegisterInterviewRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("", h.ListInterviews, optionalAuth)
	g.GET("/:id", h.GetInterview, optionalAuth)
	g.POST("", h.CreateInterview, requireAuth)
	g.PATCH("/:id", h.UpdateInterview, requireAuth)
	g.DELETE("/:id", h.DeleteInterview, requireAuth)
}

func (h *InterviewHandler) CreateInterview(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	var req models.CreateInterviewRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	interview, err := h.interviews.Create(c.Request().Context(), me, req)
	if err != nil {
		return err
	}
	return response.Created(c, interview, "Interview Created Successfully")
}

func (h *InterviewHandler) ListInterviews(c echo.Context) error {
	page, err := pagination(c)
	if err != nil {
		return err
	}
	q := models.InterviewQuery{
		Domain:     c.QueryParam("domain"),
		Type:       c.QueryParam("type"),
		Branch:     c.QueryParam("branch"),
		Company:    c.QueryParam("company"),
		Role:       c.QueryParam("role"),
		Pagination: page,
	}
	result, err := h.interviews.List(c.Request().Context(), q, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return response.OK(c, result, "Interviews fetched successfully")
}

func (h *InterviewHandler) GetInterview(c echo.Context) error {
	view, err := h.interviews.Get(c.Request().Context(), c.Param("id"), middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return response.OK(c, view, "Interview fetched successfully")
}

func (h *InterviewHandler) UpdateInterview(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	var update models.InterviewUpdate
	if err := bindValid(c, &update); err != nil {
		return err
	}
	view, err := h.interviews.Update(c.Request().Context(), c.Param("id"), me.ID, update)
	if err != nil {
		return err
	}
	return response.OK(c, view, "Interview updated successfully")
}

func (h *InterviewHandler) DeleteInterview(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.interviews.Delete(c.Request().Context(), c.Param("id"), me.ID); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Interview deleted successfully")
}
