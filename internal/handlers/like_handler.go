package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/services"
	"github.com/anonto42/campus-diary/backend/pkg/response"
)

type LikeHandler struct {
	likes *services.LikeService
}

func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes expects g to be behind RequireAuth.
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/toggle/interview/:postId", h.Toggle(models.KindInterview))
	g.POST("/toggle/tweet/:postId", h.Toggle(models.KindTweet))
}

// Toggle answers 201 when the post became liked and 200 when the like
// was removed.
func (h *LikeHandler) Toggle(kind models.PostKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		me, err := caller(c)
		if err != nil {
			return err
		}
		ref, err := postRef(c, kind)
		if err != nil {
			return err
		}
		liked, err := h.likes.Toggle(c.Request().Context(), me.ID, ref)
		if err != nil {
			return err
		}
		result := models.ToggleResult{Liked: liked}
		if liked {
			return response.Created(c, result, "Post liked successfully")
		}
		return response.OK(c, result, "Post unliked successfully")
	}
}
