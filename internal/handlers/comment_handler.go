package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/services"
	"github.com/anonto42/campus-diary/backend/pkg/response"
)

// CommentHandler serves comments and replies on interviews and tweets.
// The two post kinds share every handler; the route decides the kind.
type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes expects g to be behind RequireAuth.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/tweet/:postId", h.ListComments(models.KindTweet))
	g.POST("/tweet/:postId", h.AddComment(models.KindTweet))
	g.PATCH("/tweet/:postId/comment/:commentId", h.UpdateComment(models.KindTweet))
	g.DELETE("/tweet/:postId/comment/:commentId", h.DeleteComment(models.KindTweet))
	g.POST("/tweets/:postId/comments/:commentId/reply", h.Reply(models.KindTweet))

	g.GET("/interview/:postId", h.ListComments(models.KindInterview))
	g.POST("/interview/:postId", h.AddComment(models.KindInterview))
	g.PATCH("/interview/:postId/comment/:commentId", h.UpdateComment(models.KindInterview))
	g.DELETE("/interview/:postId/comment/:commentId", h.DeleteComment(models.KindInterview))
	g.POST("/interviews/:postId/comments/:commentId/reply", h.Reply(models.KindInterview))

	g.GET("/:commentId/replies", h.Replies)
}

func postRef(c echo.Context, kind models.PostKind) (models.PostRef, error) {
	return services.ParsePostRef(kind, c.Param("postId"))
}

func (h *CommentHandler) ListComments(kind models.PostKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ref, err := postRef(c, kind)
		if err != nil {
			return err
		}
		page, err := pagination(c)
		if err != nil {
			return err
		}
		result, err := h.comments.List(c.Request().Context(), ref, page)
		if err != nil {
			return err
		}
		return response.OK(c, result, "Comments fetched successfully")
	}
}

func (h *CommentHandler) AddComment(kind models.PostKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		me, err := caller(c)
		if err != nil {
			return err
		}
		ref, err := postRef(c, kind)
		if err != nil {
			return err
		}
		var req models.CommentRequest
		if err := bindValid(c, &req); err != nil {
			return err
		}
		comment, err := h.comments.Add(c.Request().Context(), ref, me.ID, req.Content)
		if err != nil {
			return err
		}
		return response.Created(c, comment, "Comment added successfully")
	}
}

func (h *CommentHandler) Reply(kind models.PostKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		me, err := caller(c)
		if err != nil {
			return err
		}
		ref, err := postRef(c, kind)
		if err != nil {
			return err
		}
		var req models.CommentRequest
		if err := bindValid(c, &req); err != nil {
			return err
		}
		reply, err := h.comments.Reply(c.Request().Context(), ref, c.Param("commentId"), me.ID, req.Content)
		if err != nil {
			return err
		}
		return response.Created(c, reply, "Reply added successfully")
	}
}

func (h *CommentHandler) UpdateComment(kind models.PostKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		me, err := caller(c)
		if err != nil {
			return err
		}
		ref, err := postRef(c, kind)
		if err != nil {
			return err
		}
		var req models.CommentRequest
		if err := bindValid(c, &req); err != nil {
			return err
		}
		comment, err := h.comments.Update(c.Request().Context(), ref, c.Param("commentId"), me.ID, req.Content)
		if err != nil {
			return err
		}
		return response.OK(c, comment, "Comment updated successfully")
	}
}

func (h *CommentHandler) DeleteComment(kind models.PostKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		me, err := caller(c)
		if err != nil {
			return err
		}
		ref, err := postRef(c, kind)
		if err != nil {
			return err
		}
		if err := h.comments.Delete(c.Request().Context(), ref, c.Param("commentId"), me.ID); err != nil {
			return err
		}
		return response.OK(c, struct{}{}, "Comment deleted successfully")
	}
}

func (h *CommentHandler) Replies(c echo.Context) error {
	replies, err := h.comments.Replies(c.Request().Context(), c.Param("commentId"))
	if err != nil {
		return err
	}
	return response.OK(c, replies, "Replies fetched successfully")
}
