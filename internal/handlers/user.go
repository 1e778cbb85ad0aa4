package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/services"
	"github.com/anonto42/campus-diary/backend/pkg/response"
)

// UserHandler serves profile reads and edits and the saved-post list.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterUserRoutes mounts the profile routes. /user/:userId is public.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/user/:userId", h.GetProfile)

	g.GET("/current-user", h.CurrentUser, requireAuth)
	g.GET("/profile/:userId", h.GetProfile, requireAuth)
	g.PATCH("/update-details", h.UpdateDetails, requireAuth)
	g.PATCH("/update-avatar", h.UpdateAvatar, requireAuth)
	g.PATCH("/update-social-links", h.UpdateSocialLinks, requireAuth)
	g.PATCH("/remove-social-links", h.RemoveSocialLinks, requireAuth)
	g.POST("/save-post/:postId", h.SavePost, requireAuth)
	g.GET("/saved-posts", h.SavedPosts, requireAuth)
	g.GET("/my-posts", h.MyPosts, requireAuth)
}

func (h *UserHandler) CurrentUser(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	return response.OK(c, user, "User fetched successfully")
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.users.GetProfile(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return response.OK(c, user, "User profile fetched successfully")
}

func (h *UserHandler) UpdateDetails(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	var req models.UpdateDetailsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateDetails(c.Request().Context(), me.ID, req)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	var req models.UpdateAvatarRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateAvatar(c.Request().Context(), me.ID, req.AvatarID)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Avatar updated successfully")
}

func (h *UserHandler) UpdateSocialLinks(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	var req models.UpdateSocialLinksRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateSocialLinks(c.Request().Context(), me.ID, req)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Social links updated successfully")
}

func (h *UserHandler) RemoveSocialLinks(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	var req models.RemoveSocialLinksRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.RemoveSocialLinks(c.Request().Context(), me.ID, req)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Social links removed successfully")
}

// SavePost toggles the interview in the caller's saved list.
func (h *UserHandler) SavePost(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	saved, list, err := h.users.ToggleSavedPost(c.Request().Context(), me.ID, c.Param("postId"))
	if err != nil {
		return err
	}
	message := "Post saved successfully"
	if !saved {
		message = "Post removed from saved posts"
	}
	return response.OK(c, list, message)
}

func (h *UserHandler) SavedPosts(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	posts, err := h.users.SavedPosts(c.Request().Context(), me.ID)
	if err != nil {
		return err
	}
	return response.OK(c, posts, "Saved posts fetched successfully")
}

func (h *UserHandler) MyPosts(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	posts, err := h.users.MyPosts(c.Request().Context(), me.ID)
	if err != nil {
		return err
	}
	return response.OK(c, posts, "My posts fetched successfully")
}
