package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-diary/backend/internal/middleware"
	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/services"
	"github.com/anonto42/campus-diary/backend/pkg/response"
)

type TweetHandler struct {
	tweets *services.TweetService
}

func NewTweetHandler(tweets *services.TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

func (h *TweetHandler) RegisterTweetRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("", h.ListTweets, optionalAuth)
	g.GET("/user/:userId", h.ListUserTweets, optionalAuth)
	g.GET("/:tweetId", h.GetTweet, optionalAuth)
	g.POST("", h.CreateTweet, requireAuth)
	g.PATCH("/:tweetId", h.UpdateTweet, requireAuth)
	g.DELETE("/:tweetId", h.DeleteTweet, requireAuth)
}

func (h *TweetHandler) CreateTweet(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	var req models.TweetRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	tweet, err := h.tweets.Create(c.Request().Context(), me.ID, req.Content)
	if err != nil {
		return err
	}
	return response.Created(c, tweet, "Tweet created successfully")
}

func (h *TweetHandler) ListTweets(c echo.Context) error {
	page, err := pagination(c)
	if err != nil {
		return err
	}
	result, err := h.tweets.List(c.Request().Context(), page, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return response.OK(c, result, "All tweets fetched successfully")
}

func (h *TweetHandler) ListUserTweets(c echo.Context) error {
	page, err := pagination(c)
	if err != nil {
		return err
	}
	result, err := h.tweets.ListByUser(c.Request().Context(), c.Param("userId"), page, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return response.OK(c, result, "User tweets fetched successfully")
}

func (h *TweetHandler) GetTweet(c echo.Context) error {
	tweet, err := h.tweets.Get(c.Request().Context(), c.Param("tweetId"), middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return response.OK(c, tweet, "Tweet fetched successfully")
}

func (h *TweetHandler) UpdateTweet(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	var req models.TweetRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	tweet, err := h.tweets.Update(c.Request().Context(), c.Param("tweetId"), me.ID, req.Content)
	if err != nil {
		return err
	}
	return response.OK(c, tweet, "Tweet updated successfully")
}

func (h *TweetHandler) DeleteTweet(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.tweets.Delete(c.Request().Context(), c.Param("tweetId"), me.ID); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Tweet deleted successfully")
}
