package handlers

import (
	"net/http"

	"github.com/anonto42/collexa/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed routes on the posts group
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.GET("", h.GetAllPosts, mw...)
	g.GET("/", h.GetAllPosts, mw...)
	g.GET("/feed/following", h.GetFollowingFeed, mw...)
}

// GetAllPosts returns every post, newest first
func (h *FeedHandler) GetAllPosts(c echo.Context) error {
	posts, err := h.feed.GlobalFeed(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(posts), "posts": posts})
}

// GetFollowingFeed returns posts from the users the caller follows
func (h *FeedHandler) GetFollowingFeed(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	posts, err := h.feed.FollowingFeed(c.Request().Context(), currentUserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(posts), "posts": posts})
}
