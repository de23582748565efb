package handlers

import (
	"net/http"

	"github.com/anonto42/collexa/backend/internal/models"
	"github.com/anonto42/collexa/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to single posts
type PostHandler struct {
	feed *services.FeedService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(feed *services.FeedService) *PostHandler {
	return &PostHandler{feed: feed}
}

// RegisterPostRoutes registers post-related routes on the posts group
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.POST("", h.CreatePost, mw...)
	g.POST("/", h.CreatePost, mw...)
	g.GET("/:id", h.GetPost, mw...)
	g.GET("/user/:userId", h.GetUserPosts, mw...)
	g.DELETE("/:id", h.DeletePost, mw...)
}

// CreatePost creates a new post authored by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.feed.CreatePost(c.Request().Context(), currentUserID, req.Content, req.Image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Post created successfully",
		"post":    post,
	})
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.feed.Post(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": post})
}

// GetUserPosts lists the posts authored by :userId, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	authorID, err := parseUserID(c)
	if err != nil {
		return err
	}

	posts, err := h.feed.UserPosts(c.Request().Context(), authorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(posts), "posts": posts})
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	if err := h.feed.DeletePost(c.Request().Context(), currentUserID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Post deleted successfully"})
}
