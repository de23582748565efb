package handlers

import (
	"net/http"

	"github.com/anonto42/collexa/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likes *services.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes registers like-related routes on the posts group
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.POST("/:id/like", h.ToggleLike, mw...)
}

// ToggleLike likes the post if the caller has not liked it yet, unlikes otherwise
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	res, err := h.likes.ToggleLike(c.Request().Context(), currentUserID, c.Param("id"))
	if err != nil {
		return err
	}

	message := "Post unliked"
	if res.Liked {
		message = "Post liked"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"message":    message,
		"liked":      res.Liked,
		"likesCount": res.LikesCount,
	})
}
