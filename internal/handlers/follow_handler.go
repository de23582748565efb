package handlers

import (
	"net/http"

	"github.com/anonto42/collexa/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	graph *services.GraphService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph *services.GraphService) *FollowHandler {
	return &FollowHandler{graph: graph}
}

// RegisterFollowRoutes registers follow-related routes on the users group
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.POST("/:userId/follow", h.ToggleFollow, mw...)
}

// ToggleFollow follows the user if not followed yet, unfollows otherwise
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}

	res, err := h.graph.ToggleFollow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return err
	}

	message := "User unfollowed"
	if res.Following {
		message = "User followed"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"message":        message,
		"following":      res.Following,
		"followersCount": res.FollowersCount,
	})
}
