package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/collexa/backend/internal/models"
	"github.com/anonto42/collexa/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	accounts *services.AccountService
	graph    *services.GraphService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(accounts *services.AccountService, graph *services.GraphService) *UserHandler {
	return &UserHandler{accounts: accounts, graph: graph}
}

// RegisterUserRoutes registers user routes, each wrapped in mw. Static paths
// come first so they are never read as a :userId.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.GET("/search", h.SearchUsers, mw...)
	g.GET("/leaderboard", h.Leaderboard, mw...)
	g.PUT("/profile", h.UpdateProfile, mw...)

	g.GET("/:userId", h.GetProfile, mw...)
	g.GET("/:userId/followers", h.GetFollowers, mw...)
	g.GET("/:userId/following", h.GetFollowing, mw...)
}

// parseUserID accepts any id that fits a signed bigint column
func parseUserID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, strconv.IntSize-1)
	if err != nil || id == 0 {
		return 0, badRequest("Invalid user ID")
	}
	return uint(id), nil
}

// GetProfile returns a user with follower and following summaries
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.graph.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": profile})
}

func (h *UserHandler) GetFollowers(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	followers, err := h.graph.Followers(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(followers), "followers": followers})
}

func (h *UserHandler) GetFollowing(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	following, err := h.graph.Following(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(following), "following": following})
}

// UpdateProfile updates the authenticated user's name, bio or picture
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	callerID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), callerID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// SearchUsers matches ?query= against names and emails
func (h *UserHandler) SearchUsers(c echo.Context) error {
	users, err := h.accounts.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(users), "users": users})
}

// Leaderboard lists the most followed users
func (h *UserHandler) Leaderboard(c echo.Context) error {
	board, err := h.accounts.Leaderboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(board), "leaderboard": board})
}
