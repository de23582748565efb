package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func HealthCheck(e echo.Context) error {
	return e.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "collexa-api",
	})
}

// Index describes the API entry points
func Index(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Collexa API is running!",
		"status":  "active",
		"endpoints": echo.Map{
			"auth":  "/api/auth",
			"posts": "/api/posts",
			"users": "/api/users",
		},
	})
}
