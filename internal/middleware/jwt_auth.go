package middleware

import (
	"errors"
	"strings"

	"github.com/anonto42/collexa/backend/internal/models"
	"github.com/anonto42/collexa/backend/internal/repositories"
	apperrors "github.com/anonto42/collexa/backend/pkg/errors"
	"github.com/labstack/echo/v4"
)

// ContextUserKey is where the verified claims are stored on the echo.Context
const ContextUserKey = "user"

// TokenVerifier parses an access token into its claims
type TokenVerifier interface {
	Verify(token string) (*models.JwtCustomClaims, error)
}

// JWTAuthMiddleware checks for a valid bearer token whose user still exists
func JWTAuthMiddleware(tokens TokenVerifier, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperrors.NewUnauthorized("Not authorized, no token")
			}

			// Expecting "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return apperrors.NewUnauthorized("Not authorized, invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				return apperrors.NewUnauthorized("Not authorized, token failed")
			}

			if _, err := users.GetUserByID(c.Request().Context(), claims.UserID); err != nil {
				if errors.Is(err, repositories.ErrUserNotFound) {
					return apperrors.NewUnauthorized("Not authorized, user not found")
				}
				return apperrors.NewInternal("Failed to load user", err)
			}

			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}
