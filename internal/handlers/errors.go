package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/collexa/backend/internal/middleware"
	"github.com/anonto42/collexa/backend/internal/models"
	apperrors "github.com/anonto42/collexa/backend/pkg/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var statusByType = map[apperrors.ErrorType]int{
	apperrors.ErrorTypeInvalidRequest: http.StatusBadRequest,
	apperrors.ErrorTypeUnauthorized:   http.StatusUnauthorized,
	apperrors.ErrorTypeForbidden:      http.StatusForbidden,
	apperrors.ErrorTypeNotFound:       http.StatusNotFound,
	apperrors.ErrorTypeInternal:       http.StatusInternalServerError,
}

// NewHTTPErrorHandler writes every error as {success:false, message}
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := resolve(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, echo.Map{"success": false, "message": message})
		}
		if writeErr != nil {
			log.Error("failed to write error response", zap.Error(writeErr))
		}
	}
}

func resolve(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code == http.StatusNotFound {
			return http.StatusNotFound, "Route not found"
		}
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, msg
		}
		return httpErr.Code, http.StatusText(httpErr.Code)
	}

	errType := apperrors.TypeOf(err)
	return statusByType[errType], apperrors.MessageOf(err)
}

func badRequest(msg string) error {
	return apperrors.NewInvalidRequest(msg)
}

// getUserIDFromContext returns the caller id set by JWTAuthMiddleware, or 0
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get(middleware.ContextUserKey).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

func requireUserID(c echo.Context) (uint, error) {
	id := getUserIDFromContext(c)
	if id == 0 {
		return 0, apperrors.NewUnauthorized("User not authenticated")
	}
	return id, nil
}
