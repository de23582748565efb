package router

import (
	"github.com/anonto42/collexa/backend/internal/auth"
	"github.com/anonto42/collexa/backend/internal/handlers"
	"github.com/anonto42/collexa/backend/internal/middleware"
	"github.com/anonto42/collexa/backend/internal/repositories"
	"github.com/anonto42/collexa/backend/internal/services"
	"github.com/anonto42/collexa/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Dependencies are the stores and collaborators the routes are built from
type Dependencies struct {
	Users    repositories.UserRepository
	Posts    repositories.PostRepository
	Tokens   *auth.JWTManager
	Firebase services.IDTokenVerifier // optional
	Logger   *zap.Logger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	log := deps.Logger

	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(log)
	e.Validator = validators.NewValidator()

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", handlers.Index)

	// --- Services ---
	accounts := services.NewAccountService(deps.Users, deps.Tokens, log)
	if deps.Firebase != nil {
		accounts.WithFirebase(deps.Firebase)
	}
	graph := services.NewGraphService(deps.Users, log)
	likes := services.NewLikeService(deps.Posts, log)
	feed := services.NewFeedService(deps.Posts, deps.Users, log)

	requireAuth := middleware.JWTAuthMiddleware(deps.Tokens, deps.Users)

	// --- Authentication ---
	authHandler := handlers.NewAuthHandler(accounts)
	authHandler.RegisterAuthRoutes(e.Group("/api/auth"), requireAuth)
	log.Debug("Auth routes configured", zap.Bool("firebase", accounts.FirebaseEnabled()))

	// --- Users (protected) ---
	// requireAuth goes on each route, not the group, so unknown paths still 404
	users := e.Group("/api/users")
	handlers.NewUserHandler(accounts, graph).RegisterUserRoutes(users, requireAuth)
	handlers.NewFollowHandler(graph).RegisterFollowRoutes(users, requireAuth)
	log.Debug("User routes configured")

	// --- Posts (protected) ---
	posts := e.Group("/api/posts")
	handlers.NewFeedHandler(feed).RegisterFeedRoutes(posts, requireAuth)
	handlers.NewPostHandler(feed).RegisterPostRoutes(posts, requireAuth)
	handlers.NewLikeHandler(likes).RegisterLikeRoutes(posts, requireAuth)
	log.Debug("Post routes configured")

	log.Info("All routes configured")
}
