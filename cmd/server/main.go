package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/collexa/backend/internal/auth"
	"github.com/anonto42/collexa/backend/internal/models"
	"github.com/anonto42/collexa/backend/internal/repositories"
	"github.com/anonto42/collexa/backend/internal/router"
	"github.com/anonto42/collexa/backend/pkg/config"
	"github.com/anonto42/collexa/backend/pkg/firebase"
	"github.com/anonto42/collexa/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := router.Dependencies{
		Tokens: auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Logger: zlog,
	}

	switch cfg.StorageBackend {
	case config.StorageMemory:
		zlog.Warn("Using in-memory storage, data is lost on exit")
		deps.Users = repositories.NewMemoryUserRepository()
		deps.Posts = repositories.NewMemoryPostRepository()
	default:
		db, err := config.InitDB(cfg)
		if err != nil {
			zlog.Fatal("Failed to initialize databases", zap.Error(err))
		}
		defer db.CloseDB()

		if err := db.Postgres.AutoMigrate(&models.User{}); err != nil {
			zlog.Fatal("Failed to auto migrate models", zap.Error(err))
		}

		posts := repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase))
		if err := posts.EnsureIndexes(ctx); err != nil {
			zlog.Fatal("Failed to create post indexes", zap.Error(err))
		}
		deps.Users = repositories.NewPostgresUserRepository(db.Postgres)
		deps.Posts = posts
	}

	if cfg.FirebaseEnabled() {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			zlog.Fatal("Failed to initialize Firebase", zap.Error(err))
		}
		deps.Firebase = firebaseApp.AuthClient
	}

	e := echo.New()
	e.HideBanner = true
	config.SetupMiddleware(e, zlog)
	router.SetupRoutes(e, deps)

	go func() {
		zlog.Info("Starting server", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageBackend))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown failed", zap.Error(err))
	}
}
