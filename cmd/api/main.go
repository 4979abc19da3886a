package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/collabboard/collabboard-backend/internal/config"
	"github.com/collabboard/collabboard-backend/internal/handler"
	"github.com/collabboard/collabboard-backend/internal/middleware"
	"github.com/collabboard/collabboard-backend/internal/repository/postgres"
	"github.com/collabboard/collabboard-backend/internal/service"
	"github.com/collabboard/collabboard-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Apply pending migrations
	if err := postgres.Migrate(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	cardRepo := postgres.NewCardRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	workspaceService := service.NewWorkspaceService(workspaceRepo, userRepo)
	cardService := service.NewCardService(cardRepo, workspaceRepo)
	commentService := service.NewCommentService(commentRepo, cardRepo, workspaceRepo)

	// The hub is the single connection registry, constructed here and handed
	// to everything that broadcasts
	hub := websocket.NewHub()
	workspaceService.SetEventPublisher(hub)
	cardService.SetEventPublisher(hub)
	commentService.SetEventPublisher(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	cardHandler := handler.NewCardHandler(cardService)
	commentHandler := handler.NewCommentHandler(commentService)
	wsValidator := websocket.NewJWTValidator(cfg.JWTSecret)
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, workspaceService, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, authHandler, workspaceHandler, cardHandler, commentHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
