package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/moneysuperhero/money-super-hero-backend/internal/cache"
	"github.com/moneysuperhero/money-super-hero-backend/internal/config"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/handler"
	"github.com/moneysuperhero/money-super-hero-backend/internal/middleware"
	"github.com/moneysuperhero/money-super-hero-backend/internal/repository/postgres"
	"github.com/moneysuperhero/money-super-hero-backend/internal/service"
	"github.com/moneysuperhero/money-super-hero-backend/internal/session"
	"github.com/moneysuperhero/money-super-hero-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const cacheCleanupInterval = time.Minute

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

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Database migrations applied")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	subcategoryRepo := postgres.NewSubcategoryRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)

	// Category read caches, shared so category writes also drop subcategory entries
	categoryCache := cache.New[[]*domain.Category](cfg.CacheTTL)
	subcategoryCache := cache.New[[]*domain.Subcategory](cfg.CacheTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	profileService := service.NewProfileService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo, categoryCache, subcategoryCache)
	subcategoryService := service.NewSubcategoryService(subcategoryRepo, categoryRepo, subcategoryCache)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, subcategoryRepo)
	exportService := service.NewExportService(transactionRepo)

	// Live updates
	hub := websocket.NewHub()
	categoryService.SetEventPublisher(hub)
	subcategoryService.SetEventPublisher(hub)
	transactionService.SetEventPublisher(hub)

	// Sessions and auth middleware
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionMaxAge, cfg.IsProduction())
	authMiddleware := middleware.NewAuthMiddleware(sessions)
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.AuthRateLimit, cfg.AuthRateBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, sessions),
		Profile:     handler.NewProfileHandler(profileService, authService),
		Category:    handler.NewCategoryHandler(categoryService),
		Subcategory: handler.NewSubcategoryHandler(subcategoryService),
		Transaction: handler.NewTransactionHandler(transactionService, exportService, authService),
		WebSocket:   handler.NewWebSocketHandler(hub, sessions, authService, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = middleware.ClientIPExtractor(cfg.TrustedProxies)

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware. Credentials are required for the session cookie.
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
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

	// Register routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Drop expired cache entries in the background
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go cleanCaches(cleanupCtx, categoryCache, subcategoryCache)

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

type expiringCache interface {
	CleanExpired() int
}

// cleanCaches periodically evicts expired entries until ctx is done
func cleanCaches(ctx context.Context, caches ...expiringCache) {
	ticker := time.NewTicker(cacheCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := 0
			for _, c := range caches {
				removed += c.CleanExpired()
			}
			if removed > 0 {
				log.Debug().Int("removed", removed).Msg("Cleaned expired cache entries")
			}
		case <-ctx.Done():
			return
		}
	}
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
