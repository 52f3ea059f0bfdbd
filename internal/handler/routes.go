package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moneysuperhero/money-super-hero-backend/internal/middleware"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes
type Handlers struct {
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Category    *CategoryHandler
	Subcategory *SubcategoryHandler
	Transaction *TransactionHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	// User routes (signup and signin are public and rate limited)
	users := api.Group("/users")
	users.POST("/signup", h.Auth.Signup, middleware.RateLimitMiddleware(rateLimiter))
	users.POST("/signin", h.Auth.Signin, middleware.RateLimitMiddleware(rateLimiter))
	users.GET("/logout", h.Auth.Logout)
	users.GET("/check", h.Auth.Check)
	users.GET("/myself", h.Profile.GetProfile, authMiddleware.Authenticate())
	users.PUT("/myself", h.Profile.UpdateProfile, authMiddleware.Authenticate())
	users.PUT("/password", h.Profile.UpdatePassword, authMiddleware.Authenticate())

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate())
	categories.GET("", h.Category.GetCategories)
	categories.POST("", h.Category.CreateCategory)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	// Subcategory routes (protected). GET /:id takes a category id.
	subcategories := api.Group("/subcategories")
	subcategories.Use(authMiddleware.Authenticate())
	subcategories.GET("", h.Subcategory.GetSubcategories)
	subcategories.POST("", h.Subcategory.CreateSubcategory)
	subcategories.GET("/:id", h.Subcategory.GetSubcategoriesByCategory)
	subcategories.PUT("/:id", h.Subcategory.UpdateSubcategory)
	subcategories.DELETE("/:id", h.Subcategory.DeleteSubcategory)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("/export", h.Transaction.ExportTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	// WebSocket authenticates from the session cookie itself
	api.GET("/ws", h.WebSocket.HandleWS)
}
