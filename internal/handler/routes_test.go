package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneysuperhero/money-super-hero-backend/internal/cache"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/middleware"
	"github.com/moneysuperhero/money-super-hero-backend/internal/service"
	"github.com/moneysuperhero/money-super-hero-backend/internal/session"
	"github.com/moneysuperhero/money-super-hero-backend/internal/testutil"
	"github.com/moneysuperhero/money-super-hero-backend/internal/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*echo.Echo, *session.Manager, *testutil.MockTransactionRepository) {
	t.Helper()

	userRepo := testutil.NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: 1, Email: testEmail})
	categoryRepo := testutil.NewMockCategoryRepository()
	subcategoryRepo := testutil.NewMockSubcategoryRepository(categoryRepo)
	transactionRepo := testutil.NewMockTransactionRepository()

	categoryCache := cache.New[[]*domain.Category](time.Minute)
	subcategoryCache := cache.New[[]*domain.Subcategory](time.Minute)

	authService := service.NewAuthService(userRepo)
	sessions := session.NewManager("router-secret", time.Hour, false)
	rateLimiter := middleware.NewRateLimiter()
	t.Cleanup(rateLimiter.Stop)

	e := echo.New()
	RegisterRoutes(e, middleware.NewAuthMiddleware(sessions), rateLimiter, Handlers{
		Auth:        NewAuthHandler(authService, sessions),
		Profile:     NewProfileHandler(service.NewProfileService(userRepo), authService),
		Category:    NewCategoryHandler(service.NewCategoryService(categoryRepo, categoryCache, subcategoryCache)),
		Subcategory: NewSubcategoryHandler(service.NewSubcategoryService(subcategoryRepo, categoryRepo, subcategoryCache)),
		Transaction: NewTransactionHandler(
			service.NewTransactionService(transactionRepo, categoryRepo, subcategoryRepo),
			service.NewExportService(transactionRepo),
			authService,
		),
		WebSocket: NewWebSocketHandler(websocket.NewHub(), sessions, authService, nil),
	})
	return e, sessions, transactionRepo
}

func TestRoutes_Health(t *testing.T) {
	e, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRoutes_ProtectedWithoutSession(t *testing.T) {
	e, _, _ := setupRouter(t)

	for _, path := range []string{"/api/transactions", "/api/categories", "/api/subcategories", "/api/users/myself"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"AUTH_ERROR"`)
		})
	}
}

func TestRoutes_TransactionsWithSession(t *testing.T) {
	e, sessions, transactionRepo := setupRouter(t)
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:        1,
		UserID:    1,
		Amount:    decimal.NewFromInt(20),
		Timestamp: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	})

	token, err := sessions.Issue(testEmail)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?page=1&limit=10", nil)
	req.AddCookie(sessions.NewCookie(token))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"GET_TRANSACTIONS_SUCCESS"`)
	assert.Contains(t, rec.Body.String(), `"pageAverage":"20.00"`)

	// The export route is not captured by /:id
	req = httptest.NewRequest(http.MethodGet, "/api/transactions/export", nil)
	req.AddCookie(sessions.NewCookie(token))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))
}
