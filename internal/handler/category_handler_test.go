package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneysuperhero/money-super-hero-backend/internal/cache"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/service"
	"github.com/moneysuperhero/money-super-hero-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCategoryHandlers() (*CategoryHandler, *SubcategoryHandler, *testutil.MockCategoryRepository, *testutil.MockSubcategoryRepository) {
	categoryRepo := testutil.NewMockCategoryRepository()
	subcategoryRepo := testutil.NewMockSubcategoryRepository(categoryRepo)
	categoryCache := cache.New[[]*domain.Category](time.Minute)
	subcategoryCache := cache.New[[]*domain.Subcategory](time.Minute)

	categoryService := service.NewCategoryService(categoryRepo, categoryCache, subcategoryCache)
	subcategoryService := service.NewSubcategoryService(subcategoryRepo, categoryRepo, subcategoryCache)

	return NewCategoryHandler(categoryService), NewSubcategoryHandler(subcategoryService), categoryRepo, subcategoryRepo
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestGetCategories(t *testing.T) {
	h, _, categoryRepo, _ := setupCategoryHandlers()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Rent"})
	categoryRepo.AddCategory(&domain.Category{ID: 2, Name: "Food"})
	categoryRepo.AddCategory(&domain.Category{ID: 3, Name: "Travel"})

	e := echo.New()

	t.Run("all categories", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, h.GetCategories(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec)
		assert.Equal(t, "GET_CATEGORIES_SUCCESS", env.Code)

		var list struct {
			Results []CategoryResponse `json:"results"`
			Count   int64              `json:"count"`
		}
		require.NoError(t, json.Unmarshal(env.Details, &list))
		assert.Equal(t, int64(3), list.Count)
		assert.Len(t, list.Results, 3)
	})

	t.Run("paginated by name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/categories?page=1&limit=2&sortColumn=name", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, h.GetCategories(e.NewContext(req, rec)))

		var list struct {
			Results []CategoryResponse `json:"results"`
			Count   int64              `json:"count"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Details, &list))
		assert.Equal(t, int64(3), list.Count)
		require.Len(t, list.Results, 2)
		assert.Equal(t, "Food", list.Results[0].Name)
		assert.Equal(t, "Rent", list.Results[1].Name)
	})

	t.Run("unknown sort column", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/categories?sortColumn=password", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, h.GetCategories(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "GET_CATEGORIES_ERROR", decodeEnvelope(t, rec).Code)
	})
}

func TestCreateCategory(t *testing.T) {
	h, _, categoryRepo, _ := setupCategoryHandlers()
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/api/categories", `{"name":"  Utilities  ","notes":"power and water"}`)
	require.NoError(t, h.CreateCategory(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var created CategoryResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Details, &created))
	assert.Equal(t, "Utilities", created.Name)
	assert.Contains(t, categoryRepo.Categories, created.ID)

	c, rec = newJSONContext(e, http.MethodPost, "/api/categories", `{"name":""}`)
	require.NoError(t, h.CreateCategory(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "ADD_CATEGORY_ERROR", env.Code)
	assert.Contains(t, string(env.Details), `"field":"name"`)
}

func TestUpdateCategory(t *testing.T) {
	h, _, categoryRepo, _ := setupCategoryHandlers()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Rent"})
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPut, "/api/categories/1", `{"name":"Housing"}`)
	require.NoError(t, h.UpdateCategory(withID(c, "1")))
	assert.Equal(t, "UPDATE_CATEGORY_SUCCESS", decodeEnvelope(t, rec).Code)
	assert.Equal(t, "Housing", categoryRepo.Categories[1].Name)

	c, rec = newJSONContext(e, http.MethodPut, "/api/categories/9", `{"name":"Housing"}`)
	require.NoError(t, h.UpdateCategory(withID(c, "9")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "UPDATE_CATEGORY_ERROR", decodeEnvelope(t, rec).Code)

	c, rec = newJSONContext(e, http.MethodPut, "/api/categories/x", `{"name":"Housing"}`)
	require.NoError(t, h.UpdateCategory(withID(c, "x")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCategory(t *testing.T) {
	h, _, categoryRepo, _ := setupCategoryHandlers()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Rent"})
	categoryRepo.AddCategory(&domain.Category{ID: 2, Name: "Food"})
	categoryRepo.InUse[2] = true
	e := echo.New()

	tests := []struct {
		name        string
		id          string
		wantMessage string
		wantCode    string
	}{
		{"unused", "1", "Category deleted", "DELETE_CATEGORY_SUCCESS"},
		{"in use", "2", "Category is in use", "DELETE_CATEGORY_ERROR"},
		{"missing", "1", "Category not found", "DELETE_CATEGORY_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/categories/"+tt.id, nil)
			rec := httptest.NewRecorder()

			require.NoError(t, h.DeleteCategory(withID(e.NewContext(req, rec), tt.id)))
			assert.Equal(t, http.StatusOK, rec.Code)

			env := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.Equal(t, tt.wantMessage, env.Message)
		})
	}
}

func TestSubcategoryHandlers(t *testing.T) {
	_, h, categoryRepo, subcategoryRepo := setupCategoryHandlers()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Food"})
	e := echo.New()

	// Create under an existing category
	c, rec := newJSONContext(e, http.MethodPost, "/api/subcategories", `{"categoryId":1,"name":"Coffee"}`)
	require.NoError(t, h.CreateSubcategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created SubcategoryResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Details, &created))
	assert.Equal(t, "Coffee", created.Name)
	assert.Equal(t, "Food", created.CategoryName)

	// Unknown category is rejected as malformed input
	c, rec = newJSONContext(e, http.MethodPost, "/api/subcategories", `{"categoryId":42,"name":"Tea"}`)
	require.NoError(t, h.CreateSubcategory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ADD_SUB_CATEGORY_ERROR", decodeEnvelope(t, rec).Code)

	// List by category
	req := httptest.NewRequest(http.MethodGet, "/api/subcategories/1", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.GetSubcategoriesByCategory(withID(e.NewContext(req, rec), "1")))
	assert.Equal(t, "GET_SUB_CATEGORIES_SUCCESS", decodeEnvelope(t, rec).Code)
	assert.Contains(t, rec.Body.String(), `"name":"Coffee"`)

	// List by unknown category
	req = httptest.NewRequest(http.MethodGet, "/api/subcategories/42", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.GetSubcategoriesByCategory(withID(e.NewContext(req, rec), "42")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET_SUB_CATEGORIES_ERROR", decodeEnvelope(t, rec).Code)

	// Paginated listing
	req = httptest.NewRequest(http.MethodGet, "/api/subcategories?page=1&limit=5&sortColumn=category_name", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.GetSubcategories(e.NewContext(req, rec)))
	assert.Equal(t, "GET_SUB_CATEGORIES_SUCCESS", decodeEnvelope(t, rec).Code)

	// Delete while referenced
	subcategoryRepo.InUse[created.ID] = true
	idParam := strconv.Itoa(int(created.ID))
	req = httptest.NewRequest(http.MethodDelete, "/api/subcategories/"+idParam, nil)
	rec = httptest.NewRecorder()
	require.NoError(t, h.DeleteSubcategory(withID(e.NewContext(req, rec), idParam)))
	assert.Equal(t, "Subcategory is in use", decodeEnvelope(t, rec).Message)
}
