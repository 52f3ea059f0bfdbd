package handler

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the create and update category request body
type CategoryRequest struct {
	Name  string  `json:"name"`
	Notes *string `json:"notes,omitempty"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        int32   `json:"id"`
	Name      string  `json:"name"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// ListResponse wraps a page of results with the total row count
type ListResponse struct {
	Results interface{} `json:"results"`
	Count   int64       `json:"count"`
}

// GetCategories lists categories, sorted and optionally paginated
// GET /api/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	params, errs := parseListParams(c)
	if len(errs) > 0 {
		return NewValidationError(c, "GET_CATEGORIES_ERROR", "Invalid query parameters", errs)
	}

	list, err := h.categoryService.ListCategories(c.Request().Context(), params)
	if err != nil {
		if domain.IsValidationError(err) {
			return NewValidationError(c, "GET_CATEGORIES_ERROR", "Invalid query parameters", validationErrorsFor(err))
		}
		log.Error().Err(err).Msg("Failed to list categories")
		return NewInternalError(c, "GET_CATEGORIES_ERROR", "Failed to get categories")
	}

	results := make([]CategoryResponse, len(list.Categories))
	for i, category := range list.Categories {
		results[i] = toCategoryResponse(category)
	}

	return NewSuccess(c, "GET_CATEGORIES_SUCCESS", "Categories retrieved", ListResponse{
		Results: results,
		Count:   list.Count,
	})
}

// CreateCategory creates a new category
// POST /api/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "ADD_CATEGORY_ERROR", "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), req.Name, req.Notes)
	if err != nil {
		if domain.IsValidationError(err) {
			return NewValidationError(c, "ADD_CATEGORY_ERROR", "Validation failed", validationErrorsFor(err))
		}
		log.Error().Err(err).Msg("Failed to create category")
		return NewInternalError(c, "ADD_CATEGORY_ERROR", "Failed to add category")
	}

	return NewCreated(c, "ADD_CATEGORY_SUCCESS", "Category added", toCategoryResponse(category))
}

// UpdateCategory renames a category and replaces its notes
// PUT /api/categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "UPDATE_CATEGORY_ERROR", "Invalid category ID", nil)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "UPDATE_CATEGORY_ERROR", "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), id, req.Name, req.Notes)
	if err != nil {
		if domain.IsValidationError(err) {
			return NewValidationError(c, "UPDATE_CATEGORY_ERROR", "Validation failed", validationErrorsFor(err))
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewSoftError(c, "UPDATE_CATEGORY_ERROR", "Category not found")
		}
		log.Error().Err(err).Int32("category_id", id).Msg("Failed to update category")
		return NewInternalError(c, "UPDATE_CATEGORY_ERROR", "Failed to update category")
	}

	return NewSuccess(c, "UPDATE_CATEGORY_SUCCESS", "Category updated", toCategoryResponse(category))
}

// DeleteCategory deletes a category that nothing references
// DELETE /api/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "DELETE_CATEGORY_ERROR", "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewSoftError(c, "DELETE_CATEGORY_ERROR", "Category not found")
		}
		if errors.Is(err, domain.ErrCategoryInUse) {
			return NewSoftError(c, "DELETE_CATEGORY_ERROR", "Category is in use")
		}
		log.Error().Err(err).Int32("category_id", id).Msg("Failed to delete category")
		return NewInternalError(c, "DELETE_CATEGORY_ERROR", "Failed to delete category")
	}

	return NewSuccess(c, "DELETE_CATEGORY_SUCCESS", "Category deleted", map[string]int32{"id": id})
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Notes:     category.Notes,
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
		UpdatedAt: category.UpdatedAt.Format(time.RFC3339),
	}
}
