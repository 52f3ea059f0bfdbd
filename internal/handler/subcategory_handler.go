package handler

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// SubcategoryHandler handles subcategory-related HTTP requests
type SubcategoryHandler struct {
	subcategoryService *service.SubcategoryService
}

// NewSubcategoryHandler creates a new SubcategoryHandler
func NewSubcategoryHandler(subcategoryService *service.SubcategoryService) *SubcategoryHandler {
	return &SubcategoryHandler{subcategoryService: subcategoryService}
}

// CreateSubcategoryRequest represents the create subcategory request body
type CreateSubcategoryRequest struct {
	CategoryID int32   `json:"categoryId"`
	Name       string  `json:"name"`
	Notes      *string `json:"notes,omitempty"`
}

// UpdateSubcategoryRequest represents the update subcategory request body
type UpdateSubcategoryRequest struct {
	Name  string  `json:"name"`
	Notes *string `json:"notes,omitempty"`
}

// SubcategoryResponse represents a subcategory in API responses
type SubcategoryResponse struct {
	ID           int32   `json:"id"`
	CategoryID   int32   `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Name         string  `json:"name"`
	Notes        *string `json:"notes"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// GetSubcategories lists subcategories with their category names
// GET /api/subcategories
func (h *SubcategoryHandler) GetSubcategories(c echo.Context) error {
	params, errs := parseListParams(c)
	if len(errs) > 0 {
		return NewValidationError(c, "GET_SUB_CATEGORIES_ERROR", "Invalid query parameters", errs)
	}

	list, err := h.subcategoryService.ListSubcategories(c.Request().Context(), params)
	if err != nil {
		if domain.IsValidationError(err) {
			return NewValidationError(c, "GET_SUB_CATEGORIES_ERROR", "Invalid query parameters", validationErrorsFor(err))
		}
		log.Error().Err(err).Msg("Failed to list subcategories")
		return NewInternalError(c, "GET_SUB_CATEGORIES_ERROR", "Failed to get subcategories")
	}

	return NewSuccess(c, "GET_SUB_CATEGORIES_SUCCESS", "Subcategories retrieved", ListResponse{
		Results: toSubcategoryResponses(list.Subcategories),
		Count:   list.Count,
	})
}

// GetSubcategoriesByCategory lists the subcategories of one category
// GET /api/subcategories/:id
func (h *SubcategoryHandler) GetSubcategoriesByCategory(c echo.Context) error {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "GET_SUB_CATEGORIES_ERROR", "Invalid category ID", nil)
	}

	subcategories, err := h.subcategoryService.GetByCategory(c.Request().Context(), categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewSoftError(c, "GET_SUB_CATEGORIES_ERROR", "Category not found")
		}
		log.Error().Err(err).Int32("category_id", categoryID).Msg("Failed to get subcategories")
		return NewInternalError(c, "GET_SUB_CATEGORIES_ERROR", "Failed to get subcategories")
	}

	return NewSuccess(c, "GET_SUB_CATEGORIES_SUCCESS", "Subcategories retrieved", ListResponse{
		Results: toSubcategoryResponses(subcategories),
		Count:   int64(len(subcategories)),
	})
}

// CreateSubcategory creates a subcategory under an existing category
// POST /api/subcategories
func (h *SubcategoryHandler) CreateSubcategory(c echo.Context) error {
	var req CreateSubcategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "ADD_SUB_CATEGORY_ERROR", "Invalid request body", nil)
	}

	if req.CategoryID <= 0 {
		return NewValidationError(c, "ADD_SUB_CATEGORY_ERROR", "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category ID is required"},
		})
	}

	subcategory, err := h.subcategoryService.CreateSubcategory(c.Request().Context(), service.CreateSubcategoryInput{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Notes:      req.Notes,
	})
	if err != nil {
		if domain.IsValidationError(err) || errors.Is(err, domain.ErrCategoryNotFound) {
			return NewValidationError(c, "ADD_SUB_CATEGORY_ERROR", "Validation failed", validationErrorsFor(err))
		}
		log.Error().Err(err).Int32("category_id", req.CategoryID).Msg("Failed to create subcategory")
		return NewInternalError(c, "ADD_SUB_CATEGORY_ERROR", "Failed to add subcategory")
	}

	return NewCreated(c, "ADD_SUB_CATEGORY_SUCCESS", "Subcategory added", toSubcategoryResponse(subcategory))
}

// UpdateSubcategory renames a subcategory and replaces its notes
// PUT /api/subcategories/:id
func (h *SubcategoryHandler) UpdateSubcategory(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "UPDATE_SUB_CATEGORY_ERROR", "Invalid subcategory ID", nil)
	}

	var req UpdateSubcategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "UPDATE_SUB_CATEGORY_ERROR", "Invalid request body", nil)
	}

	subcategory, err := h.subcategoryService.UpdateSubcategory(c.Request().Context(), id, req.Name, req.Notes)
	if err != nil {
		if domain.IsValidationError(err) {
			return NewValidationError(c, "UPDATE_SUB_CATEGORY_ERROR", "Validation failed", validationErrorsFor(err))
		}
		if errors.Is(err, domain.ErrSubcategoryNotFound) {
			return NewSoftError(c, "UPDATE_SUB_CATEGORY_ERROR", "Subcategory not found")
		}
		log.Error().Err(err).Int32("subcategory_id", id).Msg("Failed to update subcategory")
		return NewInternalError(c, "UPDATE_SUB_CATEGORY_ERROR", "Failed to update subcategory")
	}

	return NewSuccess(c, "UPDATE_SUB_CATEGORY_SUCCESS", "Subcategory updated", toSubcategoryResponse(subcategory))
}

// DeleteSubcategory deletes a subcategory that no transaction references
// DELETE /api/subcategories/:id
func (h *SubcategoryHandler) DeleteSubcategory(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "DELETE_SUB_CATEGORY_ERROR", "Invalid subcategory ID", nil)
	}

	if err := h.subcategoryService.DeleteSubcategory(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrSubcategoryNotFound) {
			return NewSoftError(c, "DELETE_SUB_CATEGORY_ERROR", "Subcategory not found")
		}
		if errors.Is(err, domain.ErrSubcategoryInUse) {
			return NewSoftError(c, "DELETE_SUB_CATEGORY_ERROR", "Subcategory is in use")
		}
		log.Error().Err(err).Int32("subcategory_id", id).Msg("Failed to delete subcategory")
		return NewInternalError(c, "DELETE_SUB_CATEGORY_ERROR", "Failed to delete subcategory")
	}

	return NewSuccess(c, "DELETE_SUB_CATEGORY_SUCCESS", "Subcategory deleted", map[string]int32{"id": id})
}

func toSubcategoryResponses(subcategories []*domain.Subcategory) []SubcategoryResponse {
	results := make([]SubcategoryResponse, len(subcategories))
	for i, subcategory := range subcategories {
		results[i] = toSubcategoryResponse(subcategory)
	}
	return results
}

func toSubcategoryResponse(subcategory *domain.Subcategory) SubcategoryResponse {
	return SubcategoryResponse{
		ID:           subcategory.ID,
		CategoryID:   subcategory.CategoryID,
		CategoryName: subcategory.CategoryName,
		Name:         subcategory.Name,
		Notes:        subcategory.Notes,
		CreatedAt:    subcategory.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    subcategory.UpdatedAt.Format(time.RFC3339),
	}
}
