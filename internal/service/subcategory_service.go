package service

import (
	"context"
	"strconv"

	"github.com/moneysuperhero/money-super-hero-backend/internal/cache"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/websocket"
)

// SubcategoryService handles subcategory business logic
type SubcategoryService struct {
	subcategoryRepo  domain.SubcategoryRepository
	categoryRepo     domain.CategoryRepository
	subcategoryCache *cache.TTLCache[[]*domain.Subcategory]
	eventPublisher   websocket.EventPublisher
}

// NewSubcategoryService creates a new SubcategoryService
func NewSubcategoryService(subcategoryRepo domain.SubcategoryRepository, categoryRepo domain.CategoryRepository, subcategoryCache *cache.TTLCache[[]*domain.Subcategory]) *SubcategoryService {
	return &SubcategoryService{
		subcategoryRepo:  subcategoryRepo,
		categoryRepo:     categoryRepo,
		subcategoryCache: subcategoryCache,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SubcategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SubcategoryService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.PublishAll(event)
	}
}

// CreateSubcategoryInput holds the input for creating a subcategory
type CreateSubcategoryInput struct {
	CategoryID int32
	Name       string
	Notes      *string
}

// ListSubcategories returns a sorted and optionally paginated page of
// subcategories with their category names
func (s *SubcategoryService) ListSubcategories(ctx context.Context, params domain.ListParams) (*domain.SubcategoryList, error) {
	query, err := domain.NewListQuery(params, domain.SubcategorySortColumns)
	if err != nil {
		return nil, err
	}
	return s.subcategoryRepo.List(ctx, query)
}

// GetByCategory returns the subcategories of an existing category ordered by name
func (s *SubcategoryService) GetByCategory(ctx context.Context, categoryID int32) ([]*domain.Subcategory, error) {
	key := strconv.FormatInt(int64(categoryID), 10)
	if subcategories, ok := s.subcategoryCache.Get(key); ok {
		return subcategories, nil
	}

	generation := s.subcategoryCache.Generation()
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	subcategories, err := s.subcategoryRepo.GetByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	s.subcategoryCache.SetIfGeneration(key, subcategories, generation)
	return subcategories, nil
}

// CreateSubcategory creates a subcategory under an existing category
func (s *SubcategoryService) CreateSubcategory(ctx context.Context, input CreateSubcategoryInput) (*domain.Subcategory, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	subcategory, err := s.subcategoryRepo.Create(ctx, &domain.Subcategory{
		CategoryID: input.CategoryID,
		Name:       name,
		Notes:      trimNotes(input.Notes),
	})
	if err != nil {
		return nil, err
	}

	s.subcategoryCache.Clear()
	s.publishEvent(websocket.SubcategoryChanged(websocket.EventTypeCreated, subcategory))
	return subcategory, nil
}

// UpdateSubcategory updates a subcategory's name and notes
func (s *SubcategoryService) UpdateSubcategory(ctx context.Context, id int32, name string, notes *string) (*domain.Subcategory, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	subcategory, err := s.subcategoryRepo.Update(ctx, id, name, trimNotes(notes))
	if err != nil {
		return nil, err
	}

	s.subcategoryCache.Clear()
	s.publishEvent(websocket.SubcategoryChanged(websocket.EventTypeUpdated, subcategory))
	return subcategory, nil
}

// DeleteSubcategory deletes a subcategory that no transaction references
func (s *SubcategoryService) DeleteSubcategory(ctx context.Context, id int32) error {
	if err := s.subcategoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.subcategoryCache.Clear()
	s.publishEvent(websocket.SubcategoryChanged(websocket.EventTypeDeleted, map[string]interface{}{"id": id}))
	return nil
}
