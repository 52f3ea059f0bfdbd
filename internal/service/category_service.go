package service

import (
	"context"
	"strings"

	"github.com/moneysuperhero/money-super-hero-backend/internal/cache"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/websocket"
)

const allCategoriesKey = "all"

// CategoryService handles category business logic. The full, name-ordered
// category list is served from cache until a write invalidates it.
type CategoryService struct {
	categoryRepo     domain.CategoryRepository
	categoryCache    *cache.TTLCache[[]*domain.Category]
	subcategoryCache *cache.TTLCache[[]*domain.Subcategory]
	eventPublisher   websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService. Category writes also clear
// subcategoryCache since cached subcategories carry their category name.
func NewCategoryService(categoryRepo domain.CategoryRepository, categoryCache *cache.TTLCache[[]*domain.Category], subcategoryCache *cache.TTLCache[[]*domain.Subcategory]) *CategoryService {
	return &CategoryService{
		categoryRepo:     categoryRepo,
		categoryCache:    categoryCache,
		subcategoryCache: subcategoryCache,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CategoryService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.PublishAll(event)
	}
}

// GetCategories returns every category ordered by name
func (s *CategoryService) GetCategories(ctx context.Context) ([]*domain.Category, error) {
	if categories, ok := s.categoryCache.Get(allCategoriesKey); ok {
		return categories, nil
	}

	generation := s.categoryCache.Generation()
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.categoryCache.SetIfGeneration(allCategoriesKey, categories, generation)
	return categories, nil
}

// ListCategories returns categories. Without any listing parameters it returns
// the full name-ordered list, otherwise a sorted and optionally paginated page.
func (s *CategoryService) ListCategories(ctx context.Context, params domain.ListParams) (*domain.CategoryList, error) {
	if isUnconstrained(params) {
		categories, err := s.GetCategories(ctx)
		if err != nil {
			return nil, err
		}
		return &domain.CategoryList{Categories: categories, Count: int64(len(categories))}, nil
	}

	query, err := domain.NewListQuery(params, domain.CategorySortColumns)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.List(ctx, query)
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, name string, notes *string) (*domain.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Create(ctx, &domain.Category{Name: name, Notes: trimNotes(notes)})
	if err != nil {
		return nil, err
	}

	s.invalidate()
	s.publishEvent(websocket.CategoryChanged(websocket.EventTypeCreated, category))
	return category, nil
}

// UpdateCategory updates a category's name and notes
func (s *CategoryService) UpdateCategory(ctx context.Context, id int32, name string, notes *string) (*domain.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Update(ctx, id, name, trimNotes(notes))
	if err != nil {
		return nil, err
	}

	s.invalidate()
	s.publishEvent(websocket.CategoryChanged(websocket.EventTypeUpdated, category))
	return category, nil
}

// DeleteCategory deletes a category that nothing references
func (s *CategoryService) DeleteCategory(ctx context.Context, id int32) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate()
	s.publishEvent(websocket.CategoryChanged(websocket.EventTypeDeleted, map[string]interface{}{"id": id}))
	return nil
}

func (s *CategoryService) invalidate() {
	s.categoryCache.Clear()
	s.subcategoryCache.Clear()
}

func isUnconstrained(params domain.ListParams) bool {
	return params.Page == nil && params.Limit == nil && params.SortColumn == "" && params.SortDirection == ""
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

// trimNotes trims notes; blank notes become nil
func trimNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
