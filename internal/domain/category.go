package domain

import (
	"context"
	"time"
)

type Category struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Subcategory struct {
	ID           int32     `json:"id"`
	CategoryID   int32     `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	Name         string    `json:"name"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CategoryList is a page of categories together with the total row count.
type CategoryList struct {
	Categories []*Category
	Count      int64
}

// SubcategoryList is a page of subcategories together with the total row count.
type SubcategoryList struct {
	Subcategories []*Subcategory
	Count         int64
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, id int32) (*Category, error)
	GetAll(ctx context.Context) ([]*Category, error)
	List(ctx context.Context, query *ListQuery) (*CategoryList, error)
	Update(ctx context.Context, id int32, name string, notes *string) (*Category, error)
	Delete(ctx context.Context, id int32) error
}

type SubcategoryRepository interface {
	Create(ctx context.Context, subcategory *Subcategory) (*Subcategory, error)
	GetByID(ctx context.Context, id int32) (*Subcategory, error)
	GetByCategory(ctx context.Context, categoryID int32) ([]*Subcategory, error)
	List(ctx context.Context, query *ListQuery) (*SubcategoryList, error)
	Update(ctx context.Context, id int32, name string, notes *string) (*Subcategory, error)
	Delete(ctx context.Context, id int32) error
}
