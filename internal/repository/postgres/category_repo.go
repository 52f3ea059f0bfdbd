package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	db DBTX
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: pool}
}

const categoryColumns = `categories.id, categories.name, categories.notes, categories.created_at, categories.updated_at`

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, notes) VALUES ($1, $2)
		RETURNING `+categoryColumns, category.Name, stringPtrToPgText(category.Notes))
	return scanCategory(row)
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	category, err := scanCategory(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetAll retrieves every category ordered by name
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY categories.name ASC, categories.id ASC`)
	if err != nil {
		return nil, err
	}
	return collectCategories(rows)
}

// List retrieves a sorted, optionally paginated page of categories with the total count
func (r *CategoryRepository) List(ctx context.Context, query *domain.ListQuery) (*domain.CategoryList, error) {
	stmt, err := buildListStatement(`SELECT `+categoryColumns+` FROM categories`, query, categorySortIdentifiers, "categories.id")
	if err != nil {
		return nil, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt.sql, stmt.args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories, err := collectCategories(rows)
	if err != nil {
		return nil, err
	}

	return &domain.CategoryList{Categories: categories, Count: count}, nil
}

// Update updates a category's name and notes
func (r *CategoryRepository) Update(ctx context.Context, id int32, name string, notes *string) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE categories SET name = $2, notes = $3
		WHERE id = $1
		RETURNING `+categoryColumns, id, name, stringPtrToPgText(notes))
	category, err := scanCategory(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// Delete hard-deletes a category. Referenced categories are rejected by the store.
func (r *CategoryRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func collectCategories(rows pgx.Rows) ([]*domain.Category, error) {
	defer rows.Close()

	result := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		c     domain.Category
		notes pgtype.Text
	)
	if err := row.Scan(&c.ID, &c.Name, &notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Notes = pgTextToStringPtr(notes)
	return &c, nil
}
