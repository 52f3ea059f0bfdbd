package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
)

// SubcategoryRepository implements domain.SubcategoryRepository using PostgreSQL
type SubcategoryRepository struct {
	db DBTX
}

// NewSubcategoryRepository creates a new SubcategoryRepository
func NewSubcategoryRepository(pool *pgxpool.Pool) *SubcategoryRepository {
	return &SubcategoryRepository{db: pool}
}

const subcategorySelect = `
SELECT
	sub_categories.id,
	sub_categories.category_id,
	categories.name,
	sub_categories.name,
	sub_categories.notes,
	sub_categories.created_at,
	sub_categories.updated_at
FROM sub_categories
JOIN categories ON sub_categories.category_id = categories.id`

// Create creates a new subcategory under an existing category
func (r *SubcategoryRepository) Create(ctx context.Context, subcategory *domain.Subcategory) (*domain.Subcategory, error) {
	var id int32
	err := r.db.QueryRow(ctx, `
		INSERT INTO sub_categories (name, notes, category_id) VALUES ($1, $2, $3)
		RETURNING id`,
		subcategory.Name,
		stringPtrToPgText(subcategory.Notes),
		subcategory.CategoryID,
	).Scan(&id)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves a subcategory by ID
func (r *SubcategoryRepository) GetByID(ctx context.Context, id int32) (*domain.Subcategory, error) {
	row := r.db.QueryRow(ctx, subcategorySelect+` WHERE sub_categories.id = $1`, id)
	subcategory, err := scanSubcategory(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrSubcategoryNotFound
		}
		return nil, err
	}
	return subcategory, nil
}

// GetByCategory retrieves the subcategories of a category ordered by name
func (r *SubcategoryRepository) GetByCategory(ctx context.Context, categoryID int32) ([]*domain.Subcategory, error) {
	rows, err := r.db.Query(ctx, subcategorySelect+`
		WHERE sub_categories.category_id = $1
		ORDER BY sub_categories.name ASC, sub_categories.id ASC`, categoryID)
	if err != nil {
		return nil, err
	}
	return collectSubcategories(rows)
}

// List retrieves a sorted, optionally paginated page of subcategories with the total count
func (r *SubcategoryRepository) List(ctx context.Context, query *domain.ListQuery) (*domain.SubcategoryList, error) {
	stmt, err := buildListStatement(subcategorySelect, query, subcategorySortIdentifiers, "sub_categories.id")
	if err != nil {
		return nil, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sub_categories`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count subcategories: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt.sql, stmt.args...)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	subcategories, err := collectSubcategories(rows)
	if err != nil {
		return nil, err
	}

	return &domain.SubcategoryList{Subcategories: subcategories, Count: count}, nil
}

// Update updates a subcategory's name and notes
func (r *SubcategoryRepository) Update(ctx context.Context, id int32, name string, notes *string) (*domain.Subcategory, error) {
	tag, err := r.db.Exec(ctx, `UPDATE sub_categories SET name = $2, notes = $3 WHERE id = $1`, id, name, stringPtrToPgText(notes))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrSubcategoryNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete hard-deletes a subcategory. Referenced subcategories are rejected by the store.
func (r *SubcategoryRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sub_categories WHERE id = $1`, id)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return domain.ErrSubcategoryInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubcategoryNotFound
	}
	return nil
}

func collectSubcategories(rows pgx.Rows) ([]*domain.Subcategory, error) {
	defer rows.Close()

	result := make([]*domain.Subcategory, 0)
	for rows.Next() {
		subcategory, err := scanSubcategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, subcategory)
	}
	return result, rows.Err()
}

func scanSubcategory(row pgx.Row) (*domain.Subcategory, error) {
	var (
		s     domain.Subcategory
		notes pgtype.Text
	)
	if err := row.Scan(&s.ID, &s.CategoryID, &s.CategoryName, &s.Name, &notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Notes = pgTextToStringPtr(notes)
	return &s, nil
}
