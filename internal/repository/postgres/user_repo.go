package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

const userColumns = `id, first_name, last_name, email, password, created_at, updated_at`

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ExistsByEmail reports whether a user with email is registered
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		stringPtrToPgText(user.FirstName),
		stringPtrToPgText(user.LastName),
		user.Email,
		user.PasswordHash,
	)
	created, err := scanUser(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// UpdateName updates the user's first and last name by email
func (r *UserRepository) UpdateName(ctx context.Context, email string, firstName, lastName *string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users SET first_name = $2, last_name = $3
		WHERE email = $1
		RETURNING `+userColumns,
		email,
		stringPtrToPgText(firstName),
		stringPtrToPgText(lastName),
	)
	updated, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return updated, nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password = $2 WHERE email = $1`, email, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u         domain.User
		firstName pgtype.Text
		lastName  pgtype.Text
	)
	if err := row.Scan(&u.ID, &firstName, &lastName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.FirstName = pgTextToStringPtr(firstName)
	u.LastName = pgTextToStringPtr(lastName)
	return &u, nil
}
