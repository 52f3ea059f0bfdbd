package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: pool}
}

const transactionColumns = `id, user_id, timestamp, amount, direction::text, category, sub_category, notes, created_at, updated_at`

// Create inserts a transaction owned by userID. The timestamp defaults to now.
func (r *TransactionRepository) Create(ctx context.Context, userID int32, data *domain.TransactionData) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var timestamp pgtype.Timestamp
	if data.Timestamp != nil {
		timestamp = pgtype.Timestamp{Time: *data.Timestamp, Valid: true}
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO transactions (user_id, timestamp, amount, direction, category, sub_category, notes)
		VALUES ($1, COALESCE($2::timestamp, LOCALTIMESTAMP), $3, $4::direction, $5, $6, $7)
		RETURNING `+transactionColumns,
		userID,
		timestamp,
		amount,
		string(data.Direction),
		int32PtrToPgInt4(data.CategoryID),
		int32PtrToPgInt4(data.SubcategoryID),
		stringPtrToPgText(data.Notes),
	)

	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, translateReferenceError(err)
	}
	return transaction, nil
}

// GetByID retrieves a single denormalized transaction owned by userID
func (r *TransactionRepository) GetByID(ctx context.Context, userID int32, id int32) (*domain.TransactionRow, error) {
	row := r.db.QueryRow(ctx, "SELECT"+transactionRowColumns+transactionJoins+`
		WHERE transactions.user_id = $1 AND transactions.id = $2`, userID, id)

	transaction, err := scanTransactionRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// Summarize returns the row count and average amount over the filtered scope,
// ignoring pagination
func (r *TransactionRepository) Summarize(ctx context.Context, userID int32, query *domain.TransactionQuery) (*domain.TransactionSummary, error) {
	stmt := buildTransactionSummaryStatement(userID, query)

	var count int64
	var average pgtype.Numeric
	if err := r.db.QueryRow(ctx, stmt.sql, stmt.args...).Scan(&count, &average); err != nil {
		return nil, fmt.Errorf("summarize transactions: %w", err)
	}

	return &domain.TransactionSummary{
		Count:   count,
		Average: pgNumericToDecimal(average),
	}, nil
}

// List retrieves the filtered, sorted and paginated rows
func (r *TransactionRepository) List(ctx context.Context, userID int32, query *domain.TransactionQuery) ([]*domain.TransactionRow, error) {
	stmt, err := buildTransactionListStatement(userID, query)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, stmt.sql, stmt.args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.TransactionRow, 0)
	for rows.Next() {
		transaction, err := scanTransactionRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return result, nil
}

// Update replaces the mutable fields of a transaction owned by userID
func (r *TransactionRepository) Update(ctx context.Context, userID int32, id int32, data *domain.TransactionData) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var timestamp pgtype.Timestamp
	if data.Timestamp != nil {
		timestamp = pgtype.Timestamp{Time: *data.Timestamp, Valid: true}
	}

	row := r.db.QueryRow(ctx, `
		UPDATE transactions
		SET amount = $3,
			direction = $4::direction,
			category = $5,
			sub_category = $6,
			notes = $7,
			timestamp = COALESCE($8::timestamp, timestamp)
		WHERE user_id = $1 AND id = $2
		RETURNING `+transactionColumns,
		userID,
		id,
		amount,
		string(data.Direction),
		int32PtrToPgInt4(data.CategoryID),
		int32PtrToPgInt4(data.SubcategoryID),
		stringPtrToPgText(data.Notes),
		timestamp,
	)

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, translateReferenceError(err)
	}
	return transaction, nil
}

// Delete hard-deletes a transaction. Rows owned by another user are never matched.
func (r *TransactionRepository) Delete(ctx context.Context, userID int32, id int32) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `
		DELETE FROM transactions
		WHERE user_id = $1 AND id = $2
		RETURNING `+transactionColumns, userID, id)

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// translateReferenceError maps foreign key violations on category references
func translateReferenceError(err error) error {
	if !isPgForeignKeyViolation(err) {
		return err
	}
	switch foreignKeyConstraint(err) {
	case "transactions_sub_category_fkey":
		return domain.ErrSubcategoryNotFound
	default:
		return domain.ErrCategoryNotFound
	}
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t             domain.Transaction
		amount        pgtype.Numeric
		direction     string
		categoryID    pgtype.Int4
		subcategoryID pgtype.Int4
		notes         pgtype.Text
	)
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Timestamp,
		&amount,
		&direction,
		&categoryID,
		&subcategoryID,
		&notes,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Amount = pgNumericToDecimal(amount)
	t.Direction = domain.Direction(direction)
	t.CategoryID = pgInt4ToInt32Ptr(categoryID)
	t.SubcategoryID = pgInt4ToInt32Ptr(subcategoryID)
	t.Notes = pgTextToStringPtr(notes)
	return &t, nil
}

func scanTransactionRow(row pgx.Row) (*domain.TransactionRow, error) {
	var (
		t               domain.TransactionRow
		amount          pgtype.Numeric
		direction       string
		categoryID      pgtype.Int4
		categoryName    pgtype.Text
		subcategoryID   pgtype.Int4
		subcategoryName pgtype.Text
		notes           pgtype.Text
	)
	if err := row.Scan(
		&t.ID,
		&amount,
		&direction,
		&categoryID,
		&categoryName,
		&subcategoryID,
		&subcategoryName,
		&notes,
		&t.Timestamp,
	); err != nil {
		return nil, err
	}

	t.Amount = pgNumericToDecimal(amount)
	t.Direction = domain.Direction(direction)
	t.CategoryID = pgInt4ToInt32Ptr(categoryID)
	t.CategoryName = pgTextToStringPtr(categoryName)
	t.SubcategoryID = pgInt4ToInt32Ptr(subcategoryID)
	t.SubcategoryName = pgTextToStringPtr(subcategoryName)
	t.Notes = pgTextToStringPtr(notes)
	return &t, nil
}
