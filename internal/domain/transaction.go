package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the polarity of a transaction
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// IsValid reports whether d is IN or OUT
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Transaction is a stored transaction row owned by exactly one user
type Transaction struct {
	ID            int32           `json:"id"`
	UserID        int32           `json:"userId"`
	Timestamp     time.Time       `json:"timestamp"`
	Amount        decimal.Decimal `json:"amount"`
	Direction     Direction       `json:"direction"`
	CategoryID    *int32          `json:"categoryId,omitempty"`
	SubcategoryID *int32          `json:"subcategoryId,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// TransactionRow is a transaction denormalized with its category and
// subcategory names. Names are nil when the reference is unset.
type TransactionRow struct {
	ID              int32
	Amount          decimal.Decimal
	Direction       Direction
	CategoryID      *int32
	CategoryName    *string
	SubcategoryID   *int32
	SubcategoryName *string
	Notes           *string
	Timestamp       time.Time
}

// TransactionSummary holds aggregates over the full filtered scope of a listing
type TransactionSummary struct {
	Count   int64
	Average decimal.Decimal
}

// TransactionPage is the result of listing transactions.
// Count and Average cover the whole filtered scope, PageAverage only Transactions.
// The summary and the rows are read by separate statements and are not
// guaranteed to observe the same snapshot.
type TransactionPage struct {
	Transactions []*TransactionRow
	Count        int64
	Average      decimal.Decimal
	PageAverage  decimal.Decimal
}

// IsEmpty reports whether the listing matched no rows
func (p *TransactionPage) IsEmpty() bool {
	return len(p.Transactions) == 0
}

// TransactionData holds the mutable fields of a transaction
type TransactionData struct {
	Amount        decimal.Decimal
	Direction     Direction
	CategoryID    *int32
	SubcategoryID *int32
	Notes         *string
	Timestamp     *time.Time
}

// TransactionRepository persists transactions. Every method is scoped by userID.
type TransactionRepository interface {
	Create(ctx context.Context, userID int32, data *TransactionData) (*Transaction, error)
	GetByID(ctx context.Context, userID int32, id int32) (*TransactionRow, error)
	Summarize(ctx context.Context, userID int32, query *TransactionQuery) (*TransactionSummary, error)
	List(ctx context.Context, userID int32, query *TransactionQuery) ([]*TransactionRow, error)
	Update(ctx context.Context, userID int32, id int32, data *TransactionData) (*Transaction, error)
	Delete(ctx context.Context, userID int32, id int32) (*Transaction, error)
}
