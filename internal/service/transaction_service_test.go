package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transactionFixture struct {
	service         *TransactionService
	transactionRepo *testutil.MockTransactionRepository
	categoryRepo    *testutil.MockCategoryRepository
	subcategoryRepo *testutil.MockSubcategoryRepository
	publisher       *testutil.MockEventPublisher
}

func newTransactionFixture() *transactionFixture {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Food"})
	categoryRepo.AddCategory(&domain.Category{ID: 2, Name: "Home"})
	subcategoryRepo := testutil.NewMockSubcategoryRepository(categoryRepo)
	subcategoryRepo.AddSubcategory(&domain.Subcategory{ID: 10, CategoryID: 1, Name: "Groceries"})

	transactionService := NewTransactionService(transactionRepo, categoryRepo, subcategoryRepo)
	publisher := testutil.NewMockEventPublisher()
	transactionService.SetEventPublisher(publisher)

	return &transactionFixture{
		service:         transactionService,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		publisher:       publisher,
	}
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

var alice = domain.AuthContext{UserID: 1, Email: "alice@example.com"}
var bob = domain.AuthContext{UserID: 2, Email: "bob@example.com"}

func TestListTransactions_DateRangeEndToEnd(t *testing.T) {
	f := newTransactionFixture()
	f.transactionRepo.AddTransaction(&domain.Transaction{UserID: alice.UserID, Amount: decimal.NewFromInt(5), Timestamp: day(1)})
	f.transactionRepo.AddTransaction(&domain.Transaction{UserID: alice.UserID, Amount: decimal.NewFromInt(15), Timestamp: day(2)})
	f.transactionRepo.AddTransaction(&domain.Transaction{UserID: alice.UserID, Amount: decimal.NewFromInt(25), Timestamp: day(3)})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 23, 59, 59, 999999000, time.UTC)
	page, err := f.service.ListTransactions(context.Background(), alice, domain.TransactionListParams{
		ListParams: domain.ListParams{Page: int32Ptr(1), Limit: int32Ptr(10)},
		From:       &from,
		To:         &to,
	})

	require.NoError(t, err)
	assert.Len(t, page.Transactions, 2)
	assert.Equal(t, int64(2), page.Count)
	assert.True(t, page.Average.Equal(decimal.NewFromInt(10)), "average %s", page.Average)
	assert.True(t, page.PageAverage.Equal(decimal.NewFromInt(10)), "page average %s", page.PageAverage)
}

func TestListTransactions_PaginationBoundsRows(t *testing.T) {
	f := newTransactionFixture()
	for i := 1; i <= 25; i++ {
		f.transactionRepo.AddTransaction(&domain.Transaction{UserID: alice.UserID, Amount: decimal.NewFromInt(int64(i)), Timestamp: day(1)})
	}

	page, err := f.service.ListTransactions(context.Background(), alice, domain.TransactionListParams{
		ListParams: domain.ListParams{Page: int32Ptr(3), Limit: int32Ptr(10)},
	})

	require.NoError(t, err)
	assert.Len(t, page.Transactions, 5)
	assert.Equal(t, int32(21), page.Transactions[0].ID, "offset must be (page-1)*limit")
	assert.Equal(t, int64(25), page.Count)
	assert.True(t, page.Average.Equal(decimal.NewFromInt(13)))
	assert.True(t, page.PageAverage.Equal(decimal.NewFromInt(23)))
}

func TestListTransactions_ScopedToCaller(t *testing.T) {
	f := newTransactionFixture()
	f.transactionRepo.AddTransaction(&domain.Transaction{UserID: alice.UserID, Amount: decimal.NewFromInt(1), Timestamp: day(1)})
	f.transactionRepo.AddTransaction(&domain.Transaction{UserID: bob.UserID, Amount: decimal.NewFromInt(100), Timestamp: day(1)})

	page, err := f.service.ListTransactions(context.Background(), alice, domain.TransactionListParams{})

	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, int64(1), page.Count)
	assert.True(t, page.Average.Equal(decimal.NewFromInt(1)))
}

func TestListTransactions_Empty(t *testing.T) {
	f := newTransactionFixture()

	page, err := f.service.ListTransactions(context.Background(), alice, domain.TransactionListParams{})

	require.NoError(t, err)
	assert.True(t, page.IsEmpty())
	assert.Equal(t, int64(0), page.Count)
	assert.True(t, page.Average.IsZero())
	assert.True(t, page.PageAverage.IsZero())
}

func TestListTransactions_InvalidParamsNeverReachStore(t *testing.T) {
	from := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		params domain.TransactionListParams
		want   error
	}{
		{"from after to", domain.TransactionListParams{From: &from, To: &to}, domain.ErrInvalidDateRange},
		{"injected sort column", domain.TransactionListParams{ListParams: domain.ListParams{SortColumn: "id; DROP TABLE users"}}, domain.ErrInvalidSortColumn},
		{"bad direction", domain.TransactionListParams{ListParams: domain.ListParams{SortDirection: "sideways"}}, domain.ErrInvalidSortDirection},
		{"limit above maximum", domain.TransactionListParams{ListParams: domain.ListParams{Page: int32Ptr(1), Limit: int32Ptr(101)}}, domain.ErrLimitExceeded},
		{"zero page", domain.TransactionListParams{ListParams: domain.ListParams{Page: int32Ptr(0), Limit: int32Ptr(10)}}, domain.ErrInvalidPagination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTransactionFixture()

			_, err := f.service.ListTransactions(context.Background(), alice, tt.params)

			assert.ErrorIs(t, err, tt.want)
			assert.True(t, domain.IsValidationError(err))
			assert.Zero(t, f.transactionRepo.SummarizeCalls)
			assert.Zero(t, f.transactionRepo.ListCalls)
		})
	}
}

func TestListTransactions_StoreFailure(t *testing.T) {
	f := newTransactionFixture()
	storeErr := errors.New("connection refused")
	f.transactionRepo.SummarizeFn = func(userID int32, query *domain.TransactionQuery) (*domain.TransactionSummary, error) {
		return nil, storeErr
	}

	_, err := f.service.ListTransactions(context.Background(), alice, domain.TransactionListParams{})

	assert.ErrorIs(t, err, storeErr)
	assert.Zero(t, f.transactionRepo.ListCalls, "rows must not be read after a failed summary")
}

func TestListTransactions_SortByCategoryName(t *testing.T) {
	f := newTransactionFixture()
	f.transactionRepo.CategoryNames[1] = "Food"
	f.transactionRepo.CategoryNames[2] = "Home"
	f.transactionRepo.AddTransaction(&domain.Transaction{UserID: alice.UserID, Amount: decimal.NewFromInt(1), CategoryID: int32Ptr(1), Timestamp: day(1)})
	f.transactionRepo.AddTransaction(&domain.Transaction{UserID: alice.UserID, Amount: decimal.NewFromInt(2), CategoryID: int32Ptr(2), Timestamp: day(1)})

	page, err := f.service.ListTransactions(context.Background(), alice, domain.TransactionListParams{
		ListParams: domain.ListParams{SortColumn: "category", SortDirection: "DESC"},
	})

	require.NoError(t, err)
	require.Len(t, page.Transactions, 2)
	assert.Equal(t, "Home", *page.Transactions[0].CategoryName)
}

func TestCreateTransaction_Success(t *testing.T) {
	f := newTransactionFixture()
	notes := "  weekly shop "

	transaction, err := f.service.CreateTransaction(context.Background(), alice, TransactionInput{
		Amount:        decimal.RequireFromString("42.50"),
		Direction:     "out",
		SubcategoryID: int32Ptr(10),
		Notes:         &notes,
		Timestamp:     timePtr(day(4)),
	})

	require.NoError(t, err)
	assert.Equal(t, alice.UserID, transaction.UserID)
	assert.Equal(t, domain.DirectionOut, transaction.Direction)
	assert.Equal(t, int32(1), *transaction.CategoryID, "subcategory implies its category")
	assert.Equal(t, "weekly shop", *transaction.Notes)
	assert.True(t, transaction.Timestamp.Equal(day(4)))
	assert.Equal(t, []string{"transaction.created"}, f.publisher.UserEvents[alice.UserID])
	assert.Empty(t, f.publisher.UserEvents[bob.UserID])
}

func TestCreateTransaction_DefaultsToIncoming(t *testing.T) {
	f := newTransactionFixture()

	transaction, err := f.service.CreateTransaction(context.Background(), alice, TransactionInput{Amount: decimal.Zero})

	require.NoError(t, err)
	assert.Equal(t, domain.DirectionIn, transaction.Direction)
}

func TestCreateTransaction_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input TransactionInput
		want  error
	}{
		{"negative amount", TransactionInput{Amount: decimal.NewFromInt(-1)}, domain.ErrInvalidAmount},
		{"bad direction", TransactionInput{Amount: decimal.NewFromInt(1), Direction: "SIDEWAYS"}, domain.ErrInvalidDirection},
		{"unknown category", TransactionInput{Amount: decimal.NewFromInt(1), CategoryID: int32Ptr(99)}, domain.ErrCategoryNotFound},
		{"unknown subcategory", TransactionInput{Amount: decimal.NewFromInt(1), SubcategoryID: int32Ptr(99)}, domain.ErrSubcategoryNotFound},
		{"subcategory of another category", TransactionInput{Amount: decimal.NewFromInt(1), CategoryID: int32Ptr(2), SubcategoryID: int32Ptr(10)}, domain.ErrSubcategoryMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTransactionFixture()

			_, err := f.service.CreateTransaction(context.Background(), alice, tt.input)

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.transactionRepo.Transactions)
		})
	}
}

func TestGetTransaction_OtherUserIsNotFound(t *testing.T) {
	f := newTransactionFixture()
	f.transactionRepo.AddTransaction(&domain.Transaction{ID: 7, UserID: alice.UserID, Amount: decimal.NewFromInt(3), Timestamp: day(1)})

	row, err := f.service.GetTransaction(context.Background(), alice, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(7), row.ID)

	_, err = f.service.GetTransaction(context.Background(), bob, 7)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestUpdateTransaction(t *testing.T) {
	f := newTransactionFixture()
	f.transactionRepo.AddTransaction(&domain.Transaction{ID: 7, UserID: alice.UserID, Amount: decimal.NewFromInt(3), Timestamp: day(1)})

	updated, err := f.service.UpdateTransaction(context.Background(), alice, 7, TransactionInput{
		Amount:     decimal.NewFromInt(9),
		Direction:  domain.DirectionOut,
		CategoryID: int32Ptr(2),
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(9)))
	assert.True(t, updated.Timestamp.Equal(day(1)), "timestamp is kept when omitted")

	_, err = f.service.UpdateTransaction(context.Background(), bob, 7, TransactionInput{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestDeleteTransaction_ForeignUserIsNotFound(t *testing.T) {
	f := newTransactionFixture()
	f.transactionRepo.AddTransaction(&domain.Transaction{ID: 7, UserID: alice.UserID, Amount: decimal.NewFromInt(3), Timestamp: day(1)})

	_, err := f.service.DeleteTransaction(context.Background(), bob, 7)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.Contains(t, f.transactionRepo.Transactions, int32(7), "foreign delete must not remove the row")

	deleted, err := f.service.DeleteTransaction(context.Background(), alice, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(7), deleted.ID)
	assert.NotContains(t, f.transactionRepo.Transactions, int32(7))
	assert.Equal(t, []string{"transaction.deleted"}, f.publisher.UserEvents[alice.UserID])
}
