package service

import (
	"context"
	"strings"
	"time"

	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction business logic. Every operation is
// scoped to the caller's user id.
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	subcategoryRepo domain.SubcategoryRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository, subcategoryRepo domain.SubcategoryRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *TransactionService) publishEvent(userID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// TransactionInput holds the input for creating or updating a transaction
type TransactionInput struct {
	Amount        decimal.Decimal
	Direction     domain.Direction
	CategoryID    *int32
	SubcategoryID *int32
	Notes         *string
	Timestamp     *time.Time
}

// ListTransactions validates params, then reads the summary of the whole
// filtered scope followed by the requested page. Nothing reaches the store
// when params are invalid.
func (s *TransactionService) ListTransactions(ctx context.Context, auth domain.AuthContext, params domain.TransactionListParams) (*domain.TransactionPage, error) {
	query, err := domain.NewTransactionQuery(params)
	if err != nil {
		return nil, err
	}

	summary, err := s.transactionRepo.Summarize(ctx, auth.UserID, query)
	if err != nil {
		return nil, err
	}

	rows, err := s.transactionRepo.List(ctx, auth.UserID, query)
	if err != nil {
		return nil, err
	}

	return &domain.TransactionPage{
		Transactions: rows,
		Count:        summary.Count,
		Average:      summary.Average,
		PageAverage:  domain.AverageAmount(rows),
	}, nil
}

// GetTransaction retrieves one of the caller's transactions
func (s *TransactionService) GetTransaction(ctx context.Context, auth domain.AuthContext, id int32) (*domain.TransactionRow, error) {
	return s.transactionRepo.GetByID(ctx, auth.UserID, id)
}

// CreateTransaction validates input and records a transaction for the caller
func (s *TransactionService) CreateTransaction(ctx context.Context, auth domain.AuthContext, input TransactionInput) (*domain.Transaction, error) {
	data, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}

	transaction, err := s.transactionRepo.Create(ctx, auth.UserID, data)
	if err != nil {
		return nil, err
	}

	s.publishEvent(auth.UserID, websocket.TransactionCreated(transaction))
	return transaction, nil
}

// UpdateTransaction validates input and replaces one of the caller's transactions
func (s *TransactionService) UpdateTransaction(ctx context.Context, auth domain.AuthContext, id int32, input TransactionInput) (*domain.Transaction, error) {
	data, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}

	transaction, err := s.transactionRepo.Update(ctx, auth.UserID, id, data)
	if err != nil {
		return nil, err
	}

	s.publishEvent(auth.UserID, websocket.TransactionUpdated(transaction))
	return transaction, nil
}

// DeleteTransaction hard-deletes one of the caller's transactions.
// Another user's transaction id yields ErrTransactionNotFound.
func (s *TransactionService) DeleteTransaction(ctx context.Context, auth domain.AuthContext, id int32) (*domain.Transaction, error) {
	transaction, err := s.transactionRepo.Delete(ctx, auth.UserID, id)
	if err != nil {
		return nil, err
	}

	s.publishEvent(auth.UserID, websocket.TransactionDeleted(map[string]interface{}{"id": transaction.ID}))
	return transaction, nil
}

func (s *TransactionService) validateInput(ctx context.Context, input TransactionInput) (*domain.TransactionData, error) {
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	direction := input.Direction
	if direction == "" {
		direction = domain.DirectionIn
	}
	direction = domain.Direction(strings.ToUpper(string(direction)))
	if !direction.IsValid() {
		return nil, domain.ErrInvalidDirection
	}

	var notes *string
	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		if trimmed != "" {
			if len(trimmed) > domain.MaxNotesLength {
				return nil, domain.ErrNotesTooLong
			}
			notes = &trimmed
		}
	}

	categoryID := input.CategoryID
	if categoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *categoryID); err != nil {
			return nil, err
		}
	}

	if input.SubcategoryID != nil {
		subcategory, err := s.subcategoryRepo.GetByID(ctx, *input.SubcategoryID)
		if err != nil {
			return nil, err
		}
		if categoryID == nil {
			// A subcategory implies its category
			categoryID = &subcategory.CategoryID
		} else if subcategory.CategoryID != *categoryID {
			return nil, domain.ErrSubcategoryMismatch
		}
	}

	return &domain.TransactionData{
		Amount:        input.Amount,
		Direction:     direction,
		CategoryID:    categoryID,
		SubcategoryID: input.SubcategoryID,
		Notes:         notes,
		Timestamp:     input.Timestamp,
	}, nil
}
