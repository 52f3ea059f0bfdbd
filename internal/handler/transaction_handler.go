package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/service"
	"github.com/moneysuperhero/money-super-hero-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	exportService      *service.ExportService
	users              UserResolver
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, exportService *service.ExportService, users UserResolver) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		exportService:      exportService,
		users:              users,
	}
}

// TransactionRequest represents the create and update transaction request body
type TransactionRequest struct {
	Amount        string  `json:"amount"`
	Direction     string  `json:"direction,omitempty"`
	CategoryID    *int32  `json:"categoryId,omitempty"`
	SubcategoryID *int32  `json:"subcategoryId,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Timestamp     *string `json:"timestamp,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID              int32   `json:"id"`
	Amount          string  `json:"amount"`
	Direction       string  `json:"direction"`
	CategoryID      *int32  `json:"categoryId"`
	CategoryName    *string `json:"categoryName"`
	SubcategoryID   *int32  `json:"subcategoryId"`
	SubcategoryName *string `json:"subcategoryName"`
	Notes           *string `json:"notes"`
	Timestamp       string  `json:"timestamp"`
}

// TransactionResults holds a page of transactions with its averages
type TransactionResults struct {
	Transactions []TransactionResponse `json:"transactions"`
	Average      string                `json:"average"`
	PageAverage  string                `json:"pageAverage"`
}

// TransactionListResponse is the details payload of a transaction listing.
// Count and Average cover every row in scope, PageAverage only the page.
type TransactionListResponse struct {
	Results TransactionResults `json:"results"`
	Count   int64              `json:"count"`
}

// GetTransactions lists the caller's transactions
// GET /api/transactions?page=&limit=&sortColumn=&sortDirection=&from=&to=
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	params, errs := parseTransactionListParams(c)
	if len(errs) > 0 {
		return NewValidationError(c, "GET_TRANSACTIONS_ERROR", "Invalid query parameters", errs)
	}
	// Reject before the user lookup so invalid input never reaches the store
	if _, err := domain.NewTransactionQuery(params); err != nil {
		return NewValidationError(c, "GET_TRANSACTIONS_ERROR", "Invalid query parameters", validationErrorsFor(err))
	}

	auth, ok, err := resolveAuth(c, h.users, "GET_TRANSACTIONS_ERROR")
	if !ok {
		return err
	}

	page, err := h.transactionService.ListTransactions(c.Request().Context(), auth, params)
	if err != nil {
		if domain.IsValidationError(err) {
			return NewValidationError(c, "GET_TRANSACTIONS_ERROR", "Invalid query parameters", validationErrorsFor(err))
		}
		log.Error().Err(err).Int32("user_id", auth.UserID).Msg("Failed to list transactions")
		return NewInternalError(c, "GET_TRANSACTIONS_ERROR", "Failed to get transactions")
	}

	if page.IsEmpty() {
		return NewSoftError(c, "GET_TRANSACTIONS_ERROR", "No transactions found")
	}

	transactions := make([]TransactionResponse, len(page.Transactions))
	for i, row := range page.Transactions {
		transactions[i] = toTransactionResponse(row)
	}

	return NewSuccess(c, "GET_TRANSACTIONS_SUCCESS", "Transactions retrieved", TransactionListResponse{
		Results: TransactionResults{
			Transactions: transactions,
			Average:      page.Average.StringFixed(2),
			PageAverage:  page.PageAverage.StringFixed(2),
		},
		Count: page.Count,
	})
}

// GetTransaction returns one of the caller's transactions
// GET /api/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "GET_TRANSACTION_ERROR", "Invalid transaction ID", nil)
	}

	auth, ok, err := resolveAuth(c, h.users, "GET_TRANSACTION_ERROR")
	if !ok {
		return err
	}

	row, err := h.transactionService.GetTransaction(c.Request().Context(), auth, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewSoftError(c, "GET_TRANSACTION_ERROR", "Transaction not found")
		}
		log.Error().Err(err).Int32("user_id", auth.UserID).Int32("transaction_id", id).Msg("Failed to get transaction")
		return NewInternalError(c, "GET_TRANSACTION_ERROR", "Failed to get transaction")
	}

	return NewSuccess(c, "GET_TRANSACTION_SUCCESS", "Transaction retrieved", toTransactionResponse(row))
}

// CreateTransaction records a transaction for the caller
// POST /api/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	input, errs, err := bindTransactionInput(c)
	if err != nil {
		return NewValidationError(c, "ADD_TRANSACTION_ERROR", "Invalid request body", nil)
	}
	if len(errs) > 0 {
		return NewValidationError(c, "ADD_TRANSACTION_ERROR", "Validation failed", errs)
	}

	auth, ok, err := resolveAuth(c, h.users, "ADD_TRANSACTION_ERROR")
	if !ok {
		return err
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), auth, input)
	if err != nil {
		if isTransactionInputError(err) {
			return NewValidationError(c, "ADD_TRANSACTION_ERROR", "Validation failed", validationErrorsFor(err))
		}
		log.Error().Err(err).Int32("user_id", auth.UserID).Msg("Failed to create transaction")
		return NewInternalError(c, "ADD_TRANSACTION_ERROR", "Failed to add transaction")
	}

	return NewCreated(c, "ADD_TRANSACTION_SUCCESS", "Transaction added", toStoredTransactionResponse(transaction))
}

// UpdateTransaction replaces one of the caller's transactions
// PUT /api/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "UPDATE_TRANSACTION_ERROR", "Invalid transaction ID", nil)
	}

	input, errs, err := bindTransactionInput(c)
	if err != nil {
		return NewValidationError(c, "UPDATE_TRANSACTION_ERROR", "Invalid request body", nil)
	}
	if len(errs) > 0 {
		return NewValidationError(c, "UPDATE_TRANSACTION_ERROR", "Validation failed", errs)
	}

	auth, ok, err := resolveAuth(c, h.users, "UPDATE_TRANSACTION_ERROR")
	if !ok {
		return err
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), auth, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewSoftError(c, "UPDATE_TRANSACTION_ERROR", "Transaction not found")
		}
		if isTransactionInputError(err) {
			return NewValidationError(c, "UPDATE_TRANSACTION_ERROR", "Validation failed", validationErrorsFor(err))
		}
		log.Error().Err(err).Int32("user_id", auth.UserID).Int32("transaction_id", id).Msg("Failed to update transaction")
		return NewInternalError(c, "UPDATE_TRANSACTION_ERROR", "Failed to update transaction")
	}

	return NewSuccess(c, "UPDATE_TRANSACTION_SUCCESS", "Transaction updated", toStoredTransactionResponse(transaction))
}

// DeleteTransaction hard-deletes one of the caller's transactions
// DELETE /api/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return NewValidationError(c, "DELETE_TRANSACTION_ERROR", "Invalid transaction ID", nil)
	}

	auth, ok, err := resolveAuth(c, h.users, "DELETE_TRANSACTION_ERROR")
	if !ok {
		return err
	}

	if _, err := h.transactionService.DeleteTransaction(c.Request().Context(), auth, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewSoftError(c, "DELETE_TRANSACTION_ERROR", "Transaction not found")
		}
		log.Error().Err(err).Int32("user_id", auth.UserID).Int32("transaction_id", id).Msg("Failed to delete transaction")
		return NewInternalError(c, "DELETE_TRANSACTION_ERROR", "Failed to delete transaction")
	}

	return NewSuccess(c, "DELETE_TRANSACTION_SUCCESS", "Transaction deleted", map[string]int32{"id": id})
}

// ExportTransactions streams the caller's transactions as an XLSX workbook.
// Accepts the listing query parameters; page and limit are ignored.
// GET /api/transactions/export
func (h *TransactionHandler) ExportTransactions(c echo.Context) error {
	params, errs := parseTransactionListParams(c)
	if len(errs) > 0 {
		return NewValidationError(c, "EXPORT_TRANSACTIONS_ERROR", "Invalid query parameters", errs)
	}
	// Reject before the user lookup so invalid input never reaches the store
	if _, err := domain.NewTransactionQuery(params); err != nil {
		return NewValidationError(c, "EXPORT_TRANSACTIONS_ERROR", "Invalid query parameters", validationErrorsFor(err))
	}

	auth, ok, err := resolveAuth(c, h.users, "EXPORT_TRANSACTIONS_ERROR")
	if !ok {
		return err
	}

	data, err := h.exportService.ExportTransactions(c.Request().Context(), auth, params)
	if err != nil {
		if domain.IsValidationError(err) {
			return NewValidationError(c, "EXPORT_TRANSACTIONS_ERROR", "Invalid query parameters", validationErrorsFor(err))
		}
		log.Error().Err(err).Int32("user_id", auth.UserID).Msg("Failed to export transactions")
		return NewInternalError(c, "EXPORT_TRANSACTIONS_ERROR", "Failed to export transactions")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transactions.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// bindTransactionInput decodes the request body. A non-nil error means the body
// could not be decoded at all.
func bindTransactionInput(c echo.Context) (service.TransactionInput, []ValidationError, error) {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return service.TransactionInput{}, nil, err
	}

	var errs []ValidationError

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		errs = append(errs, ValidationError{Field: "amount", Message: "Must be a valid decimal number"})
	}

	var timestamp *time.Time
	if req.Timestamp != nil {
		timestamp, err = util.ParseDateBound(*req.Timestamp, false)
		if err != nil {
			errs = append(errs, ValidationError{Field: "timestamp", Message: "Must be YYYY-MM-DD or RFC 3339"})
		}
	}

	return service.TransactionInput{
		Amount:        amount,
		Direction:     domain.Direction(req.Direction),
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Notes:         req.Notes,
		Timestamp:     timestamp,
	}, errs, nil
}

// isTransactionInputError reports whether err was caused by the request body.
// Unknown category references count as malformed input on transaction writes.
func isTransactionInputError(err error) bool {
	return domain.IsValidationError(err) ||
		errors.Is(err, domain.ErrCategoryNotFound) ||
		errors.Is(err, domain.ErrSubcategoryNotFound)
}

func toTransactionResponse(row *domain.TransactionRow) TransactionResponse {
	return TransactionResponse{
		ID:              row.ID,
		Amount:          row.Amount.StringFixed(2),
		Direction:       string(row.Direction),
		CategoryID:      row.CategoryID,
		CategoryName:    row.CategoryName,
		SubcategoryID:   row.SubcategoryID,
		SubcategoryName: row.SubcategoryName,
		Notes:           row.Notes,
		Timestamp:       row.Timestamp.Format(time.RFC3339),
	}
}

func toStoredTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		Amount:        t.Amount.StringFixed(2),
		Direction:     string(t.Direction),
		CategoryID:    t.CategoryID,
		SubcategoryID: t.SubcategoryID,
		Notes:         t.Notes,
		Timestamp:     t.Timestamp.Format(time.RFC3339),
	}
}
