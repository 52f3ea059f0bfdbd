package domain

import (
	"strings"
	"time"
)

const (
	DefaultSortColumn    = SortByID
	DefaultSortDirection = SortAsc
	MaxPageSize          = 100
)

// SortColumn is an API-facing sort field. Only values listed in a resource's
// allow-list are accepted; the repository maps each one to a trusted identifier.
type SortColumn string

const (
	SortByID           SortColumn = "id"
	SortByAmount       SortColumn = "amount"
	SortByDirection    SortColumn = "direction"
	SortByCategory     SortColumn = "category"
	SortBySubcategory  SortColumn = "sub_category"
	SortByNotes        SortColumn = "notes"
	SortByTimestamp    SortColumn = "timestamp"
	SortByName         SortColumn = "name"
	SortByCategoryID   SortColumn = "category_id"
	SortByCategoryName SortColumn = "category_name"
)

// Sort allow-lists per resource
var (
	TransactionSortColumns = []SortColumn{
		SortByID, SortByAmount, SortByDirection, SortByCategory,
		SortBySubcategory, SortByNotes, SortByTimestamp,
	}
	CategorySortColumns    = []SortColumn{SortByID, SortByName, SortByNotes}
	SubcategorySortColumns = []SortColumn{SortByID, SortByName, SortByNotes, SortByCategoryID, SortByCategoryName}
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ListParams holds the raw, unvalidated listing parameters of a request
type ListParams struct {
	Page          *int32
	Limit         *int32
	SortColumn    string
	SortDirection string
}

type Pagination struct {
	Page  int32
	Limit int32
}

// Offset returns (page-1)*limit
func (p Pagination) Offset() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

type Sort struct {
	Column    SortColumn
	Direction SortDirection
}

// ListQuery is a validated listing request. A nil Pagination means all rows.
type ListQuery struct {
	Pagination *Pagination
	Sort       Sort
}

// NewListQuery validates params against the allowed sort columns.
func NewListQuery(params ListParams, allowed []SortColumn) (*ListQuery, error) {
	query := &ListQuery{
		Sort: Sort{Column: DefaultSortColumn, Direction: DefaultSortDirection},
	}

	// Pagination only applies when both values are supplied
	if params.Page != nil && params.Limit != nil {
		page, limit := *params.Page, *params.Limit
		if page < 1 || limit < 1 {
			return nil, ErrInvalidPagination
		}
		if limit > MaxPageSize {
			return nil, ErrLimitExceeded
		}
		query.Pagination = &Pagination{Page: page, Limit: limit}
	}

	if params.SortColumn != "" {
		column, ok := lookupSortColumn(params.SortColumn, allowed)
		if !ok {
			return nil, ErrInvalidSortColumn
		}
		query.Sort.Column = column
	}

	if params.SortDirection != "" {
		switch direction := SortDirection(strings.ToUpper(params.SortDirection)); direction {
		case SortAsc, SortDesc:
			query.Sort.Direction = direction
		default:
			return nil, ErrInvalidSortDirection
		}
	}

	return query, nil
}

func lookupSortColumn(name string, allowed []SortColumn) (SortColumn, bool) {
	for _, column := range allowed {
		if string(column) == name {
			return column, true
		}
	}
	return "", false
}

// DateRange is an inclusive timestamp range
type DateRange struct {
	From time.Time
	To   time.Time
}

// TransactionListParams adds the optional date range to ListParams
type TransactionListParams struct {
	ListParams
	From *time.Time
	To   *time.Time
}

// TransactionQuery is a validated transaction listing request.
// A nil DateRange means no date filter.
type TransactionQuery struct {
	ListQuery
	DateRange *DateRange
}

// NewTransactionQuery validates params. The date filter only applies when both
// bounds are supplied.
func NewTransactionQuery(params TransactionListParams) (*TransactionQuery, error) {
	listQuery, err := NewListQuery(params.ListParams, TransactionSortColumns)
	if err != nil {
		return nil, err
	}

	query := &TransactionQuery{ListQuery: *listQuery}
	if params.From != nil && params.To != nil {
		if params.From.After(*params.To) {
			return nil, ErrInvalidDateRange
		}
		query.DateRange = &DateRange{From: *params.From, To: *params.To}
	}

	return query, nil
}

// WithoutPagination returns a copy of q that selects every row in scope
func (q *TransactionQuery) WithoutPagination() *TransactionQuery {
	unpaged := *q
	unpaged.Pagination = nil
	return &unpaged
}
