package postgres

import (
	"fmt"
	"strings"

	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
)

// statement is SQL text plus its bound arguments
type statement struct {
	sql  string
	args []any
}

// Trusted identifiers for each accepted sort column. User input never reaches
// SQL text; only these values do.
var (
	transactionSortIdentifiers = map[domain.SortColumn]string{
		domain.SortByID:          "transactions.id",
		domain.SortByAmount:      "transactions.amount",
		domain.SortByDirection:   "transactions.direction",
		domain.SortByCategory:    "categories.name",
		domain.SortBySubcategory: "sub_categories.name",
		domain.SortByNotes:       "transactions.notes",
		domain.SortByTimestamp:   "transactions.timestamp",
	}
	categorySortIdentifiers = map[domain.SortColumn]string{
		domain.SortByID:    "categories.id",
		domain.SortByName:  "categories.name",
		domain.SortByNotes: "categories.notes",
	}
	subcategorySortIdentifiers = map[domain.SortColumn]string{
		domain.SortByID:           "sub_categories.id",
		domain.SortByName:         "sub_categories.name",
		domain.SortByNotes:        "sub_categories.notes",
		domain.SortByCategoryID:   "sub_categories.category_id",
		domain.SortByCategoryName: "categories.name",
	}
)

const transactionRowColumns = `
	transactions.id,
	transactions.amount,
	transactions.direction::text,
	categories.id,
	categories.name,
	sub_categories.id,
	sub_categories.name,
	transactions.notes,
	transactions.timestamp`

const transactionJoins = `
FROM transactions
LEFT JOIN categories ON transactions.category = categories.id
LEFT JOIN sub_categories ON transactions.sub_category = sub_categories.id`

// orderBy renders ORDER BY for sort, breaking ties on tieBreaker so pages are stable
func orderBy(sort domain.Sort, identifiers map[domain.SortColumn]string, tieBreaker string) (string, error) {
	identifier, ok := identifiers[sort.Column]
	if !ok {
		return "", domain.ErrInvalidSortColumn
	}
	if sort.Direction != domain.SortAsc && sort.Direction != domain.SortDesc {
		return "", domain.ErrInvalidSortDirection
	}

	clause := fmt.Sprintf("ORDER BY %s %s", identifier, sort.Direction)
	if identifier != tieBreaker {
		clause += fmt.Sprintf(", %s ASC", tieBreaker)
	}
	return clause, nil
}

// paginate appends LIMIT/OFFSET placeholders and their values to args
func paginate(p *domain.Pagination, args []any) (string, []any) {
	if p == nil {
		return "", args
	}
	args = append(args, p.Limit, p.Offset())
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

// transactionScope renders the WHERE clause shared by the row and summary statements
func transactionScope(userID int32, dateRange *domain.DateRange) (string, []any) {
	args := []any{userID}
	where := "WHERE transactions.user_id = $1"
	if dateRange != nil {
		args = append(args, dateRange.From, dateRange.To)
		where += " AND transactions.timestamp BETWEEN $2 AND $3"
	}
	return where, args
}

// buildTransactionListStatement builds the filtered, sorted and paginated row statement
func buildTransactionListStatement(userID int32, query *domain.TransactionQuery) (statement, error) {
	order, err := orderBy(query.Sort, transactionSortIdentifiers, "transactions.id")
	if err != nil {
		return statement{}, err
	}

	where, args := transactionScope(userID, query.DateRange)
	limit, args := paginate(query.Pagination, args)

	var sb strings.Builder
	sb.WriteString("SELECT")
	sb.WriteString(transactionRowColumns)
	sb.WriteString(transactionJoins)
	sb.WriteString("\n")
	sb.WriteString(where)
	sb.WriteString("\n")
	sb.WriteString(order)
	if limit != "" {
		sb.WriteString("\n")
		sb.WriteString(limit)
	}

	return statement{sql: sb.String(), args: args}, nil
}

// buildTransactionSummaryStatement builds the count/average statement. It uses
// the same ownership and date scope as the row statement, without pagination.
func buildTransactionSummaryStatement(userID int32, query *domain.TransactionQuery) statement {
	where, args := transactionScope(userID, query.DateRange)
	sql := "SELECT COUNT(*), COALESCE(AVG(transactions.amount), 0)\nFROM transactions\n" + where
	return statement{sql: sql, args: args}
}

// buildListStatement builds a sorted, optionally paginated statement over base
func buildListStatement(base string, query *domain.ListQuery, identifiers map[domain.SortColumn]string, tieBreaker string) (statement, error) {
	order, err := orderBy(query.Sort, identifiers, tieBreaker)
	if err != nil {
		return statement{}, err
	}

	limit, args := paginate(query.Pagination, nil)

	sql := base + "\n" + order
	if limit != "" {
		sql += "\n" + limit
	}
	return statement{sql: sql, args: args}, nil
}
