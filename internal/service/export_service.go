package service

import (
	"context"
	"fmt"

	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Transactions"

var exportHeaders = []interface{}{"ID", "Timestamp", "Direction", "Amount", "Category", "Subcategory", "Notes"}

type columnWidth struct {
	from, to string
	width    float64
}

var exportColumnWidths = []columnWidth{
	{"B", "B", 20},
	{"E", "F", 18},
	{"G", "G", 40},
}

// ExportService renders a user's transactions as a spreadsheet
type ExportService struct {
	transactionRepo domain.TransactionRepository
}

// NewExportService creates a new ExportService
func NewExportService(transactionRepo domain.TransactionRepository) *ExportService {
	return &ExportService{transactionRepo: transactionRepo}
}

// ExportTransactions returns an XLSX workbook of every transaction matching
// params. Pagination is ignored; sorting and the date range apply.
func (s *ExportService) ExportTransactions(ctx context.Context, auth domain.AuthContext, params domain.TransactionListParams) ([]byte, error) {
	query, err := domain.NewTransactionQuery(params)
	if err != nil {
		return nil, err
	}

	rows, err := s.transactionRepo.List(ctx, auth.UserID, query.WithoutPagination())
	if err != nil {
		return nil, err
	}

	return buildWorkbook(rows)
}

func buildWorkbook(rows []*domain.TransactionRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			row.ID,
			row.Timestamp.Format("2006-01-02 15:04:05"),
			string(row.Direction),
			row.Amount.InexactFloat64(),
			derefOrEmpty(row.CategoryName),
			derefOrEmpty(row.SubcategoryName),
			derefOrEmpty(row.Notes),
		}
		if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row.ID, err)
		}
	}

	if err := setColumnWidths(f, exportColumnWidths); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setColumnWidths(f *excelize.File, widths []columnWidth) error {
	for _, w := range widths {
		if err := f.SetColWidth(exportSheetName, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("set width of columns %s:%s: %w", w.from, w.to, err)
		}
	}
	return nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
