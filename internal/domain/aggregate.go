package domain

import "github.com/shopspring/decimal"

// AverageAmount returns the arithmetic mean of Amount across rows.
// An empty sequence averages to zero.
func AverageAmount(rows []*TransactionRow) decimal.Decimal {
	if len(rows) == 0 {
		return decimal.Zero
	}

	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.Amount)
	}
	return sum.Div(decimal.NewFromInt(int64(len(rows))))
}
