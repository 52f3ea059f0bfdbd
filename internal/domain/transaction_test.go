package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDirectionIsValid(t *testing.T) {
	tests := []struct {
		direction Direction
		expected  bool
	}{
		{DirectionIn, true},
		{DirectionOut, true},
		{Direction("in"), false},
		{Direction("income"), false},
		{Direction(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			if got := tt.direction.IsValid(); got != tt.expected {
				t.Errorf("Direction(%q).IsValid() = %v, want %v", tt.direction, got, tt.expected)
			}
		})
	}
}

func TestAverageAmount(t *testing.T) {
	rows := []*TransactionRow{
		{ID: 1, Amount: decimal.NewFromInt(10)},
		{ID: 2, Amount: decimal.NewFromInt(20)},
		{ID: 3, Amount: decimal.NewFromInt(30)},
	}

	got := AverageAmount(rows)
	if !got.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected average 20, got %s", got)
	}
}

func TestAverageAmount_Fractional(t *testing.T) {
	rows := []*TransactionRow{
		{Amount: decimal.RequireFromString("10.50")},
		{Amount: decimal.RequireFromString("0.25")},
	}

	got := AverageAmount(rows)
	if got.StringFixed(3) != "5.375" {
		t.Errorf("Expected average 5.375, got %s", got)
	}
}

func TestAverageAmount_Empty(t *testing.T) {
	if got := AverageAmount(nil); !got.IsZero() {
		t.Errorf("Expected zero average for nil input, got %s", got)
	}
	if got := AverageAmount([]*TransactionRow{}); !got.IsZero() {
		t.Errorf("Expected zero average for empty input, got %s", got)
	}
}

func TestTransactionPageIsEmpty(t *testing.T) {
	page := &TransactionPage{Count: 4}
	if !page.IsEmpty() {
		t.Error("Expected page without rows to be empty")
	}

	page.Transactions = []*TransactionRow{{ID: 1}}
	if page.IsEmpty() {
		t.Error("Expected page with rows to be non-empty")
	}
}
