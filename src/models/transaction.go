package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	WalletID     *int64          `json:"wallet_id"`
	CategoryID   *int64          `json:"category_id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
	CategoryName *string         `json:"category_name,omitempty"`
	WalletName   *string         `json:"wallet_name,omitempty"`
	Currency     *string         `json:"currency,omitempty"`
}

// IsExpense reports whether the signed amount encodes an expense.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}
