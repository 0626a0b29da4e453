package models

import "github.com/shopspring/decimal"

type Wallet struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// WalletBalance is one row of the cartera_wallet_balances function.
type WalletBalance struct {
	WalletID int64           `json:"wallet_id"`
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}
