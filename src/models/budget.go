package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	CategoryID   int64           `json:"category_id"`
	CategoryName *string         `json:"category_name"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
}
