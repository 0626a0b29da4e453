package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Investment struct {
	ID            int64               `json:"id"`
	UserID        int64               `json:"user_id"`
	Asset         string              `json:"asset"`
	Quantity      decimal.Decimal     `json:"quantity"`
	PurchasePrice decimal.Decimal     `json:"purchase_price"`
	PurchaseDate  time.Time           `json:"purchase_date"`
	TakeProfitPct decimal.NullDecimal `json:"tp_pct"`
	StopLossPct   decimal.NullDecimal `json:"sl_pct"`
	CreatedAt     time.Time           `json:"created_at"`
}
