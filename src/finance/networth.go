package finance

import (
	"micartera/src/models"

	"github.com/shopspring/decimal"
)

type CurrencyTotal struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}

type NetWorth struct {
	Totals []CurrencyTotal `json:"totals"`
	// Excluded counts transactions whose wallet (and so currency) is missing.
	Excluded int `json:"excluded"`
}

func (n NetWorth) Get(currency string) (decimal.Decimal, bool) {
	for _, t := range n.Totals {
		if t.Currency == currency {
			return t.Total, true
		}
	}
	return decimal.Zero, false
}

// CurrencyTally sums signed amounts per wallet currency.
func CurrencyTally(txs []models.Transaction) (*Tally[string], int) {
	return SumBy(txs,
		func(t models.Transaction) (string, bool) {
			if t.Currency == nil || *t.Currency == "" {
				return "", false
			}
			return *t.Currency, true
		},
		func(t models.Transaction) decimal.Decimal { return t.Amount },
	)
}

// ComputeNetWorth totals every transaction by its wallet's currency.
func ComputeNetWorth(txs []models.Transaction) NetWorth {
	tally, excluded := CurrencyTally(txs)
	nw := NetWorth{Totals: make([]CurrencyTotal, 0, tally.Len()), Excluded: excluded}
	for _, cur := range tally.Keys() {
		total, _ := tally.Get(cur)
		nw.Totals = append(nw.Totals, CurrencyTotal{Currency: cur, Total: total})
	}
	return nw
}
