package finance

import (
	"micartera/src/models"

	"github.com/shopspring/decimal"
)

type Decision string

const (
	DecisionHold       Decision = "hold"
	DecisionTakeProfit Decision = "take-profit"
	DecisionStopLoss   Decision = "stop-loss"
)

type Position struct {
	Investment      models.Investment `json:"investment"`
	CurrentPrice    decimal.Decimal   `json:"current_price"`
	Stale           bool              `json:"stale"`
	Cost            decimal.Decimal   `json:"cost"`
	Value           decimal.Decimal   `json:"value"`
	PnL             decimal.Decimal   `json:"pnl"`
	PnLPct          float64           `json:"pnl_pct"`
	TakeProfitPrice *decimal.Decimal  `json:"take_profit_price,omitempty"`
	StopLossPrice   *decimal.Decimal  `json:"stop_loss_price,omitempty"`
	Decision        Decision          `json:"decision"`
}

type Portfolio struct {
	Positions   []Position      `json:"positions"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
	TotalPnL    decimal.Decimal `json:"total_pnl"`
	TotalPnLPct float64         `json:"total_pnl_pct"`
}

func pct(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

// ValuePosition prices one investment. A missing or non-positive quote falls
// back to the purchase price and marks the position stale.
func ValuePosition(inv models.Investment, quote decimal.Decimal, ok bool) Position {
	p := Position{Investment: inv, CurrentPrice: quote}
	if !ok || !quote.IsPositive() {
		p.CurrentPrice = inv.PurchasePrice
		p.Stale = true
	}
	p.Cost = inv.Quantity.Mul(inv.PurchasePrice)
	p.Value = inv.Quantity.Mul(p.CurrentPrice)
	p.PnL = p.Value.Sub(p.Cost)
	p.PnLPct = pct(p.PnL, p.Cost)
	p.Decision = DecisionHold

	one := decimal.NewFromInt(1)
	if inv.TakeProfitPct.Valid {
		tp := inv.PurchasePrice.Mul(one.Add(inv.TakeProfitPct.Decimal))
		p.TakeProfitPrice = &tp
	}
	if inv.StopLossPct.Valid {
		sl := inv.PurchasePrice.Mul(one.Sub(inv.StopLossPct.Decimal.Abs()))
		p.StopLossPrice = &sl
	}
	switch {
	case p.TakeProfitPrice != nil && p.CurrentPrice.GreaterThanOrEqual(*p.TakeProfitPrice):
		p.Decision = DecisionTakeProfit
	case p.StopLossPrice != nil && p.CurrentPrice.LessThanOrEqual(*p.StopLossPrice):
		p.Decision = DecisionStopLoss
	}
	return p
}

// ValuePortfolio prices every investment with quotes keyed by ticker.
func ValuePortfolio(invs []models.Investment, quotes map[string]decimal.Decimal) Portfolio {
	pf := Portfolio{
		Positions:  make([]Position, 0, len(invs)),
		TotalCost:  decimal.Zero,
		TotalValue: decimal.Zero,
	}
	for _, inv := range invs {
		q, ok := quotes[inv.Asset]
		p := ValuePosition(inv, q, ok)
		pf.Positions = append(pf.Positions, p)
		pf.TotalCost = pf.TotalCost.Add(p.Cost)
		pf.TotalValue = pf.TotalValue.Add(p.Value)
	}
	pf.TotalPnL = pf.TotalValue.Sub(pf.TotalCost)
	pf.TotalPnLPct = pct(pf.TotalPnL, pf.TotalCost)
	return pf
}

// Symbols returns the distinct tickers of invs in first-seen order.
func Symbols(invs []models.Investment) []string {
	seen := make(map[string]struct{}, len(invs))
	out := make([]string, 0, len(invs))
	for _, inv := range invs {
		if _, ok := seen[inv.Asset]; ok {
			continue
		}
		seen[inv.Asset] = struct{}{}
		out = append(out, inv.Asset)
	}
	return out
}
