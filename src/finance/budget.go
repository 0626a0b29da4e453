package finance

import (
	"micartera/src/models"

	"github.com/shopspring/decimal"
)

type BudgetStatus string

const (
	StatusOK       BudgetStatus = "ok"
	StatusWarning  BudgetStatus = "warning"
	StatusCritical BudgetStatus = "critical"
	// StatusInvalid marks a budget whose allocation is not positive; no
	// percentage is computed for it.
	StatusInvalid BudgetStatus = "invalid"
)

var hundred = decimal.NewFromInt(100)

type BudgetProgress struct {
	Budget     models.Budget   `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Percentage float64         `json:"percentage"`
	Status     BudgetStatus    `json:"status"`
}

func (p BudgetProgress) Valid() bool {
	return p.Status != StatusInvalid
}

// BarWidth is the percentage clamped to [0, 100] for progress bars.
func (p BudgetProgress) BarWidth() float64 {
	switch {
	case p.Percentage > 100:
		return 100
	case p.Percentage < 0:
		return 0
	}
	return p.Percentage
}

type BudgetReport struct {
	Items []BudgetProgress `json:"items"`
	// Skipped counts budgets dropped because their category no longer exists.
	Skipped int `json:"skipped"`
}

// StatusFor bands a consumption percentage.
func StatusFor(pct float64) BudgetStatus {
	switch {
	case pct > 90:
		return StatusCritical
	case pct > 70:
		return StatusWarning
	}
	return StatusOK
}

// BudgetConsumption matches each budget with the spend of its category.
// expenses should already be limited to the budgets' month; rows that are not
// expenses or carry no category are ignored. Output keeps budget order.
func BudgetConsumption(budgets []models.Budget, expenses []models.Transaction) BudgetReport {
	spent, _ := SumBy(expenses,
		func(t models.Transaction) (int64, bool) {
			if t.CategoryID == nil || !t.IsExpense() {
				return 0, false
			}
			return *t.CategoryID, true
		},
		func(t models.Transaction) decimal.Decimal { return t.Amount.Abs() },
	)

	report := BudgetReport{Items: make([]BudgetProgress, 0, len(budgets))}
	for _, b := range budgets {
		if b.CategoryName == nil {
			report.Skipped++
			continue
		}
		s, _ := spent.Get(b.CategoryID)
		p := BudgetProgress{Budget: b, Spent: s}
		if !b.Amount.IsPositive() {
			p.Status = StatusInvalid
		} else {
			p.Percentage = s.Div(b.Amount).Mul(hundred).InexactFloat64()
			p.Status = StatusFor(p.Percentage)
		}
		report.Items = append(report.Items, p)
	}
	return report
}
