package finance

import (
	"fmt"
	"math/rand/v2"

	"micartera/src/models"

	"github.com/shopspring/decimal"
)

const UncategorizedLabel = "Uncategorized"

// CategoryChart holds parallel series for a doughnut chart.
type CategoryChart struct {
	Labels []string          `json:"labels"`
	Totals []decimal.Decimal `json:"totals"`
	Colors []string          `json:"colors"`
}

func (c CategoryChart) Empty() bool {
	return len(c.Labels) == 0
}

// ExpensesByCategory sums absolute expense amounts per category name in
// first-seen order. Colors are drawn fresh on every call.
func ExpensesByCategory(expenses []models.Transaction) CategoryChart {
	tally, _ := SumBy(expenses,
		func(t models.Transaction) (string, bool) {
			if !t.IsExpense() {
				return "", false
			}
			if t.CategoryName == nil {
				return UncategorizedLabel, true
			}
			return *t.CategoryName, true
		},
		func(t models.Transaction) decimal.Decimal { return t.Amount.Abs() },
	)

	chart := CategoryChart{
		Labels: tally.Keys(),
		Totals: tally.Values(),
	}
	chart.Colors = make([]string, len(chart.Labels))
	for i := range chart.Colors {
		chart.Colors[i] = randomColor()
	}
	return chart
}

func randomColor() string {
	return fmt.Sprintf("hsla(%d, 70%%, 60%%, 0.8)", rand.IntN(360))
}
