package web

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money renders an amount with two decimals in es-AR style: "." groups
// thousands and "," separates decimals, e.g. "-1.234,50".
func Money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// MoneyIn prefixes Money with a currency tag.
func MoneyIn(d decimal.Decimal, currency string) string {
	if currency == "" {
		return Money(d)
	}
	return currency + " " + Money(d)
}

// Percent rounds to a whole percent for display.
func Percent(p float64) string {
	return fmt.Sprintf("%.0f%%", math.Round(p))
}

func Date(t time.Time) string {
	return t.Format("02/01/2006")
}
