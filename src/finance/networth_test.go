package finance

import (
	"testing"

	"micartera/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inCurrency(cur *string, amount string) models.Transaction {
	return models.Transaction{Amount: dec(amount), Currency: cur}
}

func TestComputeNetWorth(t *testing.T) {
	ars, usd := strp("ARS"), strp("USD")
	nw := ComputeNetWorth([]models.Transaction{
		inCurrency(ars, "1000"),
		inCurrency(ars, "-500"),
		inCurrency(usd, "200"),
		inCurrency(nil, "75"),
		inCurrency(strp(""), "1"),
	})

	require.Len(t, nw.Totals, 2)
	assert.Equal(t, 2, nw.Excluded)
	got, ok := nw.Get("ARS")
	require.True(t, ok)
	assert.True(t, got.Equal(dec("500")))
	got, ok = nw.Get("USD")
	require.True(t, ok)
	assert.True(t, got.Equal(dec("200")))
	_, ok = nw.Get("EUR")
	assert.False(t, ok)
}

func TestNetWorthEqualsSumOfParts(t *testing.T) {
	ars := strp("ARS")
	txs := []models.Transaction{
		inCurrency(ars, "10.10"),
		inCurrency(ars, "-3.03"),
		inCurrency(ars, "0.01"),
		inCurrency(ars, "-100"),
	}
	first, _ := CurrencyTally(txs[:2])
	second, _ := CurrencyTally(txs[2:])
	merged, _ := first.Merge(second).Get("ARS")

	whole, _ := ComputeNetWorth(txs).Get("ARS")
	assert.True(t, whole.Equal(merged))
	assert.True(t, whole.Equal(dec("-92.92")))
}
