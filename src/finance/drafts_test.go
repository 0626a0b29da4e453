package finance

import (
	"errors"
	"testing"
	"time"

	"micartera/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCategories = []models.Category{
	{ID: 1, Name: "Food", Type: models.CategoryExpense},
	{ID: 2, Name: "Salary", Type: models.CategoryIncome},
}

func TestNormalizeAmount(t *testing.T) {
	assert.True(t, NormalizeAmount(KindExpense, dec("150")).Equal(dec("-150")))
	assert.True(t, NormalizeAmount(KindExpense, dec("-150")).Equal(dec("-150")))
	assert.True(t, NormalizeAmount(KindIncome, dec("-50")).Equal(dec("50")))
	assert.True(t, NormalizeAmount(KindIncome, dec("50")).Equal(dec("50")))
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("amount", " 12,50 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("12.5")))

	for _, in := range []string{"", "abc", "0", "0.00", "1.2.3"} {
		_, err := ParseAmount("amount", in)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "input %q", in)
	}
}

func TestTransactionDraftBuild(t *testing.T) {
	tx, err := TransactionDraft{
		Kind: "expense", Amount: "150", Description: " Groceries ",
		WalletID: "3", CategoryID: "1",
	}.Build(userCategories)
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(dec("-150")))
	assert.Equal(t, "Groceries", tx.Description)
	require.NotNil(t, tx.WalletID)
	assert.Equal(t, int64(3), *tx.WalletID)
	require.NotNil(t, tx.CategoryID)
	assert.Equal(t, int64(1), *tx.CategoryID)

	tx, err = TransactionDraft{
		Kind: "income", Amount: "-50", Description: "Refund",
		WalletID: "3", CategoryID: "2",
	}.Build(userCategories)
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(dec("50")))
}

func TestTransactionDraftRejects(t *testing.T) {
	base := TransactionDraft{Kind: "expense", Amount: "10", Description: "x", WalletID: "1", CategoryID: "1"}
	cases := map[string]struct {
		mut   func(*TransactionDraft)
		field string
	}{
		"no description":   {func(d *TransactionDraft) { d.Description = "  " }, "description"},
		"bad kind":         {func(d *TransactionDraft) { d.Kind = "transfer" }, "type"},
		"bad amount":       {func(d *TransactionDraft) { d.Amount = "ten" }, "amount"},
		"no wallet":        {func(d *TransactionDraft) { d.WalletID = "" }, "wallet"},
		"no category":      {func(d *TransactionDraft) { d.CategoryID = "" }, "category"},
		"unknown category": {func(d *TransactionDraft) { d.CategoryID = "99" }, "category"},
		"type mismatch":    {func(d *TransactionDraft) { d.CategoryID = "2" }, "category"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			d := base
			c.mut(&d)
			_, err := d.Build(userCategories)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, c.field, verr.Field)
		})
	}
}

func TestBudgetDraftBuild(t *testing.T) {
	now := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	categories := []models.Category{
		{ID: 4, Name: "Food", Type: models.CategoryExpense},
		{ID: 5, Name: "Salary", Type: models.CategoryIncome},
	}
	b, err := BudgetDraft{CategoryID: "4", Amount: "2500"}.Build(now, categories)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Month)
	assert.Equal(t, 2024, b.Year)

	_, err = BudgetDraft{CategoryID: "4", Amount: "-1"}.Build(now, categories)
	assert.Error(t, err)
	_, err = BudgetDraft{CategoryID: "4", Amount: "1", Month: "13"}.Build(now, categories)
	assert.Error(t, err)

	_, err = BudgetDraft{CategoryID: "5", Amount: "100"}.Build(now, categories)
	assert.EqualError(t, err, "category: is not an expense category")
	_, err = BudgetDraft{CategoryID: "99", Amount: "100"}.Build(now, categories)
	assert.EqualError(t, err, "category: does not exist")
	_, err = BudgetDraft{CategoryID: "4", Amount: "100"}.Build(now, nil)
	assert.EqualError(t, err, "category: does not exist")
}

func TestNoteDraftBuild(t *testing.T) {
	n, err := NoteDraft{Title: "Rent", DueDate: "2024-07-01"}.Build()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultNoteCategory, n.Category)
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), n.DueDate)

	_, err = NoteDraft{Title: "Rent", DueDate: "01/07/2024"}.Build()
	assert.Error(t, err)
}

func TestInvestmentDraftBuild(t *testing.T) {
	inv, err := InvestmentDraft{
		Asset: " aapl ", Quantity: "3", PurchasePrice: "180,5",
		PurchaseDate: "2024-01-02", TakeProfitPct: "20", StopLossPct: "10",
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, "AAPL", inv.Asset)
	assert.True(t, inv.TakeProfitPct.Decimal.Equal(dec("0.2")))
	assert.True(t, inv.StopLossPct.Decimal.Equal(dec("-0.1")))

	_, err = InvestmentDraft{Asset: "X", Quantity: "-1", PurchasePrice: "1", PurchaseDate: "2024-01-02"}.Build()
	assert.Error(t, err)
}

func TestWalletDraftBuild(t *testing.T) {
	w, err := WalletDraft{Name: "Cash", Currency: "ars"}.Build()
	require.NoError(t, err)
	assert.Equal(t, "ARS", w.Currency)

	_, err = WalletDraft{Name: "Cash", Currency: "AR$"}.Build()
	assert.Error(t, err)
}

func TestCategoryDraftBuild(t *testing.T) {
	c, err := CategoryDraft{Name: " Rent ", Type: "expense"}.Build()
	require.NoError(t, err)
	assert.Equal(t, "Rent", c.Name)
	assert.Equal(t, models.CategoryExpense, c.Type)

	_, err = CategoryDraft{Name: "Rent", Type: "savings"}.Build()
	assert.Error(t, err)
	assert.Len(t, CategoriesOfType(userCategories, models.CategoryIncome), 1)
}
