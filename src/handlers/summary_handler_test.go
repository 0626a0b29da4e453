package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"micartera/src/finance"
	"micartera/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetDashboardKeepsHealthyPanels(t *testing.T) {
	store := newFakeStore()
	store.transactions = []models.Transaction{
		expense(1, "-100", "ARS", testNow),
		{ID: 2, Amount: decimal.NewFromInt(600), CreatedAt: testNow, Currency: strp("ARS")},
	}
	store.fail["ListUpcomingNotes"] = errors.New("connection reset")
	env := newTestEnv(t, store)

	rec := get(t, testRouter(env), "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.NetWorth)
	ars, ok := resp.NetWorth.Get("ARS")
	assert.True(t, ok)
	assert.True(t, ars.Equal(decimal.NewFromInt(500)))
	assert.Len(t, resp.TodayExpenses, 1)
	assert.Contains(t, resp.Errors, "upcoming_reminders")
	assert.NotContains(t, resp.Errors, "net_worth")
	assert.NotContains(t, resp.Errors, "today_expenses")
}

func TestGetNetWorthPerCurrency(t *testing.T) {
	store := newFakeStore()
	store.transactions = []models.Transaction{
		{ID: 1, Amount: decimal.NewFromInt(1000), Currency: strp("ARS")},
		{ID: 2, Amount: decimal.NewFromInt(-500), Currency: strp("ARS")},
		{ID: 3, Amount: decimal.NewFromInt(200), Currency: strp("USD")},
		{ID: 4, Amount: decimal.NewFromInt(999)},
	}
	rec := get(t, testRouter(newTestEnv(t, store)), "/api/net-worth")
	require.Equal(t, http.StatusOK, rec.Code)

	var nw finance.NetWorth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nw))
	ars, _ := nw.Get("ARS")
	usd, _ := nw.Get("USD")
	assert.True(t, ars.Equal(decimal.NewFromInt(500)))
	assert.True(t, usd.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 1, nw.Excluded)
}

func TestGetNetWorthBackendFailure(t *testing.T) {
	store := newFakeStore()
	store.fail["ListTransactions"] = errors.New("timeout")
	rec := get(t, testRouter(newTestEnv(t, store)), "/api/net-worth")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "timeout")
}

func TestGetUpcomingRemindersNeverOverdue(t *testing.T) {
	store := newFakeStore()
	day := finance.StartOfDayUTC(testNow)
	store.notes = []models.Note{
		note("late", day.AddDate(0, 0, -1)),
		note("today", day),
	}
	for i := 1; i <= 6; i++ {
		store.notes = append(store.notes, note("soon", day.AddDate(0, 0, i)))
	}

	rec := get(t, testRouter(newTestEnv(t, store)), "/api/reminders/upcoming")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []finance.ClassifiedReminder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, finance.DashboardReminderLimit)
	assert.Equal(t, "today", items[0].Note.Title)
	for _, it := range items {
		assert.NotEqual(t, finance.BucketOverdue, it.Bucket)
	}
}

func TestGetRemindersGroups(t *testing.T) {
	store := newFakeStore()
	day := finance.StartOfDayUTC(testNow)
	store.notes = []models.Note{
		note("rent", day.AddDate(0, 0, -3)),
		note("gym", day),
		note("tax", day.AddDate(0, 0, 4)),
	}
	rec := get(t, testRouter(newTestEnv(t, store)), "/api/reminders")
	require.Equal(t, http.StatusOK, rec.Code)

	var groups finance.ReminderGroups
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups.Overdue, 1)
	assert.Equal(t, "Overdue by 3 days", groups.Overdue[0].Label)
	require.Len(t, groups.DueToday, 1)
	assert.Equal(t, "Due today", groups.DueToday[0].Label)
	require.Len(t, groups.Upcoming, 1)
	assert.Equal(t, 4, groups.Upcoming[0].Days)
}

func TestGetInvestmentValuationStalePrices(t *testing.T) {
	store := newFakeStore()
	store.investments = []models.Investment{{
		ID:            1,
		Asset:         "AAPL",
		Quantity:      decimal.NewFromInt(2),
		PurchasePrice: decimal.NewFromInt(100),
	}}
	env := newTestEnv(t, store)
	env.Prices = fakeQuoter{err: errors.New("price service down")}

	rec := get(t, testRouter(env), "/api/investments/valuation")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		PricesStale bool `json:"prices_stale"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.PricesStale)
}

func TestLimitParam(t *testing.T) {
	for query, want := range map[string]int{"": 10, "?limit=3": 3, "?limit=0": 10, "?limit=x": 10, "?limit=500": 50} {
		r := httptest.NewRequest(http.MethodGet, "/"+query, nil)
		assert.Equal(t, want, limitParam(r, 10, 50), query)
	}
}
