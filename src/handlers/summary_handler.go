package handlers

import (
	"net/http"
	"strconv"

	"micartera/src/finance"
	"micartera/src/models"
	"micartera/src/util"

	"golang.org/x/sync/errgroup"
)

type dashboardResponse struct {
	NetWorth          *finance.NetWorth            `json:"net_worth"`
	UpcomingReminders []finance.ClassifiedReminder `json:"upcoming_reminders"`
	TodayExpenses     []models.Transaction         `json:"today_expenses"`
	// Errors holds the message of every panel that failed, keyed by panel.
	Errors map[string]string `json:"errors,omitempty"`
}

// GetDashboard loads the dashboard panels concurrently. A failing panel does
// not cancel or fail its siblings.
func GetDashboard(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, userID, now := r.Context(), currentUser(r), env.now()

		var (
			g                          errgroup.Group
			nw                         finance.NetWorth
			upcoming                   []finance.ClassifiedReminder
			today                      []models.Transaction
			nwErr, upcomingErr, dayErr error
		)
		g.Go(func() error {
			nw, nwErr = loadNetWorth(ctx, env, userID)
			return nwErr
		})
		g.Go(func() error {
			upcoming, upcomingErr = loadUpcomingReminders(ctx, env, userID, now)
			return upcomingErr
		})
		g.Go(func() error {
			today, dayErr = loadTodayExpenses(ctx, env, userID, now)
			return dayErr
		})
		_ = g.Wait()

		resp := dashboardResponse{Errors: map[string]string{}}
		record := func(panel string, err error) bool {
			if err == nil {
				return true
			}
			util.ReportError(ctx, "dashboard "+panel, err)
			resp.Errors[panel] = "could not load " + panel
			return false
		}
		if record("net_worth", nwErr) {
			resp.NetWorth = &nw
		}
		if record("upcoming_reminders", upcomingErr) {
			resp.UpcomingReminders = upcoming
		}
		if record("today_expenses", dayErr) {
			resp.TodayExpenses = today
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func GetNetWorth(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nw, err := loadNetWorth(r.Context(), env, currentUser(r))
		if err != nil {
			writeFailure(w, r, "load net worth", err)
			return
		}
		writeJSON(w, http.StatusOK, nw)
	}
}

func GetBudgetProgress(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := loadBudgets(r.Context(), env, currentUser(r), env.now())
		if err != nil {
			writeFailure(w, r, "load budget progress", err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func GetExpensesByCategory(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chart, err := loadExpenseChart(r.Context(), env, currentUser(r), env.now())
		if err != nil {
			writeFailure(w, r, "load expenses by category", err)
			return
		}
		writeJSON(w, http.StatusOK, chart)
	}
}

func GetReminders(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := loadReminderGroups(r.Context(), env, currentUser(r), env.now())
		if err != nil {
			writeFailure(w, r, "load reminders", err)
			return
		}
		writeJSON(w, http.StatusOK, groups)
	}
}

func GetUpcomingReminders(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := loadUpcomingReminders(r.Context(), env, currentUser(r), env.now())
		if err != nil {
			writeFailure(w, r, "load upcoming reminders", err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

type valuationResponse struct {
	finance.Portfolio
	PricesStale bool `json:"prices_stale"`
}

func GetInvestmentValuation(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pf, stale, err := loadPortfolio(r.Context(), env, currentUser(r))
		if err != nil {
			writeFailure(w, r, "value investments", err)
			return
		}
		writeJSON(w, http.StatusOK, valuationResponse{Portfolio: pf, PricesStale: stale})
	}
}

// limitParam reads ?limit=, clamped to [1, max].
func limitParam(r *http.Request, fallback, max int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 1 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}
