package handlers

import (
	"context"
	"log"
	"time"

	"micartera/src/finance"
	"micartera/src/models"
	"micartera/src/session"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	expensesPageMovements = 10
	patrimonyMovements    = 15
	maxMovements          = 50
)

func loadNetWorth(ctx context.Context, env *Env, userID int64) (finance.NetWorth, error) {
	txs, err := env.Store.ListTransactions(ctx, userID, 0)
	if err != nil {
		return finance.NetWorth{}, err
	}
	nw := finance.ComputeNetWorth(txs)
	if nw.Excluded > 0 {
		log.Printf("WARN: Net worth for user %d excluded %d transactions without a wallet currency", userID, nw.Excluded)
	}
	return nw, nil
}

// loadBudgets fetches the month's budgets and expenses side by side.
func loadBudgets(ctx context.Context, env *Env, userID int64, now time.Time) (finance.BudgetReport, error) {
	month := finance.MonthOf(now)
	var (
		budgets  []models.Budget
		expenses []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = env.Store.ListBudgetsForMonth(gctx, userID, int(now.Month()), now.Year())
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = env.Store.ListExpensesBetween(gctx, userID, month.Start, month.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return finance.BudgetReport{}, err
	}

	report := finance.BudgetConsumption(budgets, expenses)
	if report.Skipped > 0 {
		log.Printf("WARN: Skipped %d budgets of user %d whose category no longer exists", report.Skipped, userID)
	}
	return report, nil
}

func loadExpenseChart(ctx context.Context, env *Env, userID int64, now time.Time) (finance.CategoryChart, error) {
	month := finance.MonthOf(now)
	expenses, err := env.Store.ListExpensesBetween(ctx, userID, month.Start, month.End)
	if err != nil {
		return finance.CategoryChart{}, err
	}
	return finance.ExpensesByCategory(expenses), nil
}

func loadTodayExpenses(ctx context.Context, env *Env, userID int64, now time.Time) ([]models.Transaction, error) {
	day := finance.DayOf(now)
	return env.Store.ListExpensesBetween(ctx, userID, day.Start, day.End)
}

// loadUpcomingReminders runs the dashboard query, then classifies the rows,
// which also drops anything that turned overdue since the query ran.
func loadUpcomingReminders(ctx context.Context, env *Env, userID int64, now time.Time) ([]finance.ClassifiedReminder, error) {
	notes, err := env.Store.ListUpcomingNotes(ctx, userID, finance.StartOfDayUTC(now), finance.DashboardReminderLimit)
	if err != nil {
		return nil, err
	}
	return finance.NextReminders(notes, now, finance.DashboardReminderLimit), nil
}

func loadReminderGroups(ctx context.Context, env *Env, userID int64, now time.Time) (finance.ReminderGroups, error) {
	notes, err := env.Store.ListNotes(ctx, userID)
	if err != nil {
		return finance.ReminderGroups{}, err
	}
	return finance.GroupReminders(notes, now), nil
}

// loadPortfolio values every position. A failed price lookup is not fatal:
// positions fall back to purchase prices and stale is set.
func loadPortfolio(ctx context.Context, env *Env, userID int64) (pf finance.Portfolio, stale bool, err error) {
	invs, err := env.Store.ListInvestments(ctx, userID)
	if err != nil {
		return finance.Portfolio{}, false, err
	}
	quotes := map[string]decimal.Decimal{}
	if env.Prices != nil && len(invs) > 0 {
		quotes, err = env.Prices.Quotes(ctx, finance.Symbols(invs))
		if err != nil {
			log.Printf("WARN: Price lookup failed for user %d, using purchase prices: %v", userID, err)
			stale = true
		}
	}
	return finance.ValuePortfolio(invs, quotes), stale, nil
}

func sessionCategories(ctx context.Context, env *Env, sess *session.PageSession) ([]models.Category, error) {
	return sess.Categories(ctx, func(ctx context.Context) ([]models.Category, error) {
		return env.Store.ListCategories(ctx, sess.UserID)
	})
}
