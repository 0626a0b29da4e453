package handlers

import (
	"net/http"

	"micartera/src/finance"
	"micartera/src/models"
	"micartera/src/util"

	"github.com/shopspring/decimal"
)

type panelError struct {
	Message string
}

// renderPanelError shows a dismissible error inside the failing panel only.
// The status stays 200 so the panel swaps the message in.
func renderPanelError(w http.ResponseWriter, r *http.Request, env *Env, op, msg string, err error) {
	util.ReportError(r.Context(), op, err)
	render(w, r, env, http.StatusOK, "panel_error", panelError{Message: msg})
}

func NetWorthPanel(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nw, err := loadNetWorth(r.Context(), env, pageSession(r).UserID)
		if err != nil {
			renderPanelError(w, r, env, "net worth panel", "Could not load your net worth.", err)
			return
		}
		render(w, r, env, http.StatusOK, "net_worth", nw)
	}
}

func UpcomingRemindersPanel(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := loadUpcomingReminders(r.Context(), env, pageSession(r).UserID, env.now())
		if err != nil {
			renderPanelError(w, r, env, "upcoming reminders panel", "Could not load your reminders.", err)
			return
		}
		render(w, r, env, http.StatusOK, "upcoming_reminders", items)
	}
}

type movementsData struct {
	Items []models.Transaction
	Total decimal.Decimal
}

func TodayExpensesPanel(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := loadTodayExpenses(r.Context(), env, pageSession(r).UserID, env.now())
		if err != nil {
			renderPanelError(w, r, env, "today expenses panel", "Could not load today's expenses.", err)
			return
		}
		total := decimal.Zero
		for _, t := range items {
			total = total.Add(t.Amount)
		}
		render(w, r, env, http.StatusOK, "today_expenses", movementsData{Items: items, Total: total})
	}
}

type budgetsData struct {
	SessionID  string
	Report     finance.BudgetReport
	Categories []models.Category
	Month      string
}

func renderBudgets(w http.ResponseWriter, r *http.Request, env *Env) {
	sess, now := pageSession(r), env.now()
	report, err := loadBudgets(r.Context(), env, sess.UserID, now)
	if err != nil {
		renderPanelError(w, r, env, "budgets panel", "Could not load your budgets.", err)
		return
	}
	// The form still renders without categories; the notice explains why.
	categories, err := sessionCategories(r.Context(), env, sess)
	if err != nil {
		util.ReportError(r.Context(), "budget categories", err)
	}
	render(w, r, env, http.StatusOK, "budgets", budgetsData{
		SessionID:  sess.ID,
		Report:     report,
		Categories: finance.CategoriesOfType(categories, models.CategoryExpense),
		Month:      now.Format("January 2006"),
	})
}

func BudgetsPanel(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderBudgets(w, r, env)
	}
}

func ExpenseChartPanel(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chart, err := loadExpenseChart(r.Context(), env, pageSession(r).UserID, env.now())
		if err != nil {
			renderPanelError(w, r, env, "expense chart panel", "Could not load the expense chart.", err)
			return
		}
		render(w, r, env, http.StatusOK, "expense_chart", chart)
	}
}

func RecentMovementsPanel(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := limitParam(r, expensesPageMovements, maxMovements)
		items, err := env.Store.ListTransactions(r.Context(), pageSession(r).UserID, limit)
		if err != nil {
			renderPanelError(w, r, env, "recent movements panel", "Could not load your latest movements.", err)
			return
		}
		render(w, r, env, http.StatusOK, "recent_movements", movementsData{Items: items})
	}
}

type investmentsData struct {
	SessionID   string
	Portfolio   finance.Portfolio
	PricesStale bool
}

func renderInvestments(w http.ResponseWriter, r *http.Request, env *Env) {
	sess := pageSession(r)
	pf, stale, err := loadPortfolio(r.Context(), env, sess.UserID)
	if err != nil {
		renderPanelError(w, r, env, "investments panel", "Could not load your investments.", err)
		return
	}
	render(w, r, env, http.StatusOK, "investments", investmentsData{SessionID: sess.ID, Portfolio: pf, PricesStale: stale})
}

func InvestmentsPanel(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderInvestments(w, r, env)
	}
}

type remindersData struct {
	SessionID string
	Groups    finance.ReminderGroups
}

func renderReminders(w http.ResponseWriter, r *http.Request, env *Env) {
	sess := pageSession(r)
	groups, err := loadReminderGroups(r.Context(), env, sess.UserID, env.now())
	if err != nil {
		renderPanelError(w, r, env, "reminders panel", "Could not load your reminders.", err)
		return
	}
	render(w, r, env, http.StatusOK, "reminders", remindersData{SessionID: sess.ID, Groups: groups})
}

func RemindersPanel(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderReminders(w, r, env)
	}
}

type transactionsData struct {
	SessionID string
	Items     []models.Transaction
}

func renderTransactions(w http.ResponseWriter, r *http.Request, env *Env) {
	sess := pageSession(r)
	items, err := env.Store.ListTransactions(r.Context(), sess.UserID, 0)
	if err != nil {
		renderPanelError(w, r, env, "transactions panel", "Could not load your transactions.", err)
		return
	}
	render(w, r, env, http.StatusOK, "transactions", transactionsData{SessionID: sess.ID, Items: items})
}

func TransactionsPanel(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderTransactions(w, r, env)
	}
}

type transactionFormData struct {
	SessionID  string
	Wallets    []models.Wallet
	Categories []models.Category
}

func TransactionFormPanel(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := pageSession(r)
		wallets, err := env.Store.ListWallets(r.Context(), sess.UserID)
		if err != nil {
			renderPanelError(w, r, env, "transaction form wallets", "Could not load your wallets.", err)
			return
		}
		categories, err := sessionCategories(r.Context(), env, sess)
		if err != nil {
			renderPanelError(w, r, env, "transaction form categories", "Could not load your categories.", err)
			return
		}
		render(w, r, env, http.StatusOK, "transaction_form", transactionFormData{
			SessionID:  sess.ID,
			Wallets:    wallets,
			Categories: finance.CategoriesOfType(categories, models.CategoryExpense),
		})
	}
}

// CategoryOptions swaps the category select when the transaction type
// changes. It reads the page's cached category list.
func CategoryOptions(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := finance.ParseKind(r.URL.Query().Get("type"))
		if err != nil {
			kind = finance.KindExpense
		}
		categories, err := sessionCategories(r.Context(), env, pageSession(r))
		if err != nil {
			renderPanelError(w, r, env, "category options", "Could not load your categories.", err)
			return
		}
		render(w, r, env, http.StatusOK, "category_options", finance.CategoriesOfType(categories, kind.CategoryType()))
	}
}
