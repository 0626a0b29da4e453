package api

import (
	"io/fs"
	"net/http"

	"micartera/src/handlers"
	"micartera/src/middleware"
	"micartera/src/web"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AllowedOrigins []string
	Demo           bool
}

func NewRouter(env *handlers.Env, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(opts.Demo))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	if static, err := fs.Sub(web.StaticFS, "static"); err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	r.Get("/login", handlers.LoginPage(env))
	r.Post("/login", handlers.LoginForm(env))
	r.Post("/logout", handlers.Logout(env))

	// HTML pages and their panels
	r.With(middleware.RequireLogin(env.Secret)).Group(func(r chi.Router) {
		r.Get("/", handlers.Page(env, "dashboard", "Home"))
		r.Get("/expenses", handlers.Page(env, "expenses", "Expenses"))
		r.Get("/transactions", handlers.Page(env, "transactions", "Transactions"))
		r.Get("/investments", handlers.Page(env, "investments", "Investments"))
		r.Get("/reminders", handlers.Page(env, "reminders", "Reminders"))

		r.Delete("/ui/sessions/{session_id}", handlers.EndPageSession(env))

		r.Route("/ui/{session_id}", func(r chi.Router) {
			r.Use(handlers.PageSessionGuard(env))

			// Panels
			r.Get("/net-worth", handlers.NetWorthPanel(env))
			r.Get("/upcoming-reminders", handlers.UpcomingRemindersPanel(env))
			r.Get("/today-expenses", handlers.TodayExpensesPanel(env))
			r.Get("/budgets", handlers.BudgetsPanel(env))
			r.Get("/expense-chart", handlers.ExpenseChartPanel(env))
			r.Get("/recent-movements", handlers.RecentMovementsPanel(env))
			r.Get("/investments", handlers.InvestmentsPanel(env))
			r.Get("/reminders", handlers.RemindersPanel(env))
			r.Get("/transactions", handlers.TransactionsPanel(env))
			r.Get("/transaction-form", handlers.TransactionFormPanel(env))
			r.Get("/category-options", handlers.CategoryOptions(env))

			// Forms
			r.Post("/transactions", handlers.SubmitTransaction(env))
			r.Get("/transactions/{id}/confirm-delete", handlers.ConfirmDeleteTransaction(env))
			r.Post("/transactions/{id}/delete", handlers.DeleteTransactionForm(env))
			r.Post("/budgets", handlers.SubmitBudget(env))
			r.Post("/reminders", handlers.SubmitReminder(env))
			r.Post("/investments", handlers.SubmitInvestment(env))
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(env))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(env.Secret)).Group(func(r chi.Router) {
			// Aggregates
			r.Get("/dashboard", handlers.GetDashboard(env))
			r.Get("/net-worth", handlers.GetNetWorth(env))
			r.Get("/budgets/progress", handlers.GetBudgetProgress(env))
			r.Get("/expenses/by-category", handlers.GetExpensesByCategory(env))
			r.Get("/reminders", handlers.GetReminders(env))
			r.Get("/reminders/upcoming", handlers.GetUpcomingReminders(env))
			r.Get("/investments/valuation", handlers.GetInvestmentValuation(env))

			// Transactions
			r.Get("/transactions", handlers.ListTransactions(env))
			r.Post("/transactions", handlers.CreateTransaction(env))
			r.Delete("/transactions/{id}", handlers.DeleteTransaction(env))

			// Budgets
			r.Get("/budgets", handlers.ListBudgets(env))
			r.Post("/budgets", handlers.CreateBudget(env))
			r.Delete("/budgets/{id}", handlers.DeleteBudget(env))

			// Reminders
			r.Post("/reminders", handlers.CreateReminder(env))
			r.Delete("/reminders/{id}", handlers.DeleteReminder(env))

			// Investments
			r.Get("/investments", handlers.ListInvestments(env))
			r.Post("/investments", handlers.CreateInvestment(env))
			r.Delete("/investments/{id}", handlers.DeleteInvestment(env))

			// Wallets
			r.Get("/wallets", handlers.ListWallets(env))
			r.Get("/wallets/balances", handlers.GetWalletBalances(env))
			r.Post("/wallets", handlers.CreateWallet(env))
			r.Delete("/wallets/{id}", handlers.DeleteWallet(env))

			// Categories
			r.Get("/categories", handlers.ListCategories(env))
			r.Post("/categories", handlers.CreateCategory(env))
			r.Delete("/categories/{id}", handlers.DeleteCategory(env))
		})
	})

	return r
}
