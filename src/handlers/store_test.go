package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	db "micartera/src/db/sql"
	"micartera/src/middleware"
	"micartera/src/models"
	"micartera/src/session"
	"micartera/src/web"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUser int64 = 1

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// fakeStore keeps rows in memory. fail makes the named method return the
// error; calls counts every invocation by method name.
type fakeStore struct {
	mu           sync.Mutex
	fail         map[string]error
	calls        map[string]int
	transactions []models.Transaction
	wallets      []models.Wallet
	categories   []models.Category
	budgets      []models.Budget
	notes        []models.Note
	investments  []models.Investment
	users        []models.User
	nextID       int64
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{fail: map[string]error{}, calls: map[string]int{}, nextID: 100}
}

func (f *fakeStore) enter(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.fail[method]
}

func (f *fakeStore) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ListTransactions(_ context.Context, _ int64, limit int) ([]models.Transaction, error) {
	if err := f.enter("ListTransactions"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]models.Transaction(nil), f.transactions...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ListExpensesBetween(_ context.Context, _ int64, start, end time.Time) ([]models.Transaction, error) {
	if err := f.enter("ListExpensesBetween"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, t := range f.transactions {
		if t.IsExpense() && !t.CreatedAt.Before(start) && t.CreatedAt.Before(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) GetTransaction(_ context.Context, _ int64, id int64) (*models.Transaction, error) {
	if err := f.enter("GetTransaction"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.transactions {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) AddTransaction(_ context.Context, userID int64, t models.Transaction) (int64, error) {
	if err := f.enter("AddTransaction"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID, t.UserID, t.CreatedAt = f.id(), userID, testNow
	f.transactions = append(f.transactions, t)
	return t.ID, nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, _ int64, id int64) error {
	if err := f.enter("DeleteTransaction"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.transactions {
		if t.ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeStore) ListWallets(context.Context, int64) ([]models.Wallet, error) {
	if err := f.enter("ListWallets"); err != nil {
		return nil, err
	}
	return f.wallets, nil
}

func (f *fakeStore) CreateWallet(_ context.Context, userID int64, w models.Wallet) (*models.Wallet, error) {
	if err := f.enter("CreateWallet"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID, w.UserID = f.id(), userID
	f.wallets = append(f.wallets, w)
	return &w, nil
}

func (f *fakeStore) DeleteWallet(context.Context, int64, int64) error {
	return f.enter("DeleteWallet")
}

func (f *fakeStore) WalletBalances(context.Context, int64) ([]models.WalletBalance, error) {
	if err := f.enter("WalletBalances"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeStore) ListCategories(context.Context, int64) ([]models.Category, error) {
	if err := f.enter("ListCategories"); err != nil {
		return nil, err
	}
	return append([]models.Category{}, f.categories...), nil
}

func (f *fakeStore) CreateCategory(_ context.Context, userID int64, c models.Category) (*models.Category, error) {
	if err := f.enter("CreateCategory"); err != nil {
		return nil, err
	}
	c.ID, c.UserID = f.id(), userID
	return &c, nil
}

func (f *fakeStore) DeleteCategory(context.Context, int64, int64) error {
	return f.enter("DeleteCategory")
}

func (f *fakeStore) CreateBudget(_ context.Context, userID int64, b models.Budget) (*models.Budget, error) {
	if err := f.enter("CreateBudget"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID, b.UserID = f.id(), userID
	f.budgets = append(f.budgets, b)
	return &b, nil
}

func (f *fakeStore) ListBudgetsForMonth(_ context.Context, _ int64, month, year int) ([]models.Budget, error) {
	if err := f.enter("ListBudgetsForMonth"); err != nil {
		return nil, err
	}
	var out []models.Budget
	for _, b := range f.budgets {
		if b.Month == month && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteBudget(context.Context, int64, int64) error {
	return f.enter("DeleteBudget")
}

func (f *fakeStore) CreateNote(_ context.Context, userID int64, n models.Note) (*models.Note, error) {
	if err := f.enter("CreateNote"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID, n.UserID = f.id(), userID
	f.notes = append(f.notes, n)
	return &n, nil
}

func (f *fakeStore) ListNotes(context.Context, int64) ([]models.Note, error) {
	if err := f.enter("ListNotes"); err != nil {
		return nil, err
	}
	return f.notes, nil
}

// ListUpcomingNotes returns every note, overdue ones included, like a query
// that ran just before midnight.
func (f *fakeStore) ListUpcomingNotes(_ context.Context, _ int64, _ time.Time, _ int) ([]models.Note, error) {
	if err := f.enter("ListUpcomingNotes"); err != nil {
		return nil, err
	}
	out := append([]models.Note(nil), f.notes...)
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakeStore) DeleteNote(context.Context, int64, int64) error {
	return f.enter("DeleteNote")
}

func (f *fakeStore) CreateInvestment(_ context.Context, userID int64, inv models.Investment) (*models.Investment, error) {
	if err := f.enter("CreateInvestment"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	inv.ID, inv.UserID = f.id(), userID
	f.investments = append(f.investments, inv)
	return &inv, nil
}

func (f *fakeStore) ListInvestments(context.Context, int64) ([]models.Investment, error) {
	if err := f.enter("ListInvestments"); err != nil {
		return nil, err
	}
	return f.investments, nil
}

func (f *fakeStore) DeleteInvestment(context.Context, int64, int64) error {
	return f.enter("DeleteInvestment")
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if err := f.enter("GetUserByEmail"); err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) UpdateLastLogin(context.Context, int64) error {
	return f.enter("UpdateLastLogin")
}

type fakeQuoter struct {
	quotes map[string]decimal.Decimal
	err    error
}

func (q fakeQuoter) Quotes(context.Context, []string) (map[string]decimal.Decimal, error) {
	return q.quotes, q.err
}

func newTestEnv(t *testing.T, store *fakeStore) *Env {
	t.Helper()
	sessions, err := session.NewStore(time.Minute)
	require.NoError(t, err)
	t.Cleanup(sessions.Close)
	views, err := web.LoadViews()
	require.NoError(t, err)
	return &Env{
		Store:    store,
		Sessions: sessions,
		Prices:   fakeQuoter{quotes: map[string]decimal.Decimal{}},
		Views:    views,
		Secret:   []byte("0123456789abcdef"),
		Location: time.UTC,
		Clock:    func() time.Time { return testNow },
	}
}

func asUser(userID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
}

// testRouter mounts the handlers the way the server does, minus the token
// check: every request runs as testUser.
func testRouter(env *Env) http.Handler {
	r := chi.NewRouter()
	r.Use(asUser(testUser))
	r.Delete("/ui/sessions/{session_id}", EndPageSession(env))
	r.Route("/ui/{session_id}", func(r chi.Router) {
		r.Use(PageSessionGuard(env))
		r.Get("/net-worth", NetWorthPanel(env))
		r.Get("/upcoming-reminders", UpcomingRemindersPanel(env))
		r.Get("/transactions", TransactionsPanel(env))
		r.Get("/transaction-form", TransactionFormPanel(env))
		r.Get("/category-options", CategoryOptions(env))
		r.Post("/transactions", SubmitTransaction(env))
		r.Post("/transactions/{id}/delete", DeleteTransactionForm(env))
		r.Post("/budgets", SubmitBudget(env))
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", GetDashboard(env))
		r.Get("/net-worth", GetNetWorth(env))
		r.Get("/reminders", GetReminders(env))
		r.Get("/reminders/upcoming", GetUpcomingReminders(env))
		r.Get("/investments/valuation", GetInvestmentValuation(env))
		r.Post("/transactions", CreateTransaction(env))
		r.Delete("/transactions/{id}", DeleteTransaction(env))
		r.Post("/budgets", CreateBudget(env))
		r.Post("/wallets", CreateWallet(env))
	})
	return r
}

func strp(s string) *string { return &s }

func expense(id int64, amount, currency string, at time.Time) models.Transaction {
	return models.Transaction{
		ID:          id,
		UserID:      testUser,
		Description: "expense",
		Amount:      decimal.RequireFromString(amount),
		CreatedAt:   at,
		Currency:    strp(currency),
	}
}

func note(title string, due time.Time) models.Note {
	return models.Note{UserID: testUser, Title: title, DueDate: due, Category: models.DefaultNoteCategory}
}
