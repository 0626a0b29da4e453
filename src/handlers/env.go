package handlers

import (
	"context"
	"time"

	"micartera/src/models"
	"micartera/src/session"
	"micartera/src/web"

	"github.com/shopspring/decimal"
)

// Store is the data access the handlers need. *db.Repository implements it.
type Store interface {
	ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	ListExpensesBetween(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error)
	AddTransaction(ctx context.Context, userID int64, t models.Transaction) (int64, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error

	ListWallets(ctx context.Context, userID int64) ([]models.Wallet, error)
	CreateWallet(ctx context.Context, userID int64, w models.Wallet) (*models.Wallet, error)
	DeleteWallet(ctx context.Context, userID, id int64) error
	WalletBalances(ctx context.Context, userID int64) ([]models.WalletBalance, error)

	ListCategories(ctx context.Context, userID int64) ([]models.Category, error)
	CreateCategory(ctx context.Context, userID int64, c models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, id int64) error

	CreateBudget(ctx context.Context, userID int64, b models.Budget) (*models.Budget, error)
	ListBudgetsForMonth(ctx context.Context, userID int64, month, year int) ([]models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id int64) error

	CreateNote(ctx context.Context, userID int64, n models.Note) (*models.Note, error)
	ListNotes(ctx context.Context, userID int64) ([]models.Note, error)
	ListUpcomingNotes(ctx context.Context, userID int64, today time.Time, limit int) ([]models.Note, error)
	DeleteNote(ctx context.Context, userID, id int64) error

	CreateInvestment(ctx context.Context, userID int64, inv models.Investment) (*models.Investment, error)
	ListInvestments(ctx context.Context, userID int64) ([]models.Investment, error)
	DeleteInvestment(ctx context.Context, userID, id int64) error

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

// Quoter returns current prices keyed by ticker.
type Quoter interface {
	Quotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

type Env struct {
	Store    Store
	Sessions *session.Store
	Prices   Quoter
	Views    *web.Views
	Secret   []byte

	// Location is the timezone month and day windows are computed in.
	Location      *time.Location
	Clock         func() time.Time
	SecureCookies bool
	Demo          bool
}

func (e *Env) now() time.Time {
	clock := e.Clock
	if clock == nil {
		clock = time.Now
	}
	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}
	return clock().In(loc)
}
