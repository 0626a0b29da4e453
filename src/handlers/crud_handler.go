package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"micartera/src/finance"
	"micartera/src/models"
)

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Printf("ERROR: Failed to decode %s request body for user %d: %v", op, currentUser(r), err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

// deleteOwned builds a DELETE handler for {id}. The call must be confirmed.
func deleteOwned(what string, del func(ctx context.Context, userID, id int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUser(r)
		if !confirmed(r) {
			writeFailure(w, r, "delete "+what, errConfirmationRequired)
			return
		}
		id, err := idParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+what+" id")
			return
		}
		if err := del(r.Context(), userID, id); err != nil {
			writeFailure(w, r, "delete "+what, err)
			return
		}
		log.Printf("INFO: Deleted %s %d for user %d", what, id, userID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// createTransaction validates the draft, normalizes its sign and inserts it
// through the backend function.
func createTransaction(ctx context.Context, env *Env, userID int64, draft finance.TransactionDraft, categories []models.Category) (int64, error) {
	tx, err := draft.Build(categories)
	if err != nil {
		return 0, err
	}
	id, err := env.Store.AddTransaction(ctx, userID, tx)
	if err != nil {
		return 0, err
	}
	log.Printf("INFO: Created transaction %d for user %d (%s)", id, userID, tx.Amount)
	return id, nil
}

func ListTransactions(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txs, err := env.Store.ListTransactions(r.Context(), currentUser(r), limitParam(r, 0, 1000))
		if err != nil {
			writeFailure(w, r, "list transactions", err)
			return
		}
		writeJSON(w, http.StatusOK, txs)
	}
}

func CreateTransaction(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUser(r)
		var req struct {
			Type        string      `json:"type"`
			Amount      json.Number `json:"amount"`
			Description string      `json:"description"`
			WalletID    int64       `json:"wallet_id"`
			CategoryID  int64       `json:"category_id"`
		}
		if !decode(w, r, "create transaction", &req) {
			return
		}
		categories, err := env.Store.ListCategories(r.Context(), userID)
		if err != nil {
			writeFailure(w, r, "list categories", err)
			return
		}
		id, err := createTransaction(r.Context(), env, userID, finance.TransactionDraft{
			Kind:        req.Type,
			Amount:      req.Amount.String(),
			Description: req.Description,
			WalletID:    formatID(req.WalletID),
			CategoryID:  formatID(req.CategoryID),
		}, categories)
		if err != nil {
			writeFailure(w, r, "create transaction", err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
	}
}

func DeleteTransaction(env *Env) http.HandlerFunc {
	return deleteOwned("transaction", env.Store.DeleteTransaction)
}

// ListBudgets returns the raw budgets of ?month=&year=, defaulting to the
// current month.
func ListBudgets(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := env.now()
		month, year := int(now.Month()), now.Year()
		if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil {
			month = m
		}
		if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
			year = y
		}
		budgets, err := env.Store.ListBudgetsForMonth(r.Context(), currentUser(r), month, year)
		if err != nil {
			writeFailure(w, r, "list budgets", err)
			return
		}
		writeJSON(w, http.StatusOK, budgets)
	}
}

func CreateBudget(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUser(r)
		var req struct {
			CategoryID int64       `json:"category_id"`
			Amount     json.Number `json:"amount"`
			Month      int         `json:"month"`
			Year       int         `json:"year"`
		}
		if !decode(w, r, "create budget", &req) {
			return
		}
		draft := finance.BudgetDraft{CategoryID: formatID(req.CategoryID), Amount: req.Amount.String()}
		if req.Month != 0 {
			draft.Month = strconv.Itoa(req.Month)
		}
		if req.Year != 0 {
			draft.Year = strconv.Itoa(req.Year)
		}
		categories, err := env.Store.ListCategories(r.Context(), userID)
		if err != nil {
			writeFailure(w, r, "list categories", err)
			return
		}
		budget, err := draft.Build(env.now(), categories)
		if err != nil {
			writeFailure(w, r, "create budget", err)
			return
		}
		created, err := env.Store.CreateBudget(r.Context(), userID, budget)
		if err != nil {
			writeFailure(w, r, "create budget", err)
			return
		}
		log.Printf("INFO: Created budget %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func DeleteBudget(env *Env) http.HandlerFunc {
	return deleteOwned("budget", env.Store.DeleteBudget)
}

func CreateReminder(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUser(r)
		var req struct {
			Title    string `json:"title"`
			DueDate  string `json:"due_date"`
			Category string `json:"category"`
		}
		if !decode(w, r, "create reminder", &req) {
			return
		}
		note, err := finance.NoteDraft{Title: req.Title, DueDate: req.DueDate, Category: req.Category}.Build()
		if err != nil {
			writeFailure(w, r, "create reminder", err)
			return
		}
		created, err := env.Store.CreateNote(r.Context(), userID, note)
		if err != nil {
			writeFailure(w, r, "create reminder", err)
			return
		}
		log.Printf("INFO: Created reminder %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, finance.ClassifyReminder(*created, env.now()))
	}
}

func DeleteReminder(env *Env) http.HandlerFunc {
	return deleteOwned("reminder", env.Store.DeleteNote)
}

func ListInvestments(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invs, err := env.Store.ListInvestments(r.Context(), currentUser(r))
		if err != nil {
			writeFailure(w, r, "list investments", err)
			return
		}
		writeJSON(w, http.StatusOK, invs)
	}
}

func CreateInvestment(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUser(r)
		var req struct {
			Asset         string      `json:"asset"`
			Quantity      json.Number `json:"quantity"`
			PurchasePrice json.Number `json:"purchase_price"`
			PurchaseDate  string      `json:"purchase_date"`
			TakeProfitPct json.Number `json:"tp_pct"`
			StopLossPct   json.Number `json:"sl_pct"`
		}
		if !decode(w, r, "create investment", &req) {
			return
		}
		inv, err := finance.InvestmentDraft{
			Asset:         req.Asset,
			Quantity:      req.Quantity.String(),
			PurchasePrice: req.PurchasePrice.String(),
			PurchaseDate:  req.PurchaseDate,
			TakeProfitPct: req.TakeProfitPct.String(),
			StopLossPct:   req.StopLossPct.String(),
		}.Build()
		if err != nil {
			writeFailure(w, r, "create investment", err)
			return
		}
		created, err := env.Store.CreateInvestment(r.Context(), userID, inv)
		if err != nil {
			writeFailure(w, r, "create investment", err)
			return
		}
		log.Printf("INFO: Created investment %d (%s) for user %d", created.ID, created.Asset, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func DeleteInvestment(env *Env) http.HandlerFunc {
	return deleteOwned("investment", env.Store.DeleteInvestment)
}

func ListWallets(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallets, err := env.Store.ListWallets(r.Context(), currentUser(r))
		if err != nil {
			writeFailure(w, r, "list wallets", err)
			return
		}
		writeJSON(w, http.StatusOK, wallets)
	}
}

func GetWalletBalances(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		balances, err := env.Store.WalletBalances(r.Context(), currentUser(r))
		if err != nil {
			writeFailure(w, r, "wallet balances", err)
			return
		}
		writeJSON(w, http.StatusOK, balances)
	}
}

func CreateWallet(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUser(r)
		var req struct {
			Name     string `json:"name"`
			Currency string `json:"currency"`
		}
		if !decode(w, r, "create wallet", &req) {
			return
		}
		wallet, err := finance.WalletDraft{Name: req.Name, Currency: req.Currency}.Build()
		if err != nil {
			writeFailure(w, r, "create wallet", err)
			return
		}
		created, err := env.Store.CreateWallet(r.Context(), userID, wallet)
		if err != nil {
			writeFailure(w, r, "create wallet", err)
			return
		}
		log.Printf("INFO: Created wallet %d (%s) for user %d", created.ID, created.Currency, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func DeleteWallet(env *Env) http.HandlerFunc {
	return deleteOwned("wallet", env.Store.DeleteWallet)
}

// ListCategories returns every category, or only those of ?type=.
func ListCategories(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := env.Store.ListCategories(r.Context(), currentUser(r))
		if err != nil {
			writeFailure(w, r, "list categories", err)
			return
		}
		if typ := r.URL.Query().Get("type"); typ != "" {
			categories = finance.CategoriesOfType(categories, typ)
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func CreateCategory(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUser(r)
		var req struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if !decode(w, r, "create category", &req) {
			return
		}
		category, err := finance.CategoryDraft{Name: req.Name, Type: req.Type}.Build()
		if err != nil {
			writeFailure(w, r, "create category", err)
			return
		}
		created, err := env.Store.CreateCategory(r.Context(), userID, category)
		if err != nil {
			writeFailure(w, r, "create category", err)
			return
		}
		log.Printf("INFO: Created category %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func DeleteCategory(env *Env) http.HandlerFunc {
	return deleteOwned("category", env.Store.DeleteCategory)
}
