package handlers

import (
	"errors"
	"log"
	"net/http"

	db "micartera/src/db/sql"
	"micartera/src/finance"
	"micartera/src/models"
	"micartera/src/util"
)

const changedEvent = "cartera:changed"

type formNotice struct {
	Field   string
	Message string
}

// renderFormNotice retargets the response into the form's notice box and
// writes nothing to the backend.
func renderFormNotice(w http.ResponseWriter, r *http.Request, env *Env, op string, err error) {
	notice := formNotice{Message: "Could not save. Try again."}
	status := http.StatusInternalServerError
	var verr *finance.ValidationError
	switch {
	case errors.As(err, &verr):
		notice = formNotice{Field: verr.Field, Message: verr.Error()}
		status = http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrConflict):
		notice.Message = "That entry already exists."
		status = http.StatusConflict
	case errors.Is(err, db.ErrNotFound):
		notice.Message = "That entry no longer exists."
		status = http.StatusNotFound
	default:
		util.ReportError(r.Context(), op, err)
	}
	if status != http.StatusInternalServerError {
		log.Printf("INFO: %s rejected for user %d: %v", op, currentUser(r), err)
	}
	w.Header().Set("HX-Retarget", "#form-notice")
	w.Header().Set("HX-Reswap", "innerHTML")
	render(w, r, env, status, "form_notice", notice)
}

// changed tells every panel on the page to refetch.
func changed(w http.ResponseWriter) {
	w.Header().Set("HX-Trigger", changedEvent)
}

func SubmitTransaction(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := pageSession(r)
		categories, err := sessionCategories(r.Context(), env, sess)
		if err != nil {
			renderFormNotice(w, r, env, "transaction form categories", err)
			return
		}
		_, err = createTransaction(r.Context(), env, sess.UserID, finance.TransactionDraft{
			Kind:        r.FormValue("type"),
			Amount:      r.FormValue("amount"),
			Description: r.FormValue("description"),
			WalletID:    r.FormValue("wallet"),
			CategoryID:  r.FormValue("category"),
		}, categories)
		if err != nil {
			renderFormNotice(w, r, env, "create transaction", err)
			return
		}
		changed(w)
		renderTransactions(w, r, env)
	}
}

type confirmDeleteData struct {
	SessionID   string
	Transaction models.Transaction
}

func ConfirmDeleteTransaction(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := pageSession(r)
		id, err := idParam(r, "id")
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		tx, err := env.Store.GetTransaction(r.Context(), sess.UserID, id)
		if err != nil {
			renderFormNotice(w, r, env, "load transaction", err)
			return
		}
		render(w, r, env, http.StatusOK, "confirm_delete", confirmDeleteData{SessionID: sess.ID, Transaction: *tx})
	}
}

// DeleteTransactionForm deletes only when the confirmation step was passed;
// otherwise it shows the prompt again.
func DeleteTransactionForm(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("confirm") != "yes" {
			ConfirmDeleteTransaction(env)(w, r)
			return
		}
		sess := pageSession(r)
		id, err := idParam(r, "id")
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		if err := env.Store.DeleteTransaction(r.Context(), sess.UserID, id); err != nil {
			renderFormNotice(w, r, env, "delete transaction", err)
			return
		}
		log.Printf("INFO: Deleted transaction %d for user %d", id, sess.UserID)
		changed(w)
		renderTransactions(w, r, env)
	}
}

func SubmitBudget(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := pageSession(r)
		categories, err := sessionCategories(r.Context(), env, sess)
		if err != nil {
			renderFormNotice(w, r, env, "budget form categories", err)
			return
		}
		budget, err := finance.BudgetDraft{
			CategoryID: r.FormValue("category"),
			Amount:     r.FormValue("amount"),
			Month:      r.FormValue("month"),
			Year:       r.FormValue("year"),
		}.Build(env.now(), categories)
		if err != nil {
			renderFormNotice(w, r, env, "create budget", err)
			return
		}
		if _, err := env.Store.CreateBudget(r.Context(), sess.UserID, budget); err != nil {
			renderFormNotice(w, r, env, "create budget", err)
			return
		}
		changed(w)
		renderBudgets(w, r, env)
	}
}

func SubmitReminder(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := pageSession(r)
		note, err := finance.NoteDraft{
			Title:    r.FormValue("title"),
			DueDate:  r.FormValue("due_date"),
			Category: r.FormValue("category"),
		}.Build()
		if err != nil {
			renderFormNotice(w, r, env, "create reminder", err)
			return
		}
		if _, err := env.Store.CreateNote(r.Context(), sess.UserID, note); err != nil {
			renderFormNotice(w, r, env, "create reminder", err)
			return
		}
		changed(w)
		renderReminders(w, r, env)
	}
}

func SubmitInvestment(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := pageSession(r)
		inv, err := finance.InvestmentDraft{
			Asset:         r.FormValue("asset"),
			Quantity:      r.FormValue("quantity"),
			PurchasePrice: r.FormValue("purchase_price"),
			PurchaseDate:  r.FormValue("purchase_date"),
			TakeProfitPct: r.FormValue("tp_pct"),
			StopLossPct:   r.FormValue("sl_pct"),
		}.Build()
		if err != nil {
			renderFormNotice(w, r, env, "create investment", err)
			return
		}
		if _, err := env.Store.CreateInvestment(r.Context(), sess.UserID, inv); err != nil {
			renderFormNotice(w, r, env, "create investment", err)
			return
		}
		changed(w)
		renderInvestments(w, r, env)
	}
}
