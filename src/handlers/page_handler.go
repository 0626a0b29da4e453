package handlers

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"time"

	"micartera/src/session"
	"micartera/src/util"

	"github.com/go-chi/chi/v5"
)

type pageSessionKey struct{}

type pageData struct {
	Title     string
	Page      string
	SessionID string
	Demo      bool
	// Movements is how many recent movements the page lists.
	Movements int
	// Today is the current date in the app timezone, for date inputs.
	Today string
}

func pageMovements(page string) int {
	if page == "dashboard" {
		return patrimonyMovements
	}
	return expensesPageMovements
}

func render(w http.ResponseWriter, r *http.Request, env *Env, status int, name string, data any) {
	var buf bytes.Buffer
	if err := env.Views.Render(&buf, name, data); err != nil {
		util.ReportError(r.Context(), "render "+name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Page renders a page shell and opens the page session its panels load
// through.
func Page(env *Env, page, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUser(r)
		sess, err := env.Sessions.Open(userID, page)
		if err != nil {
			util.ReportError(r.Context(), "open page session", err)
			http.Error(w, "could not open page, try again", http.StatusServiceUnavailable)
			return
		}
		log.Printf("INFO: Opened %s session %s for user %d", page, sess.ID, userID)
		render(w, r, env, http.StatusOK, page+"_page", pageData{
			Title:     title,
			Page:      page,
			SessionID: sess.ID,
			Demo:      env.Demo,
			Movements: pageMovements(page),
			Today:     env.now().Format(time.DateOnly),
		})
	}
}

// EndPageSession runs when the user navigates away. It always succeeds.
func EndPageSession(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "session_id")
		if _, ok := env.Sessions.Get(id, currentUser(r)); ok {
			env.Sessions.End(id)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PageSessionGuard resolves {session_id}. Requests for a session that has
// ended are answered with 204 and never reach the handler.
func PageSessionGuard(env *Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := env.Sessions.Get(chi.URLParam(r, "session_id"), currentUser(r))
			if !ok {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			ctx := context.WithValue(r.Context(), pageSessionKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func pageSession(r *http.Request) *session.PageSession {
	sess, _ := r.Context().Value(pageSessionKey{}).(*session.PageSession)
	return sess
}
