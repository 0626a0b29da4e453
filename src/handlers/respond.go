package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	db "micartera/src/db/sql"
	"micartera/src/finance"
	"micartera/src/middleware"
	"micartera/src/util"

	"github.com/go-chi/chi/v5"
)

var errConfirmationRequired = errors.New("confirmation required: repeat the request with ?confirm=true")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func currentUser(r *http.Request) int64 {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func errorStatus(err error) int {
	var verr *finance.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errConfirmationRequired):
		return http.StatusPreconditionRequired
	}
	return http.StatusInternalServerError
}

// writeFailure maps err to a JSON error. Unexpected errors are reported and
// their details kept out of the response.
func writeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		util.ReportError(r.Context(), op, err)
		writeError(w, status, "internal error")
		return
	}
	log.Printf("INFO: %s rejected for user %d: %v", op, currentUser(r), err)
	writeError(w, status, err.Error())
}

// confirmed reports whether a destructive API call carries ?confirm=true.
func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}
