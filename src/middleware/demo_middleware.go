package middleware

import (
	"net/http"
	"strings"
)

// DemoModeMiddleware makes the app read-only. Signing in and out and closing
// page sessions still work since they write nothing to the database.
func DemoModeMiddleware(isDemo bool) func(http.Handler) http.Handler {
	allowedPosts := map[string]bool{
		"/api/login": true,
		"/login":     true,
		"/logout":    true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isDemo || r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method == http.MethodPost && allowedPosts[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/ui/sessions/") {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Demo mode: only GET requests are allowed", http.StatusForbidden)
		})
	}
}
