package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	db "micartera/src/db/sql"
	"micartera/src/middleware"
	"micartera/src/models"
	"micartera/src/util"

	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = errors.New("invalid credentials")

// authenticate checks the credentials and returns the user with a fresh
// token.
func authenticate(ctx context.Context, env *Env, email, password, remoteAddr string) (*models.User, string, error) {
	email = util.NormalizeEmail(email)
	user, err := env.Store.GetUserByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		log.Printf("ERROR: Failed to find user during login - Email: %s", email)
		return nil, "", errInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Printf("ERROR: Invalid password attempt for email %s from IP %s", email, remoteAddr)
		return nil, "", errInvalidCredentials
	}

	token, err := middleware.IssueToken(env.Secret, user.ID, user.Email, env.now())
	if err != nil {
		return nil, "", err
	}

	if err := env.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("ERROR: Failed to update last_login for user %d: %v", user.ID, err)
	}
	log.Printf("INFO: Successful login - User: %s, ID: %d", user.Email, user.ID)
	return user, token, nil
}

func Login(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if !decode(w, r, "login", &credentials) {
			return
		}

		_, token, err := authenticate(r.Context(), env, credentials.Email, credentials.Password, r.RemoteAddr)
		if errors.Is(err, errInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err != nil {
			writeFailure(w, r, "login", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

func LoginPage(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, env, http.StatusOK, "login_page", loginData{Demo: env.Demo})
	}
}

type loginData struct {
	Email string
	Error string
	Demo  bool
}

func LoginForm(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, password := r.FormValue("email"), r.FormValue("password")
		_, token, err := authenticate(r.Context(), env, email, password, r.RemoteAddr)
		if err != nil {
			status, msg := http.StatusUnauthorized, "Email or password is wrong."
			if !errors.Is(err, errInvalidCredentials) {
				util.ReportError(r.Context(), "login", err)
				status, msg = http.StatusInternalServerError, "Could not sign you in right now. Try again."
			}
			render(w, r, env, status, "login_page", loginData{Email: email, Error: msg, Demo: env.Demo})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.TokenCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(middleware.TokenTTL.Seconds()),
			HttpOnly: true,
			Secure:   env.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func Logout(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.TokenCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   env.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
