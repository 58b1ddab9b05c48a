// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"blogdans/internal/models"
	"blogdans/internal/oauth"
	"blogdans/internal/render"
	"blogdans/internal/session"
)

const (
	// oauthCookieName holds the state, nonce and return path of a sign-in
	// in progress.
	oauthCookieName = "bd_oauth"

	oauthCookiePath = "/auth/google"

	// oauthCookieMaxAge bounds how long a reader may sit on Google's
	// consent page.
	oauthCookieMaxAge = 10 * 60
)

// Auth groups the Google sign-in handlers.
type Auth struct {
	renderer *render.Renderer
	provider OAuthProvider
	users    UserStore
	sessions SessionManager
	secure   bool
}

// NewAuth creates a new Auth handler group. A nil provider means mock
// authentication is active: Login then only returns the reader to where
// they came from.
func NewAuth(renderer *render.Renderer, provider OAuthProvider, users UserStore, sessions SessionManager, secure bool) *Auth {
	return &Auth{
		renderer: renderer,
		provider: provider,
		users:    users,
		sessions: sessions,
		secure:   secure,
	}
}

// Login starts the OpenID Connect flow. The state and nonce are kept in a
// short-lived cookie scoped to the callback path.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if a.provider == nil {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	state, err := oauth.RandomToken()
	if err != nil {
		slog.Error("generate oauth state failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	nonce, err := oauth.RandomToken()
	if err != nil {
		slog.Error("generate oauth nonce failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthCookieName,
		Value:    url.Values{"state": {state}, "nonce": {nonce}, "next": {next}}.Encode(),
		Path:     oauthCookiePath,
		MaxAge:   oauthCookieMaxAge,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.provider.AuthCodeURL(state, nonce), http.StatusFound)
}

// Callback completes the flow: it checks the state, exchanges the code,
// validates the Google profile, makes sure a blog user exists and starts a
// session. Any failure of the provider or profile is a 401 sign-in failure.
func (a *Auth) Callback(w http.ResponseWriter, r *http.Request) {
	if a.provider == nil {
		renderError(a.renderer, w, r, http.StatusNotFound, "")
		return
	}
	ctx := r.Context()

	pending, ok := readOAuthCookie(r)
	a.clearOAuthCookie(w)
	if !ok {
		renderError(a.renderer, w, r, http.StatusBadRequest, "Your sign-in expired. Please try again.")
		return
	}

	q := r.URL.Query()
	if errParam := q.Get("error"); errParam != "" {
		slog.Info("google sign-in declined", "error", errParam)
		renderError(a.renderer, w, r, http.StatusUnauthorized, "Sign-in was cancelled.")
		return
	}
	if subtle.ConstantTimeCompare([]byte(q.Get("state")), []byte(pending.Get("state"))) != 1 {
		renderError(a.renderer, w, r, http.StatusBadRequest, "Your sign-in expired. Please try again.")
		return
	}

	profile, err := a.provider.Exchange(ctx, q.Get("code"), pending.Get("nonce"))
	if err != nil {
		slog.Warn("google token exchange failed", "error", err)
		renderError(a.renderer, w, r, http.StatusUnauthorized, "Sign-in failed.")
		return
	}

	user, err := a.users.CreateUserIfAbsent(ctx, *profile)
	var schemaErr *models.SchemaError
	if errors.As(err, &schemaErr) {
		slog.Warn("google profile rejected", "error", err, "sub", profile.Sub)
		renderError(a.renderer, w, r, http.StatusUnauthorized, "Sign-in failed: your Google profile is incomplete.")
		return
	}
	if err != nil {
		slog.Error("create user failed", "error", err, "sub", profile.Sub)
		renderError(a.renderer, w, r, http.StatusInternalServerError, "")
		return
	}

	_, err = a.sessions.Create(ctx, w, &session.Data{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Photo:  user.Photo,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		renderError(a.renderer, w, r, http.StatusInternalServerError, "")
		return
	}

	slog.Info("reader signed in", "user_id", user.ID)
	http.Redirect(w, r, safeNext(pending.Get("next")), http.StatusSeeOther)
}

// Logout destroys the session and returns to the index.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func readOAuthCookie(r *http.Request) (url.Values, bool) {
	cookie, err := r.Cookie(oauthCookieName)
	if err != nil {
		return nil, false
	}
	values, err := url.ParseQuery(cookie.Value)
	if err != nil || values.Get("state") == "" || values.Get("nonce") == "" {
		return nil, false
	}
	return values, true
}

func (a *Auth) clearOAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthCookieName,
		Value:    "",
		Path:     oauthCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext keeps redirects on this site: only absolute paths are allowed,
// and protocol-relative or backslash forms fall back to the index.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
