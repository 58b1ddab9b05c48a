// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"blogdans/internal/identity"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// UserKey is the context key for the resolved reader.
	UserKey contextKey = "user"
)

// LoadUser resolves the current reader once per request and stores it in
// the request context. Downstream handlers read it with UserFromCtx. This
// middleware does NOT enforce authentication.
func LoadUser(resolver identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := resolver.Resolve(r)
			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromCtx returns the reader stored by LoadUser, or Anonymous if none
// was stored.
func UserFromCtx(ctx context.Context) identity.User {
	if u, ok := ctx.Value(UserKey).(identity.User); ok && u != nil {
		return u
	}
	return identity.Anonymous{}
}

// WithUser returns a copy of ctx carrying user. Useful for tests and for
// handlers that sign a reader in mid-request.
func WithUser(ctx context.Context, user identity.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// RequireUser rejects anonymous readers with a JSON 401. Must be applied
// after LoadUser in the middleware chain.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identity.AsAuthenticated(UserFromCtx(r.Context())); !ok {
			writeJSONError(w, http.StatusUnauthorized, "sign in to continue")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 unless the reader is authenticated with an email
// accepted by isAdmin. Anonymous readers are sent to the Google sign-in.
func RequireAdmin(isAdmin func(email string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch u := UserFromCtx(r.Context()).(type) {
			case identity.Authenticated:
				if !isAdmin(u.Email) {
					http.Error(w, "Forbidden", http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
			case identity.Anonymous:
				http.Redirect(w, r, "/auth/google/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			default:
				http.Error(w, "Forbidden", http.StatusForbidden)
			}
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
