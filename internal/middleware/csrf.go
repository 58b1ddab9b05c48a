// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
)

const (
	// CSRFCookieName is the cookie that holds the CSRF token.
	CSRFCookieName = "bd_csrf"

	// CSRFHeaderName carries the token on fetch requests from the comment
	// form script.
	CSRFHeaderName = "X-CSRF-Token"

	// CSRFFormField carries the token on plain HTML form posts such as
	// sign-out.
	CSRFFormField = "csrf_token"

	csrfKey contextKey = "csrf"

	csrfTokenBytes = 32
)

// NewCSRF returns double-submit cookie CSRF protection. Every response
// carries a token cookie, the token is put on the request context for
// templates, and unsafe methods must echo it in CSRFHeaderName or
// CSRFFormField. secure sets the Secure cookie attribute.
func NewCSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := csrfCookie(r)
			if token == "" {
				var err error
				if token, err = newCSRFToken(); err != nil {
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				// Lax so the token survives the top-level redirect back
				// from Google sign-in.
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfKey, token))

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if !validCSRF(token, submittedCSRF(r)) {
				if strings.HasPrefix(r.URL.Path, "/api/") {
					writeJSONError(w, http.StatusForbidden, "invalid csrf token")
					return
				}
				http.Error(w, "CSRF token mismatch", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CSRFTokenFromCtx returns the request's CSRF token, or "" outside the
// middleware.
func CSRFTokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey).(string)
	return token
}

func csrfCookie(r *http.Request) string {
	c, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// submittedCSRF prefers the header; the form is only parsed when the header
// is absent so JSON bodies are left untouched.
func submittedCSRF(r *http.Request) string {
	if v := r.Header.Get(CSRFHeaderName); v != "" {
		return v
	}
	return r.PostFormValue(CSRFFormField)
}

func validCSRF(token, submitted string) bool {
	return submitted != "" && subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) == 1
}

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
