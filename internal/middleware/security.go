// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// contentSecurityPolicy allows same-origin scripts and styles, inline
// styles from syntax highlighting, and HTTPS images such as Google avatars.
// Forms may post to Google for the sign-in redirect.
const contentSecurityPolicy = "default-src 'self'; " +
	"img-src 'self' https: data:; " +
	"style-src 'self' 'unsafe-inline'; " +
	"script-src 'self'; " +
	"frame-ancestors 'none'; " +
	"form-action 'self' https://accounts.google.com"

// privatePrefixes are paths whose responses depend on the signed-in reader
// and must not be stored by shared caches.
var privatePrefixes = []string{"/admin", "/auth/", "/api/"}

// NewSecureHeaders returns middleware that sets the browser hardening
// headers on every response. tls adds Strict-Transport-Security.
func NewSecureHeaders(tls bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			h.Set("Content-Security-Policy", contentSecurityPolicy)
			if tls {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}
			for _, p := range privatePrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					h.Set("Cache-Control", "no-store")
					break
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
