// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// blog. Every request passes through recovery, logging, security headers,
// reader resolution and CSRF protection; the comment API and the sign-in
// callback are additionally rate limited.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"blogdans/internal/handlers"
	"blogdans/internal/identity"
	"blogdans/internal/middleware"
	"blogdans/web"
)

// Options carries the cross-cutting dependencies of the route table.
type Options struct {
	Resolver      identity.Resolver
	IsAdmin       func(email string) bool
	SecureCookies bool
	// TrustProxy rewrites RemoteAddr from X-Forwarded-For and X-Real-IP.
	TrustProxy bool
	Limiter    *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, public *handlers.Public, comments *handlers.Comments, auth *handlers.Auth, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.NewSecureHeaders(opts.SecureCookies))
	r.Use(middleware.LoadUser(opts.Resolver))
	r.Use(middleware.NewCSRF(opts.SecureCookies))

	r.Get("/health", healthHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS())))

	// Public pages.
	r.Get("/", public.Index)
	r.Get("/about", public.About)
	r.Get("/feed.xml", public.Feed)
	r.Get("/posts/overview", public.Overview)
	r.Get("/tags/{tag}", public.Tag)
	r.Get("/tags/{tag}/", public.Tag)
	r.Get("/posts/{slug}", public.Post)
	r.Get("/posts/{slug}/", public.Post)

	// Comment API: signed-in readers only.
	r.With(opts.Limiter.Middleware, middleware.RequireUser).
		Post("/api/posts/{slug}/comment", comments.Submit)

	// Google sign-in.
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", auth.Login)
		r.With(opts.Limiter.Middleware).Get("/google/callback", auth.Callback)
		r.Post("/logout", auth.Logout)
	})

	// Admin page, restricted to the configured admin emails.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(opts.IsAdmin))
		r.Get("/", admin.Dashboard)
	})

	r.NotFound(public.NotFound)

	return r
}

// staticFS returns the embedded assets rooted at web/static.
func staticFS() fs.FS {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("static assets: " + err.Error())
	}
	return sub
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
