// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the blogdans server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogdans/internal/config"
	"blogdans/internal/content"
	"blogdans/internal/database"
	"blogdans/internal/feed"
	"blogdans/internal/handlers"
	"blogdans/internal/identity"
	"blogdans/internal/middleware"
	"blogdans/internal/models"
	"blogdans/internal/oauth"
	"blogdans/internal/render"
	"blogdans/internal/router"
	"blogdans/internal/session"
	"blogdans/internal/storage"
	"blogdans/internal/store"
)

// mockProfile is the reader every request resolves to when AUTH_MOCK is on.
func mockProfile() models.GoogleProfile {
	verified := true
	return models.GoogleProfile{
		Sub:           "mock-user",
		Email:         "mock@localhost.test",
		EmailVerified: &verified,
		FamilyName:    "User",
		GivenName:     "Mock",
		Name:          "Mock User",
		Picture:       "https://www.gravatar.com/avatar/?d=mp",
	}
}

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"site", cfg.SiteURL,
	)

	ctx := context.Background()

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if _, err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (session store).
	valkeyClient, err := session.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	userStore := store.NewUserStore(db)
	commentStore := store.NewCommentStore(db)

	// Posts come from an S3 bucket when one is configured, otherwise from
	// the local posts directory.
	source := content.FSSource(os.DirFS(cfg.PostsDir))
	bucket, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3PostsBucket, cfg.S3PostsPrefix,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if bucket != nil {
		source = bucket
		slog.Info("posts served from s3", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3PostsBucket)
	} else {
		slog.Info("posts served from directory", "dir", cfg.PostsDir)
	}
	posts := content.NewRepository(source)

	// Pick how readers are identified.
	var (
		resolver identity.Resolver
		provider handlers.OAuthProvider
	)
	switch {
	case cfg.AuthMock:
		user, err := userStore.CreateUserIfAbsent(ctx, mockProfile())
		if err != nil {
			slog.Error("failed to create mock user", "error", err)
			os.Exit(1)
		}
		resolver = identity.NewMockResolver(identity.Authenticated{
			Email: user.Email,
			Name:  user.Name,
			ID:    user.ID.String(),
			Photo: user.Photo,
		})
		slog.Warn("mock authentication enabled", "email", user.Email)
	case cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "":
		client, err := oauth.NewGoogle(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			slog.Error("failed to initialize google sign-in", "error", err)
			os.Exit(1)
		}
		provider = client
		resolver = identity.NewSessionResolver(sessionStore)
	default:
		resolver = identity.NewSessionResolver(sessionStore)
		slog.Warn("google sign-in not configured, comments disabled")
	}

	renderer, err := render.New(render.Site{Name: cfg.SiteName, Description: cfg.SiteDescription})
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	site := feed.Site{Name: cfg.SiteName, URL: cfg.SiteURL, Description: cfg.SiteDescription}

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(renderer, posts, commentStore, site)
	commentHandlers := handlers.NewComments(posts, commentStore)
	authHandlers := handlers.NewAuth(renderer, provider, userStore, sessionStore, secureCookies)
	adminHandlers := handlers.NewAdmin(renderer, userStore)

	// Comment submissions and sign-in callbacks share one per-IP budget.
	limiter := middleware.NewRateLimiter(20, time.Minute)
	defer limiter.Stop()

	r := router.New(router.Options{
		Resolver:      resolver,
		IsAdmin:       cfg.IsAdmin,
		SecureCookies: secureCookies,
		TrustProxy:    cfg.TrustProxy,
		Limiter:       limiter,
	}, publicHandlers, commentHandlers, authHandlers, adminHandlers)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
