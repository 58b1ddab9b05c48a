// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers: public pages and the RSS
// feed, the comment API, Google sign-in, and the admin page. Each handler
// group depends on small interfaces so tests can substitute fakes for the
// database, Valkey and Google.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"blogdans/internal/content"
	"blogdans/internal/models"
	"blogdans/internal/render"
	"blogdans/internal/session"
)

// PostRepository reads posts. Implemented by *content.Repository.
type PostRepository interface {
	ListPosts(ctx context.Context) ([]content.Post, error)
	Latest(ctx context.Context, n int) ([]content.Post, error)
	ListByTag(ctx context.Context, tagSlug string) ([]content.Post, string, error)
	GetPost(ctx context.Context, slug string) (*content.PostComplete, error)
}

// CommentStore persists and lists comments. Implemented by
// *store.CommentStore.
type CommentStore interface {
	Create(ctx context.Context, postID string, authorID uuid.UUID, content string) (*models.Comment, error)
	ListApproved(ctx context.Context, postID string) ([]models.CommentView, error)
}

// UserStore creates and lists blog users. Implemented by *store.UserStore.
type UserStore interface {
	CreateUserIfAbsent(ctx context.Context, profile models.GoogleProfile) (*models.BlogUser, error)
	List(ctx context.Context) ([]models.BlogUser, error)
}

// SessionManager starts and ends login sessions. Implemented by
// *session.Store.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// OAuthProvider runs the Google OpenID Connect handshake. Implemented by
// *oauth.Client.
type OAuthProvider interface {
	AuthCodeURL(state, nonce string) string
	Exchange(ctx context.Context, code, nonce string) (*models.GoogleProfile, error)
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response failed", "error", err)
	}
}

// writeJSONError sends {"error": msg}.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// renderError shows the not_found page for 404 and the error page for
// everything else.
func renderError(rn *render.Renderer, w http.ResponseWriter, r *http.Request, status int, msg string) {
	name := "error"
	if status == http.StatusNotFound {
		name = "not_found"
	}
	rn.PageStatus(w, r, status, name, &render.PageData{
		Title: http.StatusText(status),
		Data:  map[string]any{"Message": msg},
	})
}
