// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"blogdans/internal/content"
	"blogdans/internal/identity"
	"blogdans/internal/middleware"
	"blogdans/internal/models"
)

// maxCommentBody caps the JSON request body. It comfortably fits a
// 1000-character comment of multi-byte runes.
const maxCommentBody = 16 << 10

// Comments handles the comment submission API.
type Comments struct {
	posts    PostRepository
	comments CommentStore
}

// NewComments creates a new Comments handler group.
func NewComments(posts PostRepository, comments CommentStore) *Comments {
	return &Comments{posts: posts, comments: comments}
}

// Submit accepts {"content": "..."} for the post named in the URL and
// stores it pending moderation.
func (c *Comments) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := identity.AsAuthenticated(middleware.UserFromCtx(ctx))
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "sign in to comment")
		return
	}
	authorID, err := uuid.Parse(user.ID)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "sign in again to comment")
		return
	}

	slug := chi.URLParam(r, "slug")
	post, err := c.posts.GetPost(ctx, slug)
	var notFound *content.NotFoundError
	if errors.As(err, &notFound) || (err == nil && post.Draft) {
		writeJSONError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		slog.Error("get post for comment failed", "error", err, "slug", slug)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var req models.CommentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommentBody)).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Normalize()

	if err := req.Validate(); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verrs})
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := c.comments.Create(ctx, post.Slug, authorID, req.Content)
	if err != nil {
		slog.Error("create comment failed", "error", err, "slug", slug, "author", authorID)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("comment submitted", "id", comment.ID, "slug", post.Slug, "author", authorID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
