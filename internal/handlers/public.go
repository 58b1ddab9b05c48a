// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"blogdans/internal/content"
	"blogdans/internal/feed"
	"blogdans/internal/markdown"
	"blogdans/internal/render"
)

// Public groups handlers for the pages every visitor can see. Posts are
// read from the repository on every request; nothing is cached.
type Public struct {
	renderer *render.Renderer
	posts    PostRepository
	comments CommentStore
	site     feed.Site
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, posts PostRepository, comments CommentStore, site feed.Site) *Public {
	return &Public{
		renderer: renderer,
		posts:    posts,
		comments: comments,
		site:     site,
	}
}

// Index lists every published post, newest first.
func (p *Public) Index(w http.ResponseWriter, r *http.Request) {
	p.listing(w, r, "index", "posts", "")
}

// Overview lists every published post as a compact archive.
func (p *Public) Overview(w http.ResponseWriter, r *http.Request) {
	p.listing(w, r, "overview", "overview", "All posts")
}

func (p *Public) listing(w http.ResponseWriter, r *http.Request, page, section, title string) {
	posts, err := p.posts.ListPosts(r.Context())
	if err != nil {
		slog.Error("list posts failed", "error", err)
		renderError(p.renderer, w, r, http.StatusInternalServerError, "")
		return
	}

	p.renderer.Page(w, r, page, &render.PageData{
		Title:   title,
		Section: section,
		Data:    map[string]any{"Posts": posts},
	})
}

// Tag lists the published posts carrying the tag named in the URL. Unknown
// tags are a 404.
func (p *Public) Tag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")

	posts, name, err := p.posts.ListByTag(r.Context(), tag)
	if err != nil {
		slog.Error("list posts by tag failed", "error", err, "tag", tag)
		renderError(p.renderer, w, r, http.StatusInternalServerError, "")
		return
	}
	if len(posts) == 0 {
		renderError(p.renderer, w, r, http.StatusNotFound, "No posts carry this tag.")
		return
	}

	p.renderer.Page(w, r, "tag", &render.PageData{
		Title:   name,
		Section: "overview",
		Data:    map[string]any{"Tag": name, "Posts": posts},
	})
}

// Post renders a single post with its neighbours and approved comments.
// Drafts are reachable by direct link and show a notice.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	post, err := p.posts.GetPost(ctx, slug)
	var notFound *content.NotFoundError
	if errors.As(err, &notFound) {
		renderError(p.renderer, w, r, http.StatusNotFound, "")
		return
	}
	if err != nil {
		slog.Error("get post failed", "error", err, "slug", slug)
		renderError(p.renderer, w, r, http.StatusInternalServerError, "")
		return
	}

	body, err := markdown.Render(post.Content)
	if err != nil {
		slog.Error("render markdown failed", "error", err, "slug", slug)
		renderError(p.renderer, w, r, http.StatusInternalServerError, "")
		return
	}

	// The post itself comes from disk; a database outage only hides comments.
	comments, err := p.comments.ListApproved(ctx, post.Slug)
	if err != nil {
		slog.Error("list approved comments failed", "error", err, "slug", slug)
		comments = nil
	}

	p.renderer.Page(w, r, "post", &render.PageData{
		Title:   post.Title,
		Section: "posts",
		Data: map[string]any{
			"Post":     post,
			"Body":     body,
			"Comments": comments,
			"LoginURL": "/auth/google/login?next=" + url.QueryEscape("/posts/"+post.Slug+"/"),
		},
	})
}

// About renders the static about page.
func (p *Public) About(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, "about", &render.PageData{
		Title:   "About",
		Section: "about",
	})
}

// Feed serves the RSS 2.0 document for the newest posts.
func (p *Public) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := p.posts.Latest(r.Context(), feed.MaxItems)
	if err != nil {
		slog.Error("list posts for feed failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	doc, err := feed.Build(p.site, posts)
	if err != nil {
		slog.Error("build feed failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", feed.ContentType)
	w.Write([]byte(doc))
}

// NotFound renders the 404 page for unmatched routes.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	renderError(p.renderer, w, r, http.StatusNotFound, "")
}
