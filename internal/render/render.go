// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public blog pages.
// Every page template is paired with the shared base layout and parsed once
// at startup from the embedded filesystem.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"blogdans/internal/identity"
	"blogdans/internal/middleware"
	"blogdans/internal/slug"
)

//go:embed templates/*.html
var templateFS embed.FS

// Site carries the site-wide values every page shows in its header.
type Site struct {
	Name        string
	Description string
}

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string                  // Page title for <title> tag
	Section   string                  // Active navigation entry (e.g., "posts", "about")
	Site      Site                    // Filled in by the renderer
	Reader    *identity.Authenticated // Signed-in reader, nil for anonymous visitors
	CSRFToken string                  // CSRF token for forms and fetch headers
	Data      map[string]any          // Page-specific data
}

// Renderer handles template parsing and execution.
type Renderer struct {
	site      Site
	templates map[string]*template.Template
}

// funcMap is shared by all page templates.
var funcMap = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
	"isoDate": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"tagSlug": slug.Tag,
	"navClass": func(current, target string) string {
		if current == target {
			return "nav-link active"
		}
		return "nav-link"
	},
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem.
func New(site Site) (*Renderer, error) {
	r := &Renderer{
		site:      site,
		templates: make(map[string]*template.Template),
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	for _, page := range pages {
		name := path.Base(page)
		if name == "base.html" {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(
			templateFS, "templates/base.html", page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Has reports whether a page template with the given name exists.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Page renders a full page with status 200.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus renders a full page with the given status code. The page is
// executed into a buffer first so a template failure still yields a clean
// 500 instead of a truncated document.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	data.Site = rn.site
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if u, ok := identity.AsAuthenticated(middleware.UserFromCtx(r.Context())); ok {
		data.Reader = &u
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		slog.Error("render template failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
