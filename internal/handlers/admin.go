// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"blogdans/internal/middleware"
	"blogdans/internal/render"
)

// Admin serves the admin page. Access control is done by
// middleware.RequireAdmin.
type Admin struct {
	renderer *render.Renderer
	users    UserStore
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(renderer *render.Renderer, users UserStore) *Admin {
	return &Admin{renderer: renderer, users: users}
}

// Dashboard shows the signed-in admin as JSON and lists every blog user.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	self, err := json.MarshalIndent(middleware.UserFromCtx(r.Context()), "", "  ")
	if err != nil {
		slog.Error("marshal current user failed", "error", err)
		renderError(a.renderer, w, r, http.StatusInternalServerError, "")
		return
	}

	users, err := a.users.List(r.Context())
	if err != nil {
		slog.Error("list users failed", "error", err)
		renderError(a.renderer, w, r, http.StatusInternalServerError, "")
		return
	}

	a.renderer.Page(w, r, "admin", &render.PageData{
		Title:   "Admin",
		Section: "admin",
		Data: map[string]any{
			"Self":  string(self),
			"Users": users,
		},
	})
}
