// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blogdans/internal/identity"
)

// stubResolver returns a fixed user and counts how often it was asked.
type stubResolver struct {
	user  identity.User
	calls int
}

func (s *stubResolver) Resolve(*http.Request) identity.User {
	s.calls++
	return s.user
}

var testReader = identity.Authenticated{
	Email: "reader@example.com",
	Name:  "Test Reader",
	ID:    "0b7f8c1e-4a52-4f7e-9f61-0d8c3a6b2e11",
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

// ---------- UserFromCtx ----------

func TestUserFromCtx(t *testing.T) {
	t.Run("returns user when present", func(t *testing.T) {
		ctx := WithUser(context.Background(), testReader)

		got, ok := UserFromCtx(ctx).(identity.Authenticated)
		if !ok {
			t.Fatalf("expected Authenticated, got %T", UserFromCtx(ctx))
		}
		if got.Email != testReader.Email {
			t.Errorf("Email: got %q, want %q", got.Email, testReader.Email)
		}
	})

	t.Run("defaults to anonymous", func(t *testing.T) {
		if _, ok := UserFromCtx(context.Background()).(identity.Anonymous); !ok {
			t.Errorf("expected Anonymous, got %T", UserFromCtx(context.Background()))
		}
	})

	t.Run("wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UserKey, "not a user")
		if _, ok := UserFromCtx(ctx).(identity.Anonymous); !ok {
			t.Errorf("expected Anonymous, got %T", UserFromCtx(ctx))
		}
	})
}

// ---------- LoadUser ----------

func TestLoadUser(t *testing.T) {
	tests := []struct {
		name string
		user identity.User
	}{
		{"authenticated", testReader},
		{"anonymous", identity.Anonymous{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &stubResolver{user: tt.user}
			var got identity.User
			handler := LoadUser(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = UserFromCtx(r.Context())
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			if resolver.calls != 1 {
				t.Errorf("resolver calls: got %d, want 1", resolver.calls)
			}
			if got != tt.user {
				t.Errorf("user: got %#v, want %#v", got, tt.user)
			}
		})
	}
}

// ---------- RequireUser ----------

func TestRequireUser(t *testing.T) {
	t.Run("authenticated passes", func(t *testing.T) {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/posts/x/comments", nil)
		req = req.WithContext(WithUser(req.Context(), testReader))
		rr := httptest.NewRecorder()

		RequireUser(next).ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler should be called")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})

	t.Run("anonymous gets JSON 401", func(t *testing.T) {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/posts/x/comments", nil)
		rr := httptest.NewRecorder()

		RequireUser(next).ServeHTTP(rr, req)

		if *called {
			t.Error("next handler should not be called")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type: got %q, want application/json", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["error"] == "" {
			t.Error("expected an error message in body")
		}
	})
}

// ---------- RequireAdmin ----------

func TestRequireAdmin(t *testing.T) {
	isAdmin := func(email string) bool { return strings.EqualFold(email, "Owner@Example.com") }

	tests := []struct {
		name       string
		user       identity.User
		wantStatus int
		wantCalled bool
	}{
		{"admin passes", identity.Authenticated{Email: "owner@example.com"}, http.StatusOK, true},
		{"non-admin forbidden", testReader, http.StatusForbidden, false},
		{"anonymous redirected", identity.Anonymous{}, http.StatusSeeOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req = req.WithContext(WithUser(req.Context(), tt.user))
			rr := httptest.NewRecorder()

			RequireAdmin(isAdmin)(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if *called != tt.wantCalled {
				t.Errorf("next called: got %v, want %v", *called, tt.wantCalled)
			}
		})
	}

	t.Run("redirect keeps the path", func(t *testing.T) {
		next, _ := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		rr := httptest.NewRecorder()

		RequireAdmin(isAdmin)(next).ServeHTTP(rr, req)

		if loc := rr.Header().Get("Location"); loc != "/auth/google/login?next=%2Fadmin" {
			t.Errorf("Location: got %q", loc)
		}
	})
}
