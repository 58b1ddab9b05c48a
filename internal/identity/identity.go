// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity resolves the reader behind a request. A reader is either
// Authenticated (signed in with Google) or Anonymous; callers dispatch with
// a type switch over the two variants.
package identity

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"blogdans/internal/session"
)

// DefaultName is shown for authenticated readers whose provider sent no name.
const DefaultName = "Anonymous"

// User is the resolved reader. The only implementations are Authenticated
// and Anonymous.
type User interface {
	isUser()
}

// Authenticated is a signed-in reader. ID is the blog user UUID and may be
// empty; Photo is optional.
type Authenticated struct {
	Email string
	Name  string
	ID    string
	Photo string
}

// Anonymous is a reader without a session.
type Anonymous struct{}

func (Authenticated) isUser() {}
func (Anonymous) isUser()     {}

// AsAuthenticated returns the authenticated variant of u, if it is one.
func AsAuthenticated(u User) (Authenticated, bool) {
	switch v := u.(type) {
	case Authenticated:
		return v, true
	case Anonymous:
		return Authenticated{}, false
	default:
		return Authenticated{}, false
	}
}

// Resolver maps a request to the current reader. Resolve never fails;
// anything short of a valid session yields Anonymous.
type Resolver interface {
	Resolve(r *http.Request) User
}

// SessionReader loads the session attached to a request. It returns
// (nil, nil) when there is none.
type SessionReader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// SessionResolver resolves readers from their login session.
type SessionResolver struct {
	sessions SessionReader
}

// NewSessionResolver creates a resolver backed by the session store.
func NewSessionResolver(sessions SessionReader) *SessionResolver {
	return &SessionResolver{sessions: sessions}
}

// Resolve returns Authenticated when the request carries a session with a
// non-empty email, and Anonymous otherwise. Session store errors are logged
// and treated as no session.
func (s *SessionResolver) Resolve(r *http.Request) User {
	data, err := s.sessions.Get(r.Context(), r)
	if err != nil {
		slog.Warn("session lookup failed", "error", err)
		return Anonymous{}
	}
	if data == nil || data.Email == "" {
		return Anonymous{}
	}
	return FromSession(data)
}

// FromSession builds the authenticated reader for a session payload.
func FromSession(data *session.Data) Authenticated {
	u := Authenticated{
		Email: data.Email,
		Name:  data.Name,
		Photo: data.Photo,
	}
	if u.Name == "" {
		u.Name = DefaultName
	}
	if data.UserID != uuid.Nil {
		u.ID = data.UserID.String()
	}
	return u
}

// MockResolver resolves every request to the same reader. It is selected
// at startup for local development without Google credentials.
type MockResolver struct {
	user Authenticated
}

// NewMockResolver creates a resolver that always returns user.
func NewMockResolver(user Authenticated) *MockResolver {
	return &MockResolver{user: user}
}

// Resolve returns the fixed reader.
func (m *MockResolver) Resolve(*http.Request) User {
	return m.user
}
