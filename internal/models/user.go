// Package models defines the data structures that map to database tables
// and the validated input shapes accepted at the system's boundaries.
package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogUser is a reader account. It is created once per external identity
// on first sign-in and never updated afterwards.
type BlogUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GoogleUser links a Google account, identified by its OIDC subject, to
// exactly one BlogUser.
type GoogleUser struct {
	ID         string    `json:"id"`
	BlogUserID uuid.UUID `json:"blog_user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
