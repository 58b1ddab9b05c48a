// Package store provides database access methods for blog users and
// comments. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"blogdans/internal/models"
)

// UserStore handles blog user and linked Google account persistence.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `u.id, u.name, u.email, u.photo, u.created_at, u.updated_at`

func scanUser(row interface{ Scan(...any) error }, u *models.BlogUser) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.Photo, &u.CreatedAt, &u.UpdatedAt)
}

// CreateUserIfAbsent returns the blog user linked to the Google subject in
// profile, creating both rows on first sign-in. Existing users are returned
// unchanged even if the profile differs. An invalid profile yields a
// *models.SchemaError and nothing is written.
func (s *UserStore) CreateUserIfAbsent(ctx context.Context, profile models.GoogleProfile) (*models.BlogUser, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.FindByGoogleID(ctx, profile.Sub)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	u, err := s.createWithGoogleID(ctx, profile)
	if err == nil {
		return u, nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}

	// A concurrent sign-in for the same subject committed first.
	slog.Info("google user created concurrently, using existing", "sub", profile.Sub)
	existing, err = s.FindByGoogleID(ctx, profile.Sub)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("create user: google user %s vanished after conflict", profile.Sub)
	}
	return existing, nil
}

// createWithGoogleID inserts the blog user and its google_user link in one
// transaction.
func (s *UserStore) createWithGoogleID(ctx context.Context, profile models.GoogleProfile) (*models.BlogUser, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	u := &models.BlogUser{
		ID:    uuid.New(),
		Name:  profile.Name,
		Email: profile.Email,
		Photo: profile.Picture,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO blogdans_user (id, name, email, photo)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, u.ID, u.Name, u.Email, u.Photo).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert blog user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO google_user (id, blog_user_id) VALUES ($1, $2)
	`, profile.Sub, u.ID); err != nil {
		return nil, fmt.Errorf("insert google user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit user: %w", err)
	}
	return u, nil
}

// FindByGoogleID retrieves the blog user linked to a Google subject.
// Returns nil if not found.
func (s *UserStore) FindByGoogleID(ctx context.Context, sub string) (*models.BlogUser, error) {
	u := &models.BlogUser{}
	err := scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM google_user g JOIN blogdans_user u ON u.id = g.blog_user_id
		WHERE g.id = $1
	`, sub), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by google id: %w", err)
	}
	return u, nil
}

// FindByID retrieves a blog user by UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogUser, error) {
	u := &models.BlogUser{}
	err := scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM blogdans_user u WHERE u.id = $1
	`, id), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// List returns all blog users ordered by creation date.
func (s *UserStore) List(ctx context.Context) ([]models.BlogUser, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM blogdans_user u ORDER BY u.created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.BlogUser
	for rows.Next() {
		var u models.BlogUser
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
