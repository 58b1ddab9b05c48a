package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"blogdans/internal/models"
)

// CommentStore handles comment persistence.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create stores a pending comment on a post. The post row is created on
// the first comment so that post_id always references an existing row.
func (s *CommentStore) Create(ctx context.Context, postID string, authorID uuid.UUID, content string) (*models.Comment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO post (id) VALUES ($1) ON CONFLICT (id) DO NOTHING
	`, postID); err != nil {
		return nil, fmt.Errorf("upsert post: %w", err)
	}

	c := &models.Comment{PostID: postID, AuthorID: authorID, Content: content}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO comment (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, approved_at, created_at, updated_at
	`, postID, authorID, content).Scan(&c.ID, &c.ApprovedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit comment: %w", err)
	}
	return c, nil
}

// ListApproved returns the approved comments on a post, oldest first.
// Pending comments are never returned.
func (s *CommentStore) ListApproved(ctx context.Context, postID string) ([]models.CommentView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.content, u.name, u.photo, c.created_at
		FROM comment c JOIN blogdans_user u ON u.id = c.author_id
		WHERE c.post_id = $1 AND c.approved_at IS NOT NULL
		ORDER BY c.created_at ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list approved comments: %w", err)
	}
	defer rows.Close()

	var comments []models.CommentView
	for rows.Next() {
		var c models.CommentView
		if err := rows.Scan(&c.ID, &c.Content, &c.AuthorName, &c.AuthorPhoto, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
