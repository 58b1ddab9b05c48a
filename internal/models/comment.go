package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// MaxCommentLength is the longest accepted comment, in characters.
const MaxCommentLength = 1000

// Comment is a reader comment on a post. It is created pending and only
// shown once ApprovedAt is set by a moderator.
type Comment struct {
	ID         uuid.UUID  `json:"id"`
	PostID     string     `json:"post_id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	Content    string     `json:"content"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsApproved reports whether the comment passed moderation.
func (c *Comment) IsApproved() bool {
	return c.ApprovedAt != nil
}

// CommentView is an approved comment joined with its author for display.
type CommentView struct {
	ID          uuid.UUID
	Content     string
	AuthorName  string
	AuthorPhoto string
	CreatedAt   time.Time
}

// CommentRequest is the JSON body of a comment submission.
type CommentRequest struct {
	Content string `json:"content"`
}

// Normalize trims surrounding whitespace so blank comments count as empty.
func (r *CommentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

// Validate checks that the content is between 1 and MaxCommentLength
// characters.
func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.Error("comment cannot be empty"),
			validation.RuneLength(1, MaxCommentLength).Error("comment cannot exceed 1000 characters"),
		),
	)
}
