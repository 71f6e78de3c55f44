package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "exercisely-backend/pkg/errors"
)

const maxCommentLength = 2000

// Comment lives under its owning exercise's partition.
type Comment struct {
	CommentID  string    `json:"commentId"`
	ExerciseID string    `json:"exerciseId"`
	UserID     string    `json:"userId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewComment builds a comment with a fresh id.
func NewComment(exerciseID, userID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkgerrors.NewValidationError("comment content is required")
	}
	if len(content) > maxCommentLength {
		return nil, pkgerrors.NewValidationError("comment content exceeds maximum length")
	}
	now := time.Now()
	return &Comment{
		CommentID:  uuid.New().String(),
		ExerciseID: exerciseID,
		UserID:     userID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsAuthoredBy reports whether userID wrote the comment.
func (c *Comment) IsAuthoredBy(userID string) bool {
	return c.UserID == userID
}

// EnrichedComment is a comment with its author's public profile attached.
type EnrichedComment struct {
	Comment
	User UserSummary `json:"user"`
}
