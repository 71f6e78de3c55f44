package valueobjects

import (
	pkgerrors "exercisely-backend/pkg/errors"
)

type commentQueryKind int

const (
	commentQueryByExercise commentQueryKind = iota + 1
	commentQueryByComment
)

// CommentQuery selects comments either by owning exercise or by comment
// id, never both. Like FollowTarget it is built once at the validation
// boundary.
type CommentQuery struct {
	kind commentQueryKind
	id   string
}

// NewCommentQuery builds a query from the optional exerciseId/commentId
// pair, enforcing that exactly one is present.
func NewCommentQuery(exerciseID, commentID string) (CommentQuery, error) {
	if exerciseID != "" && commentID != "" {
		return CommentQuery{}, pkgerrors.NewValidationError("provide either an exerciseId or a commentId, not both")
	}
	if exerciseID == "" && commentID == "" {
		return CommentQuery{}, pkgerrors.NewValidationError("missing exerciseId or commentId")
	}
	if exerciseID != "" {
		return CommentQuery{kind: commentQueryByExercise, id: exerciseID}, nil
	}
	return CommentQuery{kind: commentQueryByComment, id: commentID}, nil
}

// ByExercise reports whether the query selects an exercise's comments.
func (q CommentQuery) ByExercise() bool { return q.kind == commentQueryByExercise }

// ByComment reports whether the query selects a single comment by id.
func (q CommentQuery) ByComment() bool { return q.kind == commentQueryByComment }

// ID returns the selected exercise or comment id.
func (q CommentQuery) ID() string { return q.id }
