package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
	pkgerrors "exercisely-backend/pkg/errors"
	"exercisely-backend/pkg/observability"
)

// CommentService manages exercise comments and keeps the comment
// counters in step.
type CommentService struct {
	comments  ports.CommentRepository
	users     ports.UserRepository
	exercises *ExerciseService
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(
	comments ports.CommentRepository,
	users ports.UserRepository,
	exercises *ExerciseService,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		comments:  comments,
		users:     users,
		exercises: exercises,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Add creates a comment under an exercise. The exercise must exist.
func (s *CommentService) Add(ctx context.Context, exerciseID, userID, content string) (*entities.EnrichedComment, error) {
	if _, err := s.exercises.GetByID(ctx, exerciseID); err != nil {
		return nil, err
	}

	comment, err := entities.NewComment(exerciseID, userID, content)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.exercises.RefreshExercise(ctx, exerciseID)

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("comment added",
		zap.String("exerciseID", exerciseID),
		zap.String("commentID", comment.CommentID),
	)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ports.EventCommentAdded, map[string]string{
			"exerciseId": exerciseID,
			"commentId":  comment.CommentID,
			"userId":     userID,
		}); err != nil {
			s.logger.Warn("failed to publish comment event", zap.Error(err))
		}
	}
	return &entities.EnrichedComment{Comment: *comment, User: author.Summary()}, nil
}

// Get answers either form of the comment query: all comments of an
// exercise, or one comment by id. Every comment carries its author's
// public profile; a missing author is a hard not-found.
func (s *CommentService) Get(ctx context.Context, query valueobjects.CommentQuery) ([]*entities.EnrichedComment, error) {
	var comments []*entities.Comment
	if query.ByExercise() {
		list, err := s.comments.GetByExercise(ctx, query.ID())
		if err != nil {
			return nil, err
		}
		comments = list
	} else {
		one, err := s.comments.GetByID(ctx, query.ID())
		if err != nil {
			return nil, err
		}
		comments = []*entities.Comment{one}
	}
	return s.enrich(ctx, comments)
}

// Update rewrites a comment's content. Only the author may update.
func (s *CommentService) Update(ctx context.Context, commentID, userID, content string) (*entities.EnrichedComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkgerrors.NewValidationError("comment content is required")
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !comment.IsAuthoredBy(userID) {
		return nil, pkgerrors.NewForbiddenError("only the author may edit a comment")
	}

	comment.Content = content
	comment.UpdatedAt = time.Now()
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, comment.UserID)
	if err != nil {
		return nil, err
	}
	return &entities.EnrichedComment{Comment: *comment, User: author.Summary()}, nil
}

// Delete removes a comment. Only the author may delete. A zero counter
// is left at zero.
func (s *CommentService) Delete(ctx context.Context, commentID, userID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !comment.IsAuthoredBy(userID) {
		return pkgerrors.NewForbiddenError("only the author may delete a comment")
	}

	err = s.comments.Delete(ctx, comment.ExerciseID, commentID)
	if pkgerrors.IsCounterUnderflow(err) {
		s.metrics.CounterUnderflow(ctx, "commentCount")
		s.logger.Warn("comment counter already at zero",
			zap.String("exerciseID", comment.ExerciseID),
		)
		err = nil
	}
	if err != nil {
		return err
	}
	s.exercises.RefreshExercise(ctx, comment.ExerciseID)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ports.EventCommentDeleted, map[string]string{
			"exerciseId": comment.ExerciseID,
			"commentId":  commentID,
		}); err != nil {
			s.logger.Warn("failed to publish comment event", zap.Error(err))
		}
	}
	return nil
}

// enrich attaches author profiles, newest first.
func (s *CommentService) enrich(ctx context.Context, comments []*entities.Comment) ([]*entities.EnrichedComment, error) {
	if len(comments) == 0 {
		return []*entities.EnrichedComment{}, nil
	}

	ids := make([]string, 0, len(comments))
	seen := make(map[string]bool, len(comments))
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}
	authors, err := s.users.GetSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*entities.EnrichedComment, 0, len(comments))
	for _, c := range comments {
		author, ok := authors[c.UserID]
		if !ok {
			return nil, pkgerrors.NewNotFoundError("comment author")
		}
		out = append(out, &entities.EnrichedComment{Comment: *c, User: author})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
