package services

import (
	"context"

	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	pkgerrors "exercisely-backend/pkg/errors"
	"exercisely-backend/pkg/observability"
)

// LikeService maintains like edges and the exercise like counters.
type LikeService struct {
	likes     ports.LikeRepository
	exercises *ExerciseService
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewLikeService creates a new like service.
func NewLikeService(
	likes ports.LikeRepository,
	exercises *ExerciseService,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *LikeService {
	return &LikeService{
		likes:     likes,
		exercises: exercises,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Like records the caller liking an exercise. Liking twice is a conflict.
func (s *LikeService) Like(ctx context.Context, exerciseID, userID string) error {
	if exerciseID == "" {
		return pkgerrors.NewValidationError("exercise id is required")
	}
	if _, err := s.exercises.GetByID(ctx, exerciseID); err != nil {
		return err
	}

	if err := s.likes.Like(ctx, exerciseID, userID); err != nil {
		return err
	}
	s.exercises.RefreshExercise(ctx, exerciseID)

	s.logger.Debug("exercise liked",
		zap.String("exerciseID", exerciseID),
		zap.String("userID", userID),
	)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ports.EventExerciseLiked, map[string]string{
			"exerciseId": exerciseID,
			"userId":     userID,
		}); err != nil {
			s.logger.Warn("failed to publish like event", zap.Error(err))
		}
	}
	return nil
}

// Unlike removes the caller's like. A zero counter is left at zero.
func (s *LikeService) Unlike(ctx context.Context, exerciseID, userID string) error {
	if exerciseID == "" {
		return pkgerrors.NewValidationError("exercise id is required")
	}

	err := s.likes.Unlike(ctx, exerciseID, userID)
	if pkgerrors.IsCounterUnderflow(err) {
		s.metrics.CounterUnderflow(ctx, "likeCount")
		s.logger.Warn("like counter already at zero",
			zap.String("exerciseID", exerciseID),
		)
		err = nil
	}
	if err != nil {
		return err
	}
	s.exercises.RefreshExercise(ctx, exerciseID)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ports.EventExerciseUnliked, map[string]string{
			"exerciseId": exerciseID,
			"userId":     userID,
		}); err != nil {
			s.logger.Warn("failed to publish unlike event", zap.Error(err))
		}
	}
	return nil
}

// HasLiked reports whether the caller likes the exercise.
func (s *LikeService) HasLiked(ctx context.Context, exerciseID, userID string) (bool, error) {
	return s.likes.HasLiked(ctx, exerciseID, userID)
}

// GetLikedExercises resolves the caller's liked set to full exercises.
// Ids whose exercise has since been removed are dropped silently.
func (s *LikeService) GetLikedExercises(ctx context.Context, userID string) ([]*entities.Exercise, error) {
	ids, err := s.likes.GetLikedExerciseIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*entities.Exercise{}, nil
	}

	resolved, err := s.exercises.GetBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*entities.Exercise, 0, len(ids))
	for _, id := range ids {
		if e, ok := resolved[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}
