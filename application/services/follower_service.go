package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
	pkgerrors "exercisely-backend/pkg/errors"
	"exercisely-backend/pkg/observability"
)

// FollowerService maintains follow edges for users and lists together
// with the follower counters.
type FollowerService struct {
	followers ports.FollowerRepository
	users     ports.UserRepository
	lists     ports.ListRepository
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewFollowerService creates a new follower service.
func NewFollowerService(
	followers ports.FollowerRepository,
	users ports.UserRepository,
	lists ports.ListRepository,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *FollowerService {
	return &FollowerService{
		followers: followers,
		users:     users,
		lists:     lists,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Follow records the caller following the target. Self-follows are
// rejected; following a list requires access to it; following twice is
// a conflict.
func (s *FollowerService) Follow(ctx context.Context, callerID string, target valueobjects.FollowTarget) error {
	if target.IsUser() {
		if target.ID() == callerID {
			return pkgerrors.NewValidationError("you cannot follow yourself")
		}
		if _, err := s.users.GetByID(ctx, target.ID()); err != nil {
			return err
		}
		if err := s.followers.FollowUser(ctx, target.ID(), callerID); err != nil {
			return err
		}
		s.logger.Debug("user followed",
			zap.String("followerID", callerID),
			zap.String("followedID", target.ID()),
		)
		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, ports.EventUserFollowed, map[string]string{
				"followerId": callerID,
				"followedId": target.ID(),
			}); err != nil {
				s.logger.Warn("failed to publish follow event", zap.Error(err))
			}
		}
		return nil
	}

	list, err := s.lists.GetByID(ctx, target.ID())
	if err != nil {
		return err
	}
	if !list.CanBeFollowedBy(callerID) {
		return pkgerrors.NewForbiddenError("you do not have access to this list")
	}
	if err := s.followers.FollowList(ctx, target.ID(), callerID); err != nil {
		return err
	}
	s.logger.Debug("list followed",
		zap.String("followerID", callerID),
		zap.String("listID", target.ID()),
	)
	return nil
}

// Unfollow removes the caller's follow edge on the target. Counters
// already at zero are left at zero.
func (s *FollowerService) Unfollow(ctx context.Context, callerID string, target valueobjects.FollowTarget) error {
	var err error
	if target.IsUser() {
		err = s.followers.UnfollowUser(ctx, target.ID(), callerID)
	} else {
		err = s.followers.UnfollowList(ctx, target.ID(), callerID)
	}
	if pkgerrors.IsCounterUnderflow(err) {
		s.metrics.CounterUnderflow(ctx, "followerCount")
		s.logger.Warn("follower counter already at zero",
			zap.String("targetID", target.ID()),
		)
		return nil
	}
	return err
}

// IsFollowing reports whether the caller follows the target.
func (s *FollowerService) IsFollowing(ctx context.Context, callerID string, target valueobjects.FollowTarget) (bool, error) {
	if target.IsUser() {
		return s.followers.IsFollowingUser(ctx, target.ID(), callerID)
	}
	return s.followers.IsFollowingList(ctx, target.ID(), callerID)
}

// GetFollowers returns the public profiles of a user's followers,
// newest follow first. An edge whose profile no longer resolves means
// the follower's cascade delete left the edge behind; that is surfaced
// as a not-found rather than papered over.
func (s *FollowerService) GetFollowers(ctx context.Context, userID string) ([]entities.UserSummary, error) {
	edges, err := s.followers.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].CreatedAt.After(edges[j].CreatedAt)
	})
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowerID)
	}
	return s.resolveSummaries(ctx, ids)
}

// GetFollowing returns the public profiles of the users the caller
// follows, newest follow first.
func (s *FollowerService) GetFollowing(ctx context.Context, userID string) ([]entities.UserSummary, error) {
	followed, err := s.followers.GetFollowedUsers(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(followed, func(i, j int) bool {
		return followed[i].FollowedAt.After(followed[j].FollowedAt)
	})
	ids := make([]string, 0, len(followed))
	for _, f := range followed {
		ids = append(ids, f.UserID)
	}
	return s.resolveSummaries(ctx, ids)
}

// GetFollowedLists returns the lists the caller follows, newest follow
// first. Lists deleted since the follow are dropped.
func (s *FollowerService) GetFollowedLists(ctx context.Context, userID string) ([]*entities.List, error) {
	refs, err := s.followers.GetFollowedLists(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].FollowedAt.After(refs[j].FollowedAt)
	})
	out := make([]*entities.List, 0, len(refs))
	for _, ref := range refs {
		list, err := s.lists.GetByID(ctx, ref.ListID)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, list)
	}
	return out, nil
}

func (s *FollowerService) resolveSummaries(ctx context.Context, ids []string) ([]entities.UserSummary, error) {
	if len(ids) == 0 {
		return []entities.UserSummary{}, nil
	}
	resolved, err := s.users.GetSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]entities.UserSummary, 0, len(ids))
	for _, id := range ids {
		summary, ok := resolved[id]
		if !ok {
			return nil, pkgerrors.NewNotFoundError("user " + id)
		}
		out = append(out, summary)
	}
	return out, nil
}
