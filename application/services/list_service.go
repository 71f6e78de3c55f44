package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
	pkgerrors "exercisely-backend/pkg/errors"
)

// ListUpdate carries the optional fields of a list update. Nil means
// leave the field unchanged.
type ListUpdate struct {
	Name        *string
	Description *string
	Visibility  *valueobjects.Visibility
	ExerciseIDs *[]string
}

// ListService manages exercise lists, sharing and the enrichment of
// lists with their owners and resolved exercises.
type ListService struct {
	lists     ports.ListRepository
	users     ports.UserRepository
	followers ports.FollowerRepository
	likes     ports.LikeRepository
	exercises *ExerciseService
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewListService creates a new list service.
func NewListService(
	lists ports.ListRepository,
	users ports.UserRepository,
	followers ports.FollowerRepository,
	likes ports.LikeRepository,
	exercises *ExerciseService,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *ListService {
	return &ListService{
		lists:     lists,
		users:     users,
		followers: followers,
		likes:     likes,
		exercises: exercises,
		publisher: publisher,
		logger:    logger,
	}
}

// Create builds a new list for the caller, optionally seeded with one
// exercise. The seed exercise must resolve in the catalog.
func (s *ListService) Create(ctx context.Context, userID, name, description string, visibility valueobjects.Visibility, exerciseID string) (*entities.EnrichedList, error) {
	list, err := entities.NewList(userID, name, description, visibility)
	if err != nil {
		return nil, err
	}
	if exerciseID != "" {
		if _, err := s.exercises.GetByID(ctx, exerciseID); err != nil {
			return nil, err
		}
		list.ExerciseIDs = []string{exerciseID}
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}
	s.logger.Info("list created",
		zap.String("listID", list.ListID),
		zap.String("userID", userID),
	)
	return s.enrichOne(ctx, list, userID)
}

// Get returns a list if the caller may see it.
func (s *ListService) Get(ctx context.Context, listID, callerID string) (*entities.EnrichedList, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.IsVisibleTo(callerID) {
		return nil, pkgerrors.NewForbiddenError("you do not have access to this list")
	}
	return s.enrichOne(ctx, list, callerID)
}

// GetOwnedBy returns a user's lists. Owners see everything; other
// callers only see public lists and lists shared with them.
func (s *ListService) GetOwnedBy(ctx context.Context, ownerID, callerID string) ([]*entities.EnrichedList, error) {
	lists, err := s.lists.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if ownerID != callerID {
		visible := lists[:0]
		for _, l := range lists {
			if l.IsVisibleTo(callerID) {
				visible = append(visible, l)
			}
		}
		lists = visible
	}
	return s.enrich(ctx, lists, callerID)
}

// Update applies partial changes to a list. Only the owner may update.
// Exercise ids are verified against the catalog before being accepted.
func (s *ListService) Update(ctx context.Context, listID, userID string, update ListUpdate) (*entities.EnrichedList, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.IsOwnedBy(userID) {
		return nil, pkgerrors.NewForbiddenError("only the owner may modify a list")
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, pkgerrors.NewValidationError("list name is required")
		}
		list.Name = name
	}
	if update.Description != nil {
		list.Description = strings.TrimSpace(*update.Description)
	}
	if update.Visibility != nil {
		if !update.Visibility.IsValid() {
			return nil, pkgerrors.NewValidationError("invalid visibility value")
		}
		list.Visibility = *update.Visibility
	}
	if update.ExerciseIDs != nil {
		if err := s.verifyExercises(ctx, *update.ExerciseIDs); err != nil {
			return nil, err
		}
		list.ExerciseIDs = *update.ExerciseIDs
	}
	list.UpdatedAt = time.Now()

	if err := s.lists.Update(ctx, list); err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, list, userID)
}

// AddExercise appends an exercise to a list. Only the owner may add.
// The duplicate guard lives in the store's conditional append, so a
// concurrent add of the same exercise cannot slip past a stale read.
func (s *ListService) AddExercise(ctx context.Context, listID, userID, exerciseID string) (*entities.EnrichedList, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.IsOwnedBy(userID) {
		return nil, pkgerrors.NewForbiddenError("only the owner may modify a list")
	}
	if _, err := s.exercises.GetByID(ctx, exerciseID); err != nil {
		return nil, err
	}

	if err := s.lists.AppendExercise(ctx, list.UserID, listID, exerciseID); err != nil {
		return nil, err
	}
	list.ExerciseIDs = append(list.ExerciseIDs, exerciseID)
	list.UpdatedAt = time.Now()
	return s.enrichOne(ctx, list, userID)
}

// RemoveExercise drops an exercise from a list. Only the owner may
// remove; a missing entry is a not-found.
func (s *ListService) RemoveExercise(ctx context.Context, listID, userID, exerciseID string) (*entities.EnrichedList, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.IsOwnedBy(userID) {
		return nil, pkgerrors.NewForbiddenError("only the owner may modify a list")
	}
	if !list.ContainsExercise(exerciseID) {
		return nil, pkgerrors.NewNotFoundError("exercise in list")
	}

	kept := make([]string, 0, len(list.ExerciseIDs)-1)
	for _, id := range list.ExerciseIDs {
		if id != exerciseID {
			kept = append(kept, id)
		}
	}
	list.ExerciseIDs = kept
	list.UpdatedAt = time.Now()
	if err := s.lists.Update(ctx, list); err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, list, userID)
}

// Share replaces a list's share set. Only the owner may share, and
// every recipient must exist.
func (s *ListService) Share(ctx context.Context, listID, userID string, sharedWith []string) (*entities.EnrichedList, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.IsOwnedBy(userID) {
		return nil, pkgerrors.NewForbiddenError("only the owner may share a list")
	}

	deduped := make([]string, 0, len(sharedWith))
	seen := map[string]bool{userID: true}
	for _, id := range sharedWith {
		if id != "" && !seen[id] {
			seen[id] = true
			deduped = append(deduped, id)
		}
	}
	if len(deduped) > 0 {
		recipients, err := s.users.GetSummaries(ctx, deduped)
		if err != nil {
			return nil, err
		}
		for _, id := range deduped {
			if _, ok := recipients[id]; !ok {
				return nil, pkgerrors.NewNotFoundError("shared user " + id)
			}
		}
	}

	list.SharedWith = deduped
	if list.Visibility == valueobjects.VisibilityPrivate && len(deduped) > 0 {
		list.Visibility = valueobjects.VisibilityShared
	}
	list.UpdatedAt = time.Now()
	if err := s.lists.Update(ctx, list); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ports.EventListShared, map[string]any{
			"listId":     listID,
			"sharedWith": deduped,
		}); err != nil {
			s.logger.Warn("failed to publish share event", zap.Error(err))
		}
	}
	return s.enrichOne(ctx, list, userID)
}

// Delete removes a list. Only the owner may delete.
func (s *ListService) Delete(ctx context.Context, listID, userID string) error {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if !list.IsOwnedBy(userID) {
		return pkgerrors.NewForbiddenError("only the owner may delete a list")
	}
	return s.lists.Delete(ctx, userID, listID)
}

// GetRelevant gathers every list that matters to the caller: their own,
// public lists of users they follow, and lists shared with them. Each
// list appears exactly once; the shared copy wins the de-duplication so
// the shared tag survives. The result is ordered newest first.
func (s *ListService) GetRelevant(ctx context.Context, userID string) ([]*entities.EnrichedList, error) {
	var owned, shared []*entities.List
	var followedUsers []entities.FollowedUser

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		owned, err = s.lists.GetByOwner(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		shared, err = s.lists.GetSharedWith(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		followedUsers, err = s.followers.GetFollowedUsers(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.List, len(owned)+len(shared))
	for _, l := range owned {
		byID[l.ListID] = l
	}
	for _, l := range shared {
		byID[l.ListID] = l
	}

	for _, fu := range followedUsers {
		theirs, err := s.lists.GetByOwner(ctx, fu.UserID)
		if err != nil {
			return nil, err
		}
		for _, l := range theirs {
			if l.Visibility != valueobjects.VisibilityPublic {
				continue
			}
			if _, ok := byID[l.ListID]; ok {
				continue
			}
			byID[l.ListID] = l
		}
	}

	all := make([]*entities.List, 0, len(byID))
	for _, l := range byID {
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return s.enrich(ctx, all, userID)
}

// verifyExercises checks that every id resolves in the catalog.
func (s *ListService) verifyExercises(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	resolved, err := s.exercises.GetBatch(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := resolved[id]; !ok {
			return pkgerrors.NewNotFoundError("exercise " + id)
		}
	}
	return nil
}

func (s *ListService) enrichOne(ctx context.Context, list *entities.List, callerID string) (*entities.EnrichedList, error) {
	enriched, err := s.enrich(ctx, []*entities.List{list}, callerID)
	if err != nil {
		return nil, err
	}
	return enriched[0], nil
}

// enrich attaches owner profiles, resolved share recipients and
// resolved exercises, the latter tagged with the caller's like state.
// A missing owner is a hard not-found; exercise ids and share
// recipients that no longer resolve are dropped silently.
func (s *ListService) enrich(ctx context.Context, lists []*entities.List, callerID string) ([]*entities.EnrichedList, error) {
	if len(lists) == 0 {
		return []*entities.EnrichedList{}, nil
	}

	userIDs := make([]string, 0, len(lists))
	seenUser := make(map[string]bool, len(lists))
	exerciseIDs := make([]string, 0)
	seenExercise := make(map[string]bool)
	for _, l := range lists {
		if !seenUser[l.UserID] {
			seenUser[l.UserID] = true
			userIDs = append(userIDs, l.UserID)
		}
		for _, id := range l.SharedWith {
			if !seenUser[id] {
				seenUser[id] = true
				userIDs = append(userIDs, id)
			}
		}
		for _, id := range l.ExerciseIDs {
			if !seenExercise[id] {
				seenExercise[id] = true
				exerciseIDs = append(exerciseIDs, id)
			}
		}
	}

	profiles, err := s.users.GetSummaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	var resolved map[string]*entities.Exercise
	liked := make(map[string]bool)
	if len(exerciseIDs) > 0 {
		resolved, err = s.exercises.GetBatch(ctx, exerciseIDs)
		if err != nil {
			return nil, err
		}
		if callerID != "" {
			likedIDs, err := s.likes.GetLikedExerciseIDs(ctx, callerID)
			if err != nil {
				return nil, err
			}
			for _, id := range likedIDs {
				liked[id] = true
			}
		}
	}

	out := make([]*entities.EnrichedList, 0, len(lists))
	for _, l := range lists {
		owner, ok := profiles[l.UserID]
		if !ok {
			return nil, pkgerrors.NewNotFoundError("list owner")
		}
		var recipients []entities.UserSummary
		for _, id := range l.SharedWith {
			if summary, ok := profiles[id]; ok {
				recipients = append(recipients, summary)
			}
		}
		exs := make([]*entities.Exercise, 0, len(l.ExerciseIDs))
		for _, id := range l.ExerciseIDs {
			if e, ok := resolved[id]; ok {
				cp := *e
				cp.IsLiked = liked[id]
				exs = append(exs, &cp)
			}
		}
		out = append(out, &entities.EnrichedList{
			List:            *l,
			Owner:           owner,
			SharedWithUsers: recipients,
			Exercises:       exs,
			IsShared:        l.IsSharedWith(callerID),
		})
	}
	return out, nil
}
