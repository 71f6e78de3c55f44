package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"exercisely-backend/domain/core/valueobjects"
	pkgerrors "exercisely-backend/pkg/errors"
)

// List is a user-owned collection of exercise ids with a visibility
// setting and an explicit share list.
type List struct {
	ListID      string                  `json:"listId"`
	UserID      string                  `json:"userId"`
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Visibility  valueobjects.Visibility `json:"visibility"`
	ExerciseIDs []string                `json:"exerciseIds"`
	SharedWith  []string                `json:"sharedWith,omitempty"`
	// FollowerCount is maintained by the store alongside follower edge
	// writes, mirroring the counter on user profiles.
	FollowerCount int       `json:"followerCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewList builds a list with a fresh id. Visibility defaults to private.
func NewList(userID, name, description string, visibility valueobjects.Visibility) (*List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("list name is required")
	}
	if visibility == "" {
		visibility = valueobjects.VisibilityPrivate
	}
	if !visibility.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid visibility value")
	}
	now := time.Now()
	return &List{
		ListID:      uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Visibility:  visibility,
		ExerciseIDs: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsOwnedBy reports whether userID owns the list.
func (l *List) IsOwnedBy(userID string) bool {
	return l.UserID == userID
}

// IsSharedWith reports whether userID appears in the share list.
func (l *List) IsSharedWith(userID string) bool {
	for _, id := range l.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// IsVisibleTo reports whether userID may read the list.
func (l *List) IsVisibleTo(userID string) bool {
	if l.Visibility == valueobjects.VisibilityPublic {
		return true
	}
	if l.IsOwnedBy(userID) {
		return true
	}
	return l.IsSharedWith(userID)
}

// CanBeFollowedBy reports whether userID may follow the list: public
// lists by anyone, shared lists by their recipients, and owners always.
func (l *List) CanBeFollowedBy(userID string) bool {
	if l.IsOwnedBy(userID) {
		return true
	}
	if l.Visibility == valueobjects.VisibilityPublic {
		return true
	}
	return l.IsSharedWith(userID)
}

// ContainsExercise reports whether exerciseID is already in the list.
func (l *List) ContainsExercise(exerciseID string) bool {
	for _, id := range l.ExerciseIDs {
		if id == exerciseID {
			return true
		}
	}
	return false
}

// EnrichedList carries the owner's public profile, the resolved share
// recipients and the resolved exercises alongside the list itself.
type EnrichedList struct {
	List
	Owner           UserSummary   `json:"owner"`
	SharedWithUsers []UserSummary `json:"sharedWithUsers,omitempty"`
	Exercises       []*Exercise   `json:"exercises"`
	IsShared        bool          `json:"isShared,omitempty"`
}
