package entities

import (
	"strings"
	"time"

	pkgerrors "exercisely-backend/pkg/errors"
)

// User is the account profile stored under the user's metadata item.
type User struct {
	UserID          string    `json:"userId"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	ProfilePhotoURL string    `json:"profilePhotoUrl,omitempty"`
	FollowerCount   int       `json:"followerCount"`
	FollowingCount  int       `json:"followingCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewUser builds a user profile for registration. Email is stored as
// entered; lookups fold case at the index level.
func NewUser(userID, email, name string) (*User, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("user id is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.NewValidationError("email is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.NewValidationError("name is required")
	}
	now := time.Now()
	return &User{
		UserID:    userID,
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Summary projects the fields other users are allowed to see.
func (u *User) Summary() UserSummary {
	return UserSummary{
		UserID:          u.UserID,
		Name:            u.Name,
		ProfilePhotoURL: u.ProfilePhotoURL,
	}
}

// UserSummary is the public projection of a user attached to comments,
// lists and follower listings.
type UserSummary struct {
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	ProfilePhotoURL string `json:"profilePhotoUrl,omitempty"`
}
