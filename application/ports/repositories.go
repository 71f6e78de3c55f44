package ports

import (
	"context"

	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
)

// UserRepository defines the interface for user persistence.
// This is a port in hexagonal architecture - the domain doesn't know about the implementation.
type UserRepository interface {
	// Create persists a new user, failing with a conflict if the id is taken
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by id
	GetByID(ctx context.Context, userID string) (*entities.User, error)

	// GetByEmail retrieves a user by email, case-insensitively
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update applies profile changes to an existing user
	Update(ctx context.Context, user *entities.User) error

	// GetSummaries resolves public profiles for a set of user ids;
	// missing ids are absent from the result
	GetSummaries(ctx context.Context, userIDs []string) (map[string]entities.UserSummary, error)

	// ListAll returns every user profile (admin/seed tooling)
	ListAll(ctx context.Context) ([]*entities.User, error)

	// Delete removes every item under the user's partition: the profile,
	// owned lists, like edges and follower edges
	Delete(ctx context.Context, userID string) error
}

// ExerciseRepository defines the interface for exercise catalog persistence.
type ExerciseRepository interface {
	// Create persists a new exercise
	Create(ctx context.Context, exercise *entities.Exercise) error

	// GetByID retrieves an exercise by id
	GetByID(ctx context.Context, exerciseID string) (*entities.Exercise, error)

	// GetBatch resolves a set of exercise ids; missing ids are absent
	// from the result
	GetBatch(ctx context.Context, exerciseIDs []string) (map[string]*entities.Exercise, error)

	// ListAll returns the full catalog
	ListAll(ctx context.Context) ([]*entities.Exercise, error)

	// BulkCreate writes many exercises in batches (seed tooling)
	BulkCreate(ctx context.Context, exercises []*entities.Exercise) error
}

// CommentRepository defines the interface for comment persistence.
type CommentRepository interface {
	// Create persists a new comment and bumps the exercise's comment count
	Create(ctx context.Context, comment *entities.Comment) error

	// GetByID locates a comment by id alone via the reverse index
	GetByID(ctx context.Context, commentID string) (*entities.Comment, error)

	// GetByExercise returns all comments under an exercise
	GetByExercise(ctx context.Context, exerciseID string) ([]*entities.Comment, error)

	// Update rewrites a comment's content
	Update(ctx context.Context, comment *entities.Comment) error

	// Delete removes a comment and drops the exercise's comment count
	Delete(ctx context.Context, exerciseID, commentID string) error
}

// LikeRepository defines the interface for like edges and counters.
type LikeRepository interface {
	// Like records that userID likes exerciseID; a duplicate edge is a
	// validation error
	Like(ctx context.Context, exerciseID, userID string) error

	// Unlike removes the edge; a missing edge is a validation error
	Unlike(ctx context.Context, exerciseID, userID string) error

	// HasLiked reports whether the edge exists
	HasLiked(ctx context.Context, exerciseID, userID string) (bool, error)

	// GetLikedExerciseIDs returns the ids of exercises the user likes
	GetLikedExerciseIDs(ctx context.Context, userID string) ([]string, error)
}

// ListRepository defines the interface for list persistence.
type ListRepository interface {
	// Create persists a new list
	Create(ctx context.Context, list *entities.List) error

	// GetByID locates a list by id alone via the list-id index
	GetByID(ctx context.Context, listID string) (*entities.List, error)

	// GetByOwner returns all lists owned by a user
	GetByOwner(ctx context.Context, ownerID string) ([]*entities.List, error)

	// Update rewrites a list's mutable fields
	Update(ctx context.Context, list *entities.List) error

	// AppendExercise appends exerciseID to the list's ordered membership
	// with a store-side duplicate guard; a duplicate is a validation error
	AppendExercise(ctx context.Context, ownerID, listID, exerciseID string) error

	// Delete removes a list owned by ownerID
	Delete(ctx context.Context, ownerID, listID string) error

	// GetSharedWith returns lists whose share list contains userID
	GetSharedWith(ctx context.Context, userID string) ([]*entities.List, error)
}

// FollowerRepository defines the interface for follower edges and counters.
type FollowerRepository interface {
	// FollowUser records followerID following followedID and bumps both
	// sides' counters
	FollowUser(ctx context.Context, followedID, followerID string) error

	// UnfollowUser removes the edge and drops both counters
	UnfollowUser(ctx context.Context, followedID, followerID string) error

	// FollowList records followerID following listID and bumps the
	// list's follower counter
	FollowList(ctx context.Context, listID, followerID string) error

	// UnfollowList removes the list-follower edge and drops the counter
	UnfollowList(ctx context.Context, listID, followerID string) error

	// IsFollowingUser reports whether the user-follow edge exists
	IsFollowingUser(ctx context.Context, followedID, followerID string) (bool, error)

	// IsFollowingList reports whether the list-follow edge exists
	IsFollowingList(ctx context.Context, listID, followerID string) (bool, error)

	// GetFollowers returns the follower edges stored under a user
	GetFollowers(ctx context.Context, followedID string) ([]entities.FollowerEdge, error)

	// GetFollowedUsers returns the users followerID follows with the
	// follow timestamps, via the reverse index
	GetFollowedUsers(ctx context.Context, followerID string) ([]entities.FollowedUser, error)

	// GetFollowedLists returns the lists followerID follows, via the
	// reverse index
	GetFollowedLists(ctx context.Context, followerID string) ([]entities.FollowedList, error)
}

// CatalogCache is the per-worker snapshot of the exercise catalog used
// to answer filtered, paginated queries without table scans.
type CatalogCache interface {
	// Populate replaces the snapshot wholesale
	Populate(exercises []*entities.Exercise)

	// IsPopulated reports whether the snapshot holds data
	IsPopulated() bool

	// Patch upserts a single exercise into the snapshot, if populated
	Patch(exercise *entities.Exercise)

	// Remove drops a single exercise from the snapshot, if populated
	Remove(exerciseID string)

	// Query filters and paginates the snapshot
	Query(filter valueobjects.ExerciseFilter, page, pageSize int) ([]*entities.Exercise, int)
}

// IdentityProvider abstracts the managed identity service used for
// sign-up and credential verification.
type IdentityProvider interface {
	// SignUp registers credentials and returns the provider-assigned
	// subject id
	SignUp(ctx context.Context, email, password, name string) (string, error)

	// Authenticate verifies credentials and returns issued tokens
	Authenticate(ctx context.Context, email, password string) (*AuthTokens, error)

	// Refresh exchanges a refresh token for new tokens
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)

	// ForgotPassword starts a password reset; the provider emails a
	// confirmation code
	ForgotPassword(ctx context.Context, email string) error

	// ConfirmForgotPassword completes a password reset with the emailed code
	ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error

	// ChangePassword rotates the password of the caller identified by the
	// access token
	ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword string) error

	// ChangeEmail starts an email change for the caller; the provider
	// emails a verification code to the new address
	ChangeEmail(ctx context.Context, accessToken, newEmail string) error

	// ConfirmChangeEmail verifies the emailed code and returns the
	// now-current email on the credentials record
	ConfirmChangeEmail(ctx context.Context, accessToken, code string) (string, error)

	// ResendSignUpCode asks the provider to re-send a pending
	// confirmation code
	ResendSignUpCode(ctx context.Context, email string) error

	// DeleteAccount removes the credentials record
	DeleteAccount(ctx context.Context, email string) error
}

// AuthTokens is the token bundle issued on successful authentication.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int32  `json:"expiresIn"`
}

// MediaStorage abstracts the object store holding profile photos.
type MediaStorage interface {
	// PresignUpload returns a short-lived URL the client PUTs the photo
	// to, plus the public URL the object will be served from
	PresignUpload(ctx context.Context, key, contentType string) (uploadURL, publicURL string, err error)

	// Delete removes an object by key
	Delete(ctx context.Context, key string) error
}

// FilterExtractor turns a free-text description into a structured
// exercise filter using a language model.
type FilterExtractor interface {
	ExtractFilter(ctx context.Context, description string) (valueobjects.ExerciseFilter, error)
}

// EventPublisher emits integration events about catalog and social
// activity for downstream consumers.
type EventPublisher interface {
	// Publish sends a single event of the given type with a JSON detail
	// payload
	Publish(ctx context.Context, eventType string, detail any) error
}
