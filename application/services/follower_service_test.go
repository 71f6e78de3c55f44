package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
	pkgerrors "exercisely-backend/pkg/errors"
)

func TestFollowerService_Follow_SelfFollowRejected(t *testing.T) {
	ctx := context.Background()
	mockFollowers := new(MockFollowerRepository)

	svc := NewFollowerService(mockFollowers, new(MockUserRepository), new(MockListRepository), nil, noopMetrics(), zap.NewNop())

	err := svc.Follow(ctx, "user1", valueobjects.FollowUserTarget("user1"))

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	mockFollowers.AssertNotCalled(t, "FollowUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollowerService_Follow_UserSuccessPublishes(t *testing.T) {
	ctx := context.Background()
	mockFollowers := new(MockFollowerRepository)
	mockUsers := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)

	mockUsers.On("GetByID", ctx, "user2").Return(&entities.User{UserID: "user2", Name: "Bea"}, nil)
	mockFollowers.On("FollowUser", ctx, "user2", "user1").Return(nil)
	mockPublisher.On("Publish", ctx, mock.Anything, mock.Anything).Return(nil)

	svc := NewFollowerService(mockFollowers, mockUsers, new(MockListRepository), mockPublisher, noopMetrics(), zap.NewNop())

	err := svc.Follow(ctx, "user1", valueobjects.FollowUserTarget("user2"))

	assert.NoError(t, err)
	mockFollowers.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestFollowerService_Follow_MissingUser(t *testing.T) {
	ctx := context.Background()
	mockFollowers := new(MockFollowerRepository)
	mockUsers := new(MockUserRepository)

	mockUsers.On("GetByID", ctx, "ghost").Return(nil, pkgerrors.NewNotFoundError("user"))

	svc := NewFollowerService(mockFollowers, mockUsers, new(MockListRepository), nil, noopMetrics(), zap.NewNop())

	err := svc.Follow(ctx, "user1", valueobjects.FollowUserTarget("ghost"))

	assert.True(t, pkgerrors.IsNotFound(err))
	mockFollowers.AssertNotCalled(t, "FollowUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollowerService_Follow_PrivateListForbidden(t *testing.T) {
	ctx := context.Background()
	mockFollowers := new(MockFollowerRepository)
	mockLists := new(MockListRepository)

	private := &entities.List{ListID: "list1", UserID: "owner", Visibility: valueobjects.VisibilityPrivate}
	mockLists.On("GetByID", ctx, "list1").Return(private, nil)

	svc := NewFollowerService(mockFollowers, new(MockUserRepository), mockLists, nil, noopMetrics(), zap.NewNop())

	err := svc.Follow(ctx, "stranger", valueobjects.FollowListTarget("list1"))

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeForbidden))
	mockFollowers.AssertNotCalled(t, "FollowList", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollowerService_Follow_SharedListRecipientAllowed(t *testing.T) {
	ctx := context.Background()
	mockFollowers := new(MockFollowerRepository)
	mockLists := new(MockListRepository)

	shared := &entities.List{
		ListID:     "list1",
		UserID:     "owner",
		Visibility: valueobjects.VisibilityShared,
		SharedWith: []string{"friend"},
	}
	mockLists.On("GetByID", ctx, "list1").Return(shared, nil)
	mockFollowers.On("FollowList", ctx, "list1", "friend").Return(nil)

	svc := NewFollowerService(mockFollowers, new(MockUserRepository), mockLists, nil, noopMetrics(), zap.NewNop())

	err := svc.Follow(ctx, "friend", valueobjects.FollowListTarget("list1"))

	assert.NoError(t, err)
	mockFollowers.AssertExpectations(t)
}

func TestFollowerService_Unfollow_CounterUnderflowIsBenign(t *testing.T) {
	ctx := context.Background()
	mockFollowers := new(MockFollowerRepository)

	mockFollowers.On("UnfollowUser", ctx, "user2", "user1").
		Return(fmt.Errorf("decrementing FollowerCount: %w", pkgerrors.ErrCounterUnderflow))

	svc := NewFollowerService(mockFollowers, new(MockUserRepository), new(MockListRepository), nil, noopMetrics(), zap.NewNop())

	err := svc.Unfollow(ctx, "user1", valueobjects.FollowUserTarget("user2"))

	assert.NoError(t, err)
}

func TestFollowerService_Unfollow_MissingEdge(t *testing.T) {
	ctx := context.Background()
	mockFollowers := new(MockFollowerRepository)

	mockFollowers.On("UnfollowList", ctx, "list1", "user1").Return(pkgerrors.NewValidationError("not following"))

	svc := NewFollowerService(mockFollowers, new(MockUserRepository), new(MockListRepository), nil, noopMetrics(), zap.NewNop())

	err := svc.Unfollow(ctx, "user1", valueobjects.FollowListTarget("list1"))

	// Unfollowing something never followed is a bad request.
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}

func TestFollowerService_GetFollowers_NewestFollowFirst(t *testing.T) {
	ctx := context.Background()
	mockFollowers := new(MockFollowerRepository)
	mockUsers := new(MockUserRepository)

	now := time.Now()
	mockFollowers.On("GetFollowers", ctx, "user1").Return([]entities.FollowerEdge{
		{FollowerID: "a", CreatedAt: now.Add(-2 * time.Hour)},
		{FollowerID: "b", CreatedAt: now},
		{FollowerID: "c", CreatedAt: now.Add(-time.Hour)},
	}, nil)
	mockUsers.On("GetSummaries", ctx, []string{"b", "c", "a"}).Return(map[string]entities.UserSummary{
		"a": {UserID: "a", Name: "Alice"},
		"b": {UserID: "b", Name: "Bob"},
		"c": {UserID: "c", Name: "Cleo"},
	}, nil)

	svc := NewFollowerService(mockFollowers, mockUsers, new(MockListRepository), nil, noopMetrics(), zap.NewNop())

	followers, err := svc.GetFollowers(ctx, "user1")

	require.NoError(t, err)
	require.Len(t, followers, 3)
	assert.Equal(t, "b", followers[0].UserID)
	assert.Equal(t, "c", followers[1].UserID)
	assert.Equal(t, "a", followers[2].UserID)
}

func TestFollowerService_GetFollowing_NewestFollowFirst(t *testing.T) {
	ctx := context.Background()
	mockFollowers := new(MockFollowerRepository)
	mockUsers := new(MockUserRepository)

	now := time.Now()
	mockFollowers.On("GetFollowedUsers", ctx, "user1").Return([]entities.FollowedUser{
		{UserID: "a", FollowedAt: now.Add(-time.Hour)},
		{UserID: "b", FollowedAt: now},
	}, nil)
	mockUsers.On("GetSummaries", ctx, []string{"b", "a"}).Return(map[string]entities.UserSummary{
		"a": {UserID: "a", Name: "Alice"},
		"b": {UserID: "b", Name: "Bob"},
	}, nil)

	svc := NewFollowerService(mockFollowers, mockUsers, new(MockListRepository), nil, noopMetrics(), zap.NewNop())

	following, err := svc.GetFollowing(ctx, "user1")

	require.NoError(t, err)
	require.Len(t, following, 2)
	assert.Equal(t, "b", following[0].UserID)
	assert.Equal(t, "a", following[1].UserID)
}

func TestFollowerService_GetFollowers_VanishedProfileIsNotFound(t *testing.T) {
	ctx := context.Background()
	mockFollowers := new(MockFollowerRepository)
	mockUsers := new(MockUserRepository)

	mockFollowers.On("GetFollowers", ctx, "user1").Return([]entities.FollowerEdge{
		{FollowerID: "a"},
		{FollowerID: "ghost"},
	}, nil)
	mockUsers.On("GetSummaries", ctx, []string{"a", "ghost"}).Return(map[string]entities.UserSummary{
		"a": {UserID: "a", Name: "Alice"},
	}, nil)

	svc := NewFollowerService(mockFollowers, mockUsers, new(MockListRepository), nil, noopMetrics(), zap.NewNop())

	// An edge pointing at a profile that no longer resolves signals a
	// broken cascade and must not be silently hidden.
	_, err := svc.GetFollowers(ctx, "user1")

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestFollowerService_GetFollowedLists_SkipsDeleted(t *testing.T) {
	ctx := context.Background()
	mockFollowers := new(MockFollowerRepository)
	mockLists := new(MockListRepository)

	mockFollowers.On("GetFollowedLists", ctx, "user1").Return([]entities.FollowedList{
		{ListID: "list1", OwnerID: "owner"},
		{ListID: "deleted", OwnerID: "owner"},
	}, nil)
	mockLists.On("GetByID", ctx, "list1").Return(&entities.List{ListID: "list1", UserID: "owner"}, nil)
	mockLists.On("GetByID", ctx, "deleted").Return(nil, pkgerrors.NewNotFoundError("list"))

	svc := NewFollowerService(mockFollowers, new(MockUserRepository), mockLists, nil, noopMetrics(), zap.NewNop())

	lists, err := svc.GetFollowedLists(ctx, "user1")

	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "list1", lists[0].ListID)
}
