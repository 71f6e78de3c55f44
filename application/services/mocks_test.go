package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
)

// MockUserRepository mocks ports.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetSummaries(ctx context.Context, userIDs []string) (map[string]entities.UserSummary, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entities.UserSummary), args.Error(1)
}

func (m *MockUserRepository) ListAll(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockExerciseRepository mocks ports.ExerciseRepository.
type MockExerciseRepository struct {
	mock.Mock
}

func (m *MockExerciseRepository) Create(ctx context.Context, exercise *entities.Exercise) error {
	args := m.Called(ctx, exercise)
	return args.Error(0)
}

func (m *MockExerciseRepository) GetByID(ctx context.Context, exerciseID string) (*entities.Exercise, error) {
	args := m.Called(ctx, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) GetBatch(ctx context.Context, exerciseIDs []string) (map[string]*entities.Exercise, error) {
	args := m.Called(ctx, exerciseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entities.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) ListAll(ctx context.Context) ([]*entities.Exercise, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) BulkCreate(ctx context.Context, exercises []*entities.Exercise) error {
	args := m.Called(ctx, exercises)
	return args.Error(0)
}

// MockCommentRepository mocks ports.CommentRepository.
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, commentID string) (*entities.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByExercise(ctx context.Context, exerciseID string) ([]*entities.Comment, error) {
	args := m.Called(ctx, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Comment), args.Error(1)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *entities.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, exerciseID, commentID string) error {
	args := m.Called(ctx, exerciseID, commentID)
	return args.Error(0)
}

// MockLikeRepository mocks ports.LikeRepository.
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Like(ctx context.Context, exerciseID, userID string) error {
	args := m.Called(ctx, exerciseID, userID)
	return args.Error(0)
}

func (m *MockLikeRepository) Unlike(ctx context.Context, exerciseID, userID string) error {
	args := m.Called(ctx, exerciseID, userID)
	return args.Error(0)
}

func (m *MockLikeRepository) HasLiked(ctx context.Context, exerciseID, userID string) (bool, error) {
	args := m.Called(ctx, exerciseID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) GetLikedExerciseIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockListRepository mocks ports.ListRepository.
type MockListRepository struct {
	mock.Mock
}

func (m *MockListRepository) Create(ctx context.Context, list *entities.List) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

func (m *MockListRepository) GetByID(ctx context.Context, listID string) (*entities.List, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.List), args.Error(1)
}

func (m *MockListRepository) GetByOwner(ctx context.Context, ownerID string) ([]*entities.List, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.List), args.Error(1)
}

func (m *MockListRepository) Update(ctx context.Context, list *entities.List) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

func (m *MockListRepository) AppendExercise(ctx context.Context, ownerID, listID, exerciseID string) error {
	args := m.Called(ctx, ownerID, listID, exerciseID)
	return args.Error(0)
}

func (m *MockListRepository) Delete(ctx context.Context, ownerID, listID string) error {
	args := m.Called(ctx, ownerID, listID)
	return args.Error(0)
}

func (m *MockListRepository) GetSharedWith(ctx context.Context, userID string) ([]*entities.List, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.List), args.Error(1)
}

// MockFollowerRepository mocks ports.FollowerRepository.
type MockFollowerRepository struct {
	mock.Mock
}

func (m *MockFollowerRepository) FollowUser(ctx context.Context, followedID, followerID string) error {
	args := m.Called(ctx, followedID, followerID)
	return args.Error(0)
}

func (m *MockFollowerRepository) UnfollowUser(ctx context.Context, followedID, followerID string) error {
	args := m.Called(ctx, followedID, followerID)
	return args.Error(0)
}

func (m *MockFollowerRepository) FollowList(ctx context.Context, listID, followerID string) error {
	args := m.Called(ctx, listID, followerID)
	return args.Error(0)
}

func (m *MockFollowerRepository) UnfollowList(ctx context.Context, listID, followerID string) error {
	args := m.Called(ctx, listID, followerID)
	return args.Error(0)
}

func (m *MockFollowerRepository) IsFollowingUser(ctx context.Context, followedID, followerID string) (bool, error) {
	args := m.Called(ctx, followedID, followerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowerRepository) IsFollowingList(ctx context.Context, listID, followerID string) (bool, error) {
	args := m.Called(ctx, listID, followerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowerRepository) GetFollowers(ctx context.Context, followedID string) ([]entities.FollowerEdge, error) {
	args := m.Called(ctx, followedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FollowerEdge), args.Error(1)
}

func (m *MockFollowerRepository) GetFollowedUsers(ctx context.Context, followerID string) ([]entities.FollowedUser, error) {
	args := m.Called(ctx, followerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FollowedUser), args.Error(1)
}

func (m *MockFollowerRepository) GetFollowedLists(ctx context.Context, followerID string) ([]entities.FollowedList, error) {
	args := m.Called(ctx, followerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FollowedList), args.Error(1)
}

// MockFilterExtractor mocks ports.FilterExtractor.
type MockFilterExtractor struct {
	mock.Mock
}

func (m *MockFilterExtractor) ExtractFilter(ctx context.Context, description string) (valueobjects.ExerciseFilter, error) {
	args := m.Called(ctx, description)
	return args.Get(0).(valueobjects.ExerciseFilter), args.Error(1)
}

// MockEventPublisher mocks ports.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, eventType string, detail any) error {
	args := m.Called(ctx, eventType, detail)
	return args.Error(0)
}

// MockIdentityProvider mocks ports.IdentityProvider.
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password, name string) (string, error) {
	args := m.Called(ctx, email, password, name)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityProvider) Authenticate(ctx context.Context, email, password string) (*ports.AuthTokens, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.AuthTokens), args.Error(1)
}

func (m *MockIdentityProvider) Refresh(ctx context.Context, refreshToken string) (*ports.AuthTokens, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.AuthTokens), args.Error(1)
}

func (m *MockIdentityProvider) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockIdentityProvider) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error {
	args := m.Called(ctx, email, code, newPassword)
	return args.Error(0)
}

func (m *MockIdentityProvider) ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword string) error {
	args := m.Called(ctx, accessToken, oldPassword, newPassword)
	return args.Error(0)
}

func (m *MockIdentityProvider) ChangeEmail(ctx context.Context, accessToken, newEmail string) error {
	args := m.Called(ctx, accessToken, newEmail)
	return args.Error(0)
}

func (m *MockIdentityProvider) ConfirmChangeEmail(ctx context.Context, accessToken, code string) (string, error) {
	args := m.Called(ctx, accessToken, code)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityProvider) ResendSignUpCode(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockIdentityProvider) DeleteAccount(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockMediaStorage mocks ports.MediaStorage.
type MockMediaStorage struct {
	mock.Mock
}

func (m *MockMediaStorage) PresignUpload(ctx context.Context, key, contentType string) (string, string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockMediaStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// fakeCatalogCache is a minimal in-memory CatalogCache for service
// tests. It ignores filters; filter semantics are covered by the cache
// package's own tests.
type fakeCatalogCache struct {
	exercises []*entities.Exercise
	populated bool
	patched   []string
	removed   []string
}

func (f *fakeCatalogCache) Populate(exercises []*entities.Exercise) {
	f.exercises = exercises
	f.populated = true
}

func (f *fakeCatalogCache) IsPopulated() bool { return f.populated }

func (f *fakeCatalogCache) Patch(exercise *entities.Exercise) {
	f.patched = append(f.patched, exercise.ExerciseID)
}

func (f *fakeCatalogCache) Remove(exerciseID string) {
	f.removed = append(f.removed, exerciseID)
}

func (f *fakeCatalogCache) Query(filter valueobjects.ExerciseFilter, page, pageSize int) ([]*entities.Exercise, int) {
	return f.exercises, len(f.exercises)
}
