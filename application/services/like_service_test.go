package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"exercisely-backend/domain/core/entities"
	pkgerrors "exercisely-backend/pkg/errors"
	"exercisely-backend/pkg/observability"
)

func noopMetrics() *observability.Metrics {
	return observability.NewMetrics(nil, zap.NewNop(), false)
}

func newExerciseServiceForTest(repo *MockExerciseRepository, cache *fakeCatalogCache) *ExerciseService {
	return NewExerciseService(repo, cache, nil, nil, nil, noopMetrics(), zap.NewNop())
}

func TestLikeService_Like_Success(t *testing.T) {
	ctx := context.Background()
	mockLikes := new(MockLikeRepository)
	mockExercises := new(MockExerciseRepository)
	cache := &fakeCatalogCache{populated: true}

	exercise := &entities.Exercise{ExerciseID: "ex1", Name: "Squat"}
	mockExercises.On("GetByID", ctx, "ex1").Return(exercise, nil)
	mockLikes.On("Like", ctx, "ex1", "user1").Return(nil)

	svc := NewLikeService(mockLikes, newExerciseServiceForTest(mockExercises, cache), nil, noopMetrics(), zap.NewNop())

	err := svc.Like(ctx, "ex1", "user1")

	assert.NoError(t, err)
	assert.Contains(t, cache.patched, "ex1")
	mockLikes.AssertExpectations(t)
}

func TestLikeService_Like_ExerciseMissing(t *testing.T) {
	ctx := context.Background()
	mockLikes := new(MockLikeRepository)
	mockExercises := new(MockExerciseRepository)

	mockExercises.On("GetByID", ctx, "gone").Return(nil, pkgerrors.NewNotFoundError("exercise"))

	svc := NewLikeService(mockLikes, newExerciseServiceForTest(mockExercises, &fakeCatalogCache{}), nil, noopMetrics(), zap.NewNop())

	err := svc.Like(ctx, "gone", "user1")

	assert.True(t, pkgerrors.IsNotFound(err))
	mockLikes.AssertNotCalled(t, "Like", mock.Anything, mock.Anything, mock.Anything)
}

func TestLikeService_Like_AlreadyLiked(t *testing.T) {
	ctx := context.Background()
	mockLikes := new(MockLikeRepository)
	mockExercises := new(MockExerciseRepository)

	exercise := &entities.Exercise{ExerciseID: "ex1", Name: "Squat"}
	mockExercises.On("GetByID", ctx, "ex1").Return(exercise, nil)
	mockLikes.On("Like", ctx, "ex1", "user1").Return(pkgerrors.NewValidationError("exercise already liked"))

	svc := NewLikeService(mockLikes, newExerciseServiceForTest(mockExercises, &fakeCatalogCache{}), nil, noopMetrics(), zap.NewNop())

	err := svc.Like(ctx, "ex1", "user1")

	// A duplicate like surfaces as a bad request, not a conflict.
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}

func TestLikeService_Unlike_CounterUnderflowIsBenign(t *testing.T) {
	ctx := context.Background()
	mockLikes := new(MockLikeRepository)
	mockExercises := new(MockExerciseRepository)
	cache := &fakeCatalogCache{populated: true}

	exercise := &entities.Exercise{ExerciseID: "ex1", Name: "Squat"}
	mockLikes.On("Unlike", ctx, "ex1", "user1").
		Return(fmt.Errorf("decrementing LikeCount: %w", pkgerrors.ErrCounterUnderflow))
	mockExercises.On("GetByID", ctx, "ex1").Return(exercise, nil)

	svc := NewLikeService(mockLikes, newExerciseServiceForTest(mockExercises, cache), nil, noopMetrics(), zap.NewNop())

	err := svc.Unlike(ctx, "ex1", "user1")

	// The caller sees success; the counter simply stays at zero.
	assert.NoError(t, err)
	mockLikes.AssertExpectations(t)
}

func TestLikeService_Unlike_EdgeMissing(t *testing.T) {
	ctx := context.Background()
	mockLikes := new(MockLikeRepository)
	mockExercises := new(MockExerciseRepository)

	mockLikes.On("Unlike", ctx, "ex1", "user1").Return(pkgerrors.NewValidationError("exercise not liked"))

	svc := NewLikeService(mockLikes, newExerciseServiceForTest(mockExercises, &fakeCatalogCache{}), nil, noopMetrics(), zap.NewNop())

	err := svc.Unlike(ctx, "ex1", "user1")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}

func TestLikeService_GetLikedExercises_DropsMissing(t *testing.T) {
	ctx := context.Background()
	mockLikes := new(MockLikeRepository)
	mockExercises := new(MockExerciseRepository)

	mockLikes.On("GetLikedExerciseIDs", ctx, "user1").Return([]string{"ex1", "gone", "ex2"}, nil)
	mockExercises.On("GetBatch", ctx, []string{"ex1", "gone", "ex2"}).Return(map[string]*entities.Exercise{
		"ex1": {ExerciseID: "ex1", Name: "Squat"},
		"ex2": {ExerciseID: "ex2", Name: "Deadlift"},
	}, nil)

	svc := NewLikeService(mockLikes, newExerciseServiceForTest(mockExercises, &fakeCatalogCache{}), nil, noopMetrics(), zap.NewNop())

	liked, err := svc.GetLikedExercises(ctx, "user1")

	require.NoError(t, err)
	require.Len(t, liked, 2)
	assert.Equal(t, "ex1", liked[0].ExerciseID)
	assert.Equal(t, "ex2", liked[1].ExerciseID)
}

func TestLikeService_GetLikedExercises_Empty(t *testing.T) {
	ctx := context.Background()
	mockLikes := new(MockLikeRepository)
	mockExercises := new(MockExerciseRepository)

	mockLikes.On("GetLikedExerciseIDs", ctx, "user1").Return([]string{}, nil)

	svc := NewLikeService(mockLikes, newExerciseServiceForTest(mockExercises, &fakeCatalogCache{}), nil, noopMetrics(), zap.NewNop())

	liked, err := svc.GetLikedExercises(ctx, "user1")

	require.NoError(t, err)
	assert.Empty(t, liked)
	mockExercises.AssertNotCalled(t, "GetBatch", mock.Anything, mock.Anything)
}
