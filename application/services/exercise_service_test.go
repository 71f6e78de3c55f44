package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
	"exercisely-backend/pkg/common"
	pkgerrors "exercisely-backend/pkg/errors"
)

func catalogFixture() []*entities.Exercise {
	return []*entities.Exercise{
		{ExerciseID: "squat", Name: "Squat", Level: "beginner", Category: "strength"},
		{ExerciseID: "deadlift", Name: "Deadlift", Level: "intermediate", Category: "powerlifting"},
	}
}

func catalogFixtureMap() map[string]*entities.Exercise {
	out := make(map[string]*entities.Exercise, 2)
	for _, e := range catalogFixture() {
		out[e.ExerciseID] = e
	}
	return out
}

func TestExerciseService_Query_PopulatesSnapshotOnce(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)
	cache := &fakeCatalogCache{}

	mockRepo.On("ListAll", ctx).Return(catalogFixture(), nil).Once()
	mockRepo.On("GetBatch", ctx, []string{"squat", "deadlift"}).Return(catalogFixtureMap(), nil)

	svc := newExerciseServiceForTest(mockRepo, cache)

	// Two queries; the catalog is loaded only for the first.
	page, err := svc.Query(ctx, valueobjects.ExerciseFilter{}, common.PaginationParams{Page: 1, PageSize: 20}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	_, err = svc.Query(ctx, valueobjects.ExerciseFilter{}, common.PaginationParams{Page: 1, PageSize: 20}, "")
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestExerciseService_Query_RejectsUnknownVocabulary(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)

	svc := newExerciseServiceForTest(mockRepo, &fakeCatalogCache{})

	filter := valueobjects.ExerciseFilter{Level: []string{"legendary"}}
	_, err := svc.Query(ctx, filter, common.PaginationParams{}, "")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	mockRepo.AssertNotCalled(t, "ListAll", mock.Anything)
}

func TestExerciseService_Query_NormalizesPagination(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)
	cache := &fakeCatalogCache{}
	mockRepo.On("ListAll", ctx).Return(catalogFixture(), nil)
	mockRepo.On("GetBatch", ctx, []string{"squat", "deadlift"}).Return(catalogFixtureMap(), nil)

	svc := newExerciseServiceForTest(mockRepo, cache)

	page, err := svc.Query(ctx, valueobjects.ExerciseFilter{}, common.PaginationParams{Page: -3, PageSize: 0}, "")

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
}

func TestExerciseService_Query_ServesFreshCountersAndPatchesSnapshot(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)
	cache := &fakeCatalogCache{populated: true, exercises: catalogFixture()}

	// The snapshot still carries LikeCount 0; the table has moved on.
	fresh := catalogFixtureMap()
	fresh["squat"].LikeCount = 5
	mockRepo.On("GetBatch", ctx, []string{"squat", "deadlift"}).Return(fresh, nil)

	svc := newExerciseServiceForTest(mockRepo, cache)

	page, err := svc.Query(ctx, valueobjects.ExerciseFilter{}, common.PaginationParams{Page: 1, PageSize: 20}, "")

	require.NoError(t, err)
	require.Len(t, page.Exercises, 2)
	assert.Equal(t, 5, page.Exercises[0].LikeCount)
	assert.Contains(t, cache.patched, "squat")
	assert.Contains(t, cache.patched, "deadlift")
	mockRepo.AssertExpectations(t)
}

func TestExerciseService_Query_KeepsCachedCopyWhenRefetchMisses(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)
	cache := &fakeCatalogCache{populated: true, exercises: catalogFixture()}

	fresh := catalogFixtureMap()
	delete(fresh, "deadlift")
	mockRepo.On("GetBatch", ctx, []string{"squat", "deadlift"}).Return(fresh, nil)

	svc := newExerciseServiceForTest(mockRepo, cache)

	page, err := svc.Query(ctx, valueobjects.ExerciseFilter{}, common.PaginationParams{Page: 1, PageSize: 20}, "")

	require.NoError(t, err)
	require.Len(t, page.Exercises, 2)
	assert.Equal(t, "deadlift", page.Exercises[1].ExerciseID)
	assert.NotContains(t, cache.patched, "deadlift")
}

func TestExerciseService_Query_TagsLikedForAuthenticatedCaller(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)
	mockLikes := new(MockLikeRepository)
	cache := &fakeCatalogCache{populated: true, exercises: catalogFixture()}

	mockRepo.On("GetBatch", ctx, []string{"squat", "deadlift"}).Return(catalogFixtureMap(), nil)
	mockLikes.On("GetLikedExerciseIDs", ctx, "user1").Return([]string{"squat"}, nil)

	svc := NewExerciseService(mockRepo, cache, mockLikes, nil, nil, noopMetrics(), zap.NewNop())

	page, err := svc.Query(ctx, valueobjects.ExerciseFilter{}, common.PaginationParams{Page: 1, PageSize: 20}, "user1")

	require.NoError(t, err)
	require.Len(t, page.Exercises, 2)
	assert.True(t, page.Exercises[0].IsLiked)
	assert.False(t, page.Exercises[1].IsLiked)
	// The shared snapshot never carries per-caller state.
	for _, e := range cache.exercises {
		assert.False(t, e.IsLiked)
	}
	mockLikes.AssertExpectations(t)
}

func TestExerciseService_Query_AnonymousSkipsLikeLookup(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)
	mockLikes := new(MockLikeRepository)
	cache := &fakeCatalogCache{populated: true, exercises: catalogFixture()}

	mockRepo.On("GetBatch", ctx, []string{"squat", "deadlift"}).Return(catalogFixtureMap(), nil)

	svc := NewExerciseService(mockRepo, cache, mockLikes, nil, nil, noopMetrics(), zap.NewNop())

	_, err := svc.Query(ctx, valueobjects.ExerciseFilter{}, common.PaginationParams{Page: 1, PageSize: 20}, "")

	require.NoError(t, err)
	mockLikes.AssertNotCalled(t, "GetLikedExerciseIDs", mock.Anything, mock.Anything)
}

func TestExerciseService_Search_ExtractsAndQueries(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)
	mockExtractor := new(MockFilterExtractor)
	cache := &fakeCatalogCache{}

	extracted := valueobjects.ExerciseFilter{Level: []string{"beginner"}}
	mockExtractor.On("ExtractFilter", ctx, "something easy for legs").Return(extracted, nil)
	mockRepo.On("ListAll", ctx).Return(catalogFixture(), nil)
	mockRepo.On("GetBatch", ctx, []string{"squat", "deadlift"}).Return(catalogFixtureMap(), nil)

	svc := NewExerciseService(mockRepo, cache, nil, mockExtractor, nil, noopMetrics(), zap.NewNop())

	page, filter, err := svc.Search(ctx, "something easy for legs", common.PaginationParams{Page: 1, PageSize: 20}, "")

	require.NoError(t, err)
	assert.Equal(t, extracted, filter)
	assert.Equal(t, 2, page.Total)
	mockExtractor.AssertExpectations(t)
}

func TestExerciseService_Search_ExtractorFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)
	mockExtractor := new(MockFilterExtractor)

	mockExtractor.On("ExtractFilter", ctx, "anything").
		Return(valueobjects.ExerciseFilter{}, errors.New("model timeout"))

	svc := NewExerciseService(mockRepo, &fakeCatalogCache{}, nil, mockExtractor, nil, noopMetrics(), zap.NewNop())

	_, _, err := svc.Search(ctx, "anything", common.PaginationParams{}, "")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	mockRepo.AssertNotCalled(t, "ListAll", mock.Anything)
}

func TestExerciseService_Search_EmptyDescription(t *testing.T) {
	ctx := context.Background()
	svc := NewExerciseService(new(MockExerciseRepository), &fakeCatalogCache{}, nil, new(MockFilterExtractor), nil, noopMetrics(), zap.NewNop())

	_, _, err := svc.Search(ctx, "", common.PaginationParams{}, "")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}

func TestExerciseService_Create_PatchesSnapshot(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)
	cache := &fakeCatalogCache{populated: true}

	mockRepo.On("Create", ctx, mock.AnythingOfType("*entities.Exercise")).Return(nil)

	svc := newExerciseServiceForTest(mockRepo, cache)

	created, err := svc.Create(ctx, &entities.Exercise{
		Name:           "Goblet Squat",
		Level:          "beginner",
		Category:       "strength",
		Equipment:      "dumbbell",
		PrimaryMuscles: []string{"quadriceps"},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ExerciseID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Contains(t, cache.patched, created.ExerciseID)
	mockRepo.AssertExpectations(t)
}

func TestExerciseService_Create_RejectsInvalidVocabulary(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)

	svc := newExerciseServiceForTest(mockRepo, &fakeCatalogCache{})

	cases := []struct {
		name     string
		exercise *entities.Exercise
	}{
		{"missing name", &entities.Exercise{Level: "beginner", Category: "strength"}},
		{"bad level", &entities.Exercise{Name: "X", Level: "legendary", Category: "strength"}},
		{"bad category", &entities.Exercise{Name: "X", Level: "beginner", Category: "yoga"}},
		{"bad muscle", &entities.Exercise{Name: "X", Level: "beginner", Category: "strength", PrimaryMuscles: []string{"wings"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.exercise)
			assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
		})
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExerciseService_RefreshExercise_RemovesMissing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)
	cache := &fakeCatalogCache{populated: true}

	mockRepo.On("GetByID", ctx, "gone").Return(nil, pkgerrors.NewNotFoundError("exercise"))

	svc := newExerciseServiceForTest(mockRepo, cache)

	svc.RefreshExercise(ctx, "gone")

	assert.Contains(t, cache.removed, "gone")
	assert.Empty(t, cache.patched)
}

func TestExerciseService_RefreshCatalog_Reloads(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExerciseRepository)
	cache := &fakeCatalogCache{}

	mockRepo.On("ListAll", ctx).Return(catalogFixture(), nil)

	svc := newExerciseServiceForTest(mockRepo, cache)

	err := svc.RefreshCatalog(ctx)

	require.NoError(t, err)
	assert.True(t, cache.populated)
	assert.Len(t, cache.exercises, 2)
}
