package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"exercisely-backend/domain/core/entities"
	"exercisely-backend/domain/core/valueobjects"
)

func snapshotFixture() []*entities.Exercise {
	return []*entities.Exercise{
		{
			ExerciseID: "bench", Name: "Barbell Bench Press",
			Force: "push", Level: "intermediate", Mechanic: "compound",
			Equipment: "barbell", Category: "strength",
			PrimaryMuscles: []string{"chest"}, SecondaryMuscles: []string{"triceps", "shoulders"},
		},
		{
			ExerciseID: "curl", Name: "Dumbbell Curl",
			Force: "pull", Level: "beginner", Mechanic: "isolation",
			Equipment: "dumbbell", Category: "strength",
			PrimaryMuscles: []string{"biceps"},
		},
		{
			ExerciseID: "plank", Name: "Plank",
			Force: "static", Level: "beginner",
			Equipment: "body only", Category: "strength",
			PrimaryMuscles: []string{"abdominals"},
		},
	}
}

func populatedCache() *CatalogCache {
	c := NewCatalogCache(zap.NewNop()).(*CatalogCache)
	c.Populate(snapshotFixture())
	return c
}

func TestCatalogCache_Query_Unconstrained(t *testing.T) {
	c := populatedCache()

	matches, total := c.Query(valueobjects.ExerciseFilter{}, 1, 20)

	assert.Equal(t, 3, total)
	require.Len(t, matches, 3)
	// Sorted by name for stable pagination.
	assert.Equal(t, "Barbell Bench Press", matches[0].Name)
	assert.Equal(t, "Dumbbell Curl", matches[1].Name)
	assert.Equal(t, "Plank", matches[2].Name)
}

func TestCatalogCache_Query_ConjunctiveFields(t *testing.T) {
	c := populatedCache()

	filter := valueobjects.ExerciseFilter{
		Level:     []string{"beginner"},
		Equipment: []string{"dumbbell"},
	}
	matches, total := c.Query(filter, 1, 20)

	assert.Equal(t, 1, total)
	require.Len(t, matches, 1)
	assert.Equal(t, "curl", matches[0].ExerciseID)
}

func TestCatalogCache_Query_MuscleMatchesSecondary(t *testing.T) {
	c := populatedCache()

	matches, total := c.Query(valueobjects.ExerciseFilter{Muscle: []string{"triceps"}}, 1, 20)

	assert.Equal(t, 1, total)
	assert.Equal(t, "bench", matches[0].ExerciseID)
}

func TestCatalogCache_Query_NameSubstringFoldsCase(t *testing.T) {
	c := populatedCache()

	matches, total := c.Query(valueobjects.ExerciseFilter{Name: "bench"}, 1, 20)

	assert.Equal(t, 1, total)
	assert.Equal(t, "Barbell Bench Press", matches[0].Name)
}

func TestCatalogCache_Query_PageBeyondEnd(t *testing.T) {
	c := populatedCache()

	matches, total := c.Query(valueobjects.ExerciseFilter{}, 5, 20)

	assert.Equal(t, 3, total)
	assert.Empty(t, matches)
}

func TestCatalogCache_Query_SecondPage(t *testing.T) {
	c := populatedCache()

	matches, total := c.Query(valueobjects.ExerciseFilter{}, 2, 2)

	assert.Equal(t, 3, total)
	require.Len(t, matches, 1)
	assert.Equal(t, "Plank", matches[0].Name)
}

func TestCatalogCache_Patch_UpdatesExisting(t *testing.T) {
	c := populatedCache()

	c.Patch(&entities.Exercise{ExerciseID: "plank", Name: "Plank", LikeCount: 7,
		Level: "beginner", Equipment: "body only", Category: "strength",
		PrimaryMuscles: []string{"abdominals"}})

	matches, _ := c.Query(valueobjects.ExerciseFilter{Name: "plank"}, 1, 20)
	require.Len(t, matches, 1)
	assert.Equal(t, 7, matches[0].LikeCount)
}

func TestCatalogCache_Patch_InsertsAndKeepsOrder(t *testing.T) {
	c := populatedCache()

	c.Patch(&entities.Exercise{ExerciseID: "crunch", Name: "Crunch", Level: "beginner", Category: "strength"})

	matches, total := c.Query(valueobjects.ExerciseFilter{}, 1, 20)
	assert.Equal(t, 4, total)
	assert.Equal(t, "Crunch", matches[1].Name)
}

func TestCatalogCache_Patch_IgnoredWhenUnpopulated(t *testing.T) {
	c := NewCatalogCache(zap.NewNop()).(*CatalogCache)

	c.Patch(&entities.Exercise{ExerciseID: "x", Name: "X"})

	assert.False(t, c.IsPopulated())
	_, total := c.Query(valueobjects.ExerciseFilter{}, 1, 20)
	assert.Equal(t, 0, total)
}

func TestCatalogCache_Remove(t *testing.T) {
	c := populatedCache()

	c.Remove("curl")
	c.Remove("never-existed")

	matches, total := c.Query(valueobjects.ExerciseFilter{}, 1, 20)
	assert.Equal(t, 2, total)
	for _, m := range matches {
		assert.NotEqual(t, "curl", m.ExerciseID)
	}

	// The index stays usable after removal.
	c.Patch(&entities.Exercise{ExerciseID: "plank", Name: "Plank", LikeCount: 1})
	matches, _ = c.Query(valueobjects.ExerciseFilter{Name: "plank"}, 1, 20)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].LikeCount)
}
