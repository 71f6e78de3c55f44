package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExerciseFilter_IsEmpty(t *testing.T) {
	assert.True(t, ExerciseFilter{}.IsEmpty())
	assert.False(t, ExerciseFilter{Name: "squat"}.IsEmpty())
	assert.False(t, ExerciseFilter{Muscle: []string{"chest"}}.IsEmpty())
}

func TestInVocabulary(t *testing.T) {
	assert.True(t, InVocabulary(FieldLevel, "beginner"))
	assert.True(t, InVocabulary(FieldEquipment, "e-z curl bar"))
	assert.False(t, InVocabulary(FieldLevel, "legendary"))
	assert.False(t, InVocabulary(FieldLevel, "Beginner")) // caller lower-cases first
	assert.False(t, InVocabulary(FilterField("bogus"), "anything"))
}

func TestExerciseFilter_SetFieldLowercases(t *testing.T) {
	var f ExerciseFilter
	f.SetField(FieldMuscle, []string{" Chest ", "TRICEPS"})

	assert.Equal(t, []string{"chest", "triceps"}, f.Muscle)
	assert.Equal(t, []string{"chest", "triceps"}, f.FieldValues(FieldMuscle))
}

func TestExerciseFilter_FieldValuesRoundTrip(t *testing.T) {
	var f ExerciseFilter
	for _, field := range MultiValueFields {
		vocab := VocabularyFor(field)
		f.SetField(field, vocab[:1])
		assert.Equal(t, vocab[:1], f.FieldValues(field))
	}
}
