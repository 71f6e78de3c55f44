package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "exercisely-backend/pkg/errors"
)

func TestParseFilterJSON_PlainObject(t *testing.T) {
	filter, err := ParseFilterJSON(`{"level": ["beginner"], "muscle": ["chest", "triceps"]}`)

	require.NoError(t, err)
	assert.Equal(t, []string{"beginner"}, filter.Level)
	assert.Equal(t, []string{"chest", "triceps"}, filter.Muscle)
	assert.Empty(t, filter.Force)
}

func TestParseFilterJSON_StripsMarkdownFences(t *testing.T) {
	text := "```json\n{\"equipment\": [\"dumbbell\"]}\n```"

	filter, err := ParseFilterJSON(text)

	require.NoError(t, err)
	assert.Equal(t, []string{"dumbbell"}, filter.Equipment)
}

func TestParseFilterJSON_AcceptsBareFence(t *testing.T) {
	text := "```\n{\"force\": [\"push\"]}\n```"

	filter, err := ParseFilterJSON(text)

	require.NoError(t, err)
	assert.Equal(t, []string{"push"}, filter.Force)
}

func TestParseFilterJSON_SingleStringBecomesList(t *testing.T) {
	filter, err := ParseFilterJSON(`{"category": "strength"}`)

	require.NoError(t, err)
	assert.Equal(t, []string{"strength"}, filter.Category)
}

func TestParseFilterJSON_DiscardsUnknownValues(t *testing.T) {
	filter, err := ParseFilterJSON(`{"level": ["beginner", "legendary"], "muscle": ["wings"]}`)

	require.NoError(t, err)
	assert.Equal(t, []string{"beginner"}, filter.Level)
	assert.Empty(t, filter.Muscle)
}

func TestParseFilterJSON_NormalizesCaseAndSpace(t *testing.T) {
	filter, err := ParseFilterJSON(`{"equipment": [" Dumbbell "], "muscle": ["CHEST"]}`)

	require.NoError(t, err)
	assert.Equal(t, []string{"dumbbell"}, filter.Equipment)
	assert.Equal(t, []string{"chest"}, filter.Muscle)
}

func TestParseFilterJSON_InvalidJSON(t *testing.T) {
	_, err := ParseFilterJSON("sure! here is your filter:")

	assert.Error(t, err)
}

func TestDisabledFilterExtractor_Rejects(t *testing.T) {
	e := NewDisabledFilterExtractor()

	filter, err := e.ExtractFilter(context.Background(), "anything at all")

	assert.True(t, filter.IsEmpty())
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}
