package ideia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCompletenessEmptyIdea(t *testing.T) {
	result := ValidateCompleteness(&IdeaContext{})

	assert.Equal(t, float64(0), result.Score)
	assert.False(t, result.IsComplete)
	assert.Equal(t, []string{"title", "description", "target_audience"}, result.MissingFields)
	assert.Equal(t, 0, result.FilledFields)
	assert.Equal(t, 3, result.TotalFields)
}

func TestValidateCompletenessNilIdea(t *testing.T) {
	result := ValidateCompleteness(nil)

	assert.Equal(t, float64(0), result.Score)
	assert.False(t, result.IsComplete)
	assert.Len(t, result.MissingFields, 3)
}

func TestValidateCompletenessFullIdea(t *testing.T) {
	result := ValidateCompleteness(&IdeaContext{
		Title:          "x",
		Description:    "y",
		TargetAudience: "z",
	})

	assert.Equal(t, float64(100), result.Score)
	assert.True(t, result.IsComplete)
	assert.Empty(t, result.MissingFields)
	assert.Equal(t, 3, result.FilledFields)
}

func TestValidateCompletenessPartialIdea(t *testing.T) {
	result := ValidateCompleteness(&IdeaContext{Title: "Inclusão Digital"})

	assert.InDelta(t, 33.33, result.Score, 0.34)
	assert.False(t, result.IsComplete)
	assert.Equal(t, []string{"description", "target_audience"}, result.MissingFields)
}

func TestValidateCompletenessWhitespaceDoesNotCount(t *testing.T) {
	result := ValidateCompleteness(&IdeaContext{
		Title:          "   ",
		Description:    "algo",
		TargetAudience: "\t",
	})

	assert.Equal(t, 1, result.FilledFields)
	assert.Contains(t, result.MissingFields, "title")
	assert.Contains(t, result.MissingFields, "target_audience")
}
