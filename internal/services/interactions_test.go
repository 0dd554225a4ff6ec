package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codemart-backend-go/internal/models"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestComputeInteractionStats(t *testing.T) {
	t.Run("mixed rows", func(t *testing.T) {
		rows := []models.Interaction{
			{InteractionType: InteractionLike},
			{InteractionType: InteractionLike},
			{InteractionType: InteractionRating, RatingValue: intPtr(4)},
			{InteractionType: InteractionRating, RatingValue: intPtr(2)},
		}
		stats := ComputeInteractionStats(rows)
		assert.Equal(t, 2, stats.Likes)
		assert.Equal(t, 0, stats.Comments)
		assert.Equal(t, 0, stats.Shares)
		assert.Equal(t, 2, stats.TotalRatings)
		assert.InDelta(t, 3.0, stats.AverageRating, 1e-9)
	})

	t.Run("no ratings means zero average", func(t *testing.T) {
		rows := []models.Interaction{
			{InteractionType: InteractionComment, CommentText: strPtr("nice")},
			{InteractionType: InteractionShare},
		}
		stats := ComputeInteractionStats(rows)
		assert.Equal(t, 1, stats.Comments)
		assert.Equal(t, 1, stats.Shares)
		assert.Equal(t, 0, stats.TotalRatings)
		assert.Zero(t, stats.AverageRating)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, InteractionStats{}, ComputeInteractionStats(nil))
	})

	t.Run("rating row without value is skipped", func(t *testing.T) {
		stats := ComputeInteractionStats([]models.Interaction{{InteractionType: InteractionRating}})
		assert.Equal(t, 0, stats.TotalRatings)
		assert.Zero(t, stats.AverageRating)
	})
}

func TestValidateInteraction(t *testing.T) {
	t.Run("normalizes type casing", func(t *testing.T) {
		kind, err := ValidateInteraction("  LIKE ", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, InteractionLike, kind)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ValidateInteraction("clap", nil, nil)
		assert.Error(t, err)
	})

	t.Run("comment requires text", func(t *testing.T) {
		_, err := ValidateInteraction(InteractionComment, nil, nil)
		assert.Error(t, err)
		_, err = ValidateInteraction(InteractionComment, strPtr("   "), nil)
		assert.Error(t, err)
		_, err = ValidateInteraction(InteractionComment, strPtr("great work"), nil)
		assert.NoError(t, err)
	})

	t.Run("rating bounds", func(t *testing.T) {
		for _, value := range []int{0, 6, -1} {
			_, err := ValidateInteraction(InteractionRating, nil, intPtr(value))
			assert.Error(t, err, "rating %d", value)
		}
		for value := 1; value <= 5; value++ {
			_, err := ValidateInteraction(InteractionRating, nil, intPtr(value))
			assert.NoError(t, err)
		}
	})
}
