package services

import (
	"strings"

	"codemart-backend-go/internal/models"
)

const (
	InteractionLike    = "like"
	InteractionComment = "comment"
	InteractionShare   = "share"
	InteractionRating  = "rating"
)

var interactionTypes = map[string]bool{
	InteractionLike:    true,
	InteractionComment: true,
	InteractionShare:   true,
	InteractionRating:  true,
}

type InteractionStats struct {
	Likes         int     `json:"likes"`
	Comments      int     `json:"comments"`
	Shares        int     `json:"shares"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}

// ComputeInteractionStats partitions rows by type and averages rating values.
// AverageRating is 0 when no rating rows exist.
func ComputeInteractionStats(rows []models.Interaction) InteractionStats {
	stats := InteractionStats{}
	ratingSum := 0
	for _, row := range rows {
		switch row.InteractionType {
		case InteractionLike:
			stats.Likes++
		case InteractionComment:
			stats.Comments++
		case InteractionShare:
			stats.Shares++
		case InteractionRating:
			if row.RatingValue != nil {
				stats.TotalRatings++
				ratingSum += *row.RatingValue
			}
		}
	}
	if stats.TotalRatings > 0 {
		stats.AverageRating = float64(ratingSum) / float64(stats.TotalRatings)
	}
	return stats
}

// ValidateInteraction normalizes and checks an incoming interaction before
// insert. Comments need text, ratings need a value in 1..5, and neither field
// is allowed on the other types.
func ValidateInteraction(interactionType string, commentText *string, ratingValue *int) (string, error) {
	kind := strings.ToLower(strings.TrimSpace(interactionType))
	if !interactionTypes[kind] {
		return "", ErrBadRequest("Unknown interaction type")
	}
	switch kind {
	case InteractionComment:
		if commentText == nil || strings.TrimSpace(*commentText) == "" {
			return "", ErrBadRequest("Comment text is required")
		}
	case InteractionRating:
		if ratingValue == nil || *ratingValue < 1 || *ratingValue > 5 {
			return "", ErrBadRequest("Rating must be between 1 and 5")
		}
	}
	return kind, nil
}
