package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is append-only. UserName is the reviewer's name at review time and
// stays frozen even if the user renames later.
type Review struct {
	ID         uuid.UUID `json:"id"`
	ActivityID uuid.UUID `json:"activityId"`
	UserID     uuid.UUID `json:"userId"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateReviewRequest struct {
	ActivityID *uuid.UUID `json:"activityId"`
	UserID     *uuid.UUID `json:"userId"`
	Rating     *int       `json:"rating"`
	Comment    string     `json:"comment"`
}

// MeanRating is the exact arithmetic mean over the full review set. The
// aggregate on an activity is always recomputed from scratch rather than
// updated incrementally.
func MeanRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}
