package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase records that a user bought an activity. Price is the activity
// price at purchase time and never changes afterwards.
type Purchase struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	ActivityID  uuid.UUID `json:"activityId"`
	Price       float64   `json:"price"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

type PurchaseRequest struct {
	UserID     *uuid.UUID `json:"userId"`
	ActivityID *uuid.UUID `json:"activityId"`
}
