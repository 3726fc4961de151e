package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"theraplay-backend/internal/models"
	"theraplay-backend/internal/repository"
)

type PurchaseStore interface {
	Create(ctx context.Context, p *models.Purchase) error
	Exists(ctx context.Context, userID, activityID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Purchase, error)
}

type PurchaseActivityStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
}

// PurchaseService is the ledger: at most one purchase per (user, activity)
// pair, price snapshotted at purchase time, counter kept in step.
type PurchaseService struct {
	purchases  PurchaseStore
	activities PurchaseActivityStore
}

func NewPurchaseService(purchases PurchaseStore, activities PurchaseActivityStore) *PurchaseService {
	return &PurchaseService{purchases: purchases, activities: activities}
}

func (s *PurchaseService) Purchase(ctx context.Context, req models.PurchaseRequest) (*models.Purchase, error) {
	fieldErrors := make(map[string]string)
	if req.UserID == nil {
		fieldErrors["userId"] = "User id is required"
	}
	if req.ActivityID == nil {
		fieldErrors["activityId"] = "Activity id is required"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	p := &models.Purchase{UserID: *req.UserID, ActivityID: *req.ActivityID}
	if err := s.purchases.Create(ctx, p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Activity not found"}
		}
		if repository.IsUniqueViolation(err) {
			return nil, &ConflictError{Message: "Activity already purchased"}
		}
		return nil, err
	}
	return p, nil
}

// ListUserPurchases returns the purchase rows (newest first) together with
// the current state of each purchased activity. Activities deleted since the
// purchase are skipped.
func (s *PurchaseService) ListUserPurchases(ctx context.Context, userID uuid.UUID) ([]*models.Purchase, []*models.Activity, error) {
	purchases, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	activities := make([]*models.Activity, 0, len(purchases))
	for _, p := range purchases {
		a, err := s.activities.GetByID(ctx, p.ActivityID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, nil, err
		}
		activities = append(activities, a)
	}
	return purchases, activities, nil
}

func (s *PurchaseService) HasPurchased(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	return s.purchases.Exists(ctx, userID, activityID)
}
