package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"theraplay-backend/internal/models"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

type purchaseStoreStub struct {
	purchases   []*models.Purchase
	exists      bool
	createError error
}

func (s *purchaseStoreStub) Create(ctx context.Context, p *models.Purchase) error {
	if s.createError != nil {
		return s.createError
	}
	p.ID = uuid.New()
	p.Price = 15
	s.purchases = append(s.purchases, p)
	return nil
}

func (s *purchaseStoreStub) Exists(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	return s.exists, nil
}

func (s *purchaseStoreStub) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Purchase, error) {
	return s.purchases, nil
}

type purchaseActivityStub struct {
	activities map[uuid.UUID]*models.Activity
}

func (s *purchaseActivityStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	if a, ok := s.activities[id]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

func TestPurchaseValidation(t *testing.T) {
	svc := NewPurchaseService(&purchaseStoreStub{}, &purchaseActivityStub{})

	_, err := svc.Purchase(context.Background(), models.PurchaseRequest{})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	for _, f := range []string{"userId", "activityId"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Errorf("Expected field error for %q, got %v", f, ve.Fields)
		}
	}
}

func TestPurchaseUnknownActivity(t *testing.T) {
	store := &purchaseStoreStub{createError: pgx.ErrNoRows}
	svc := NewPurchaseService(store, &purchaseActivityStub{})

	_, err := svc.Purchase(context.Background(), models.PurchaseRequest{
		UserID: uuidPtr(uuid.New()), ActivityID: uuidPtr(uuid.New()),
	})

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

func TestPurchaseDuplicateMapsToConflict(t *testing.T) {
	store := &purchaseStoreStub{createError: uniqueViolation()}
	svc := NewPurchaseService(store, &purchaseActivityStub{})

	_, err := svc.Purchase(context.Background(), models.PurchaseRequest{
		UserID: uuidPtr(uuid.New()), ActivityID: uuidPtr(uuid.New()),
	})

	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
	if ce.Message != "Activity already purchased" {
		t.Errorf("Expected duplicate purchase message, got %q", ce.Message)
	}
}

func TestPurchaseSnapshotsPrice(t *testing.T) {
	store := &purchaseStoreStub{}
	svc := NewPurchaseService(store, &purchaseActivityStub{})

	p, err := svc.Purchase(context.Background(), models.PurchaseRequest{
		UserID: uuidPtr(uuid.New()), ActivityID: uuidPtr(uuid.New()),
	})
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if p.Price != 15 {
		t.Errorf("Expected price snapshot from the store, got %v", p.Price)
	}
}

func TestListUserPurchasesSkipsDeletedActivities(t *testing.T) {
	userID := uuid.New()
	liveID := uuid.New()
	goneID := uuid.New()

	store := &purchaseStoreStub{purchases: []*models.Purchase{
		{ID: uuid.New(), UserID: userID, ActivityID: liveID},
		{ID: uuid.New(), UserID: userID, ActivityID: goneID},
	}}
	activities := &purchaseActivityStub{activities: map[uuid.UUID]*models.Activity{
		liveID: {ID: liveID, Title: "Still here"},
	}}
	svc := NewPurchaseService(store, activities)

	purchases, acts, err := svc.ListUserPurchases(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListUserPurchases failed: %v", err)
	}

	if len(purchases) != 2 {
		t.Errorf("Expected both purchase rows preserved, got %d", len(purchases))
	}
	if len(acts) != 1 || acts[0].ID != liveID {
		t.Errorf("Expected only the surviving activity, got %v", acts)
	}
}

func TestHasPurchased(t *testing.T) {
	svc := NewPurchaseService(&purchaseStoreStub{exists: true}, &purchaseActivityStub{})

	got, err := svc.HasPurchased(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("HasPurchased failed: %v", err)
	}
	if !got {
		t.Errorf("Expected purchased = true")
	}
}
