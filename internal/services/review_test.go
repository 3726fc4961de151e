package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"theraplay-backend/internal/models"
)

type reviewStoreStub struct {
	reviews []*models.Review
}

func (s *reviewStoreStub) Create(ctx context.Context, rv *models.Review) error {
	rv.ID = uuid.New()
	s.reviews = append(s.reviews, rv)
	return nil
}

func (s *reviewStoreStub) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*models.Review, error) {
	return s.reviews, nil
}

type reviewUserStub struct {
	users map[uuid.UUID]*models.User
}

func (s *reviewUserStub) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func TestCreateReviewRatingBounds(t *testing.T) {
	userID := uuid.New()
	users := &reviewUserStub{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Name: "Reviewer"},
	}}
	svc := NewReviewService(&reviewStoreStub{}, users)
	activityID := uuid.New()

	tests := []struct {
		name   string
		rating *int
		valid  bool
	}{
		{"missing rating", nil, false},
		{"below range", intPtr(0), false},
		{"above range", intPtr(6), false},
		{"lower bound", intPtr(1), true},
		{"upper bound", intPtr(5), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), models.CreateReviewRequest{
				ActivityID: &activityID,
				UserID:     &userID,
				Rating:     tc.rating,
			})

			if tc.valid {
				if err != nil {
					t.Fatalf("Expected review created, got %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if _, ok := ve.Fields["rating"]; !ok {
				t.Errorf("Expected rating field error, got %v", ve.Fields)
			}
		})
	}
}

func TestCreateReviewUnknownUser(t *testing.T) {
	svc := NewReviewService(&reviewStoreStub{}, &reviewUserStub{})

	_, err := svc.Create(context.Background(), models.CreateReviewRequest{
		ActivityID: uuidPtr(uuid.New()),
		UserID:     uuidPtr(uuid.New()),
		Rating:     intPtr(4),
	})

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
	if nf.Message != "User not found" {
		t.Errorf("Expected user not found message, got %q", nf.Message)
	}
}

func TestCreateReviewSnapshotsUserName(t *testing.T) {
	userID := uuid.New()
	users := &reviewUserStub{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Name: "Aru"},
	}}
	store := &reviewStoreStub{}
	svc := NewReviewService(store, users)

	rv, err := svc.Create(context.Background(), models.CreateReviewRequest{
		ActivityID: uuidPtr(uuid.New()),
		UserID:     &userID,
		Rating:     intPtr(5),
		Comment:    "Great activity",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if rv.UserName != "Aru" {
		t.Errorf("Expected reviewer name snapshot, got %q", rv.UserName)
	}
	if rv.Comment != "Great activity" {
		t.Errorf("Expected comment preserved, got %q", rv.Comment)
	}
}
