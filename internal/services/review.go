package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"theraplay-backend/internal/models"
)

type ReviewStore interface {
	Create(ctx context.Context, rv *models.Review) error
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*models.Review, error)
}

type ReviewUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ReviewService appends reviews and keeps the activity rating aggregate in
// step. A user may review the same activity more than once.
type ReviewService struct {
	reviews ReviewStore
	users   ReviewUserStore
}

func NewReviewService(reviews ReviewStore, users ReviewUserStore) *ReviewService {
	return &ReviewService{reviews: reviews, users: users}
}

func (s *ReviewService) ListForActivity(ctx context.Context, activityID uuid.UUID) ([]*models.Review, error) {
	return s.reviews.ListByActivity(ctx, activityID)
}

func (s *ReviewService) Create(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error) {
	fieldErrors := make(map[string]string)
	if req.ActivityID == nil {
		fieldErrors["activityId"] = "Activity id is required"
	}
	if req.UserID == nil {
		fieldErrors["userId"] = "User id is required"
	}
	if req.Rating == nil {
		fieldErrors["rating"] = "Rating is required"
	} else if *req.Rating < 1 || *req.Rating > 5 {
		fieldErrors["rating"] = "Rating must be between 1 and 5"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	user, err := s.users.GetByID(ctx, *req.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}

	rv := &models.Review{
		ActivityID: *req.ActivityID,
		UserID:     *req.UserID,
		UserName:   user.Name,
		Rating:     *req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}
