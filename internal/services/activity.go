package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"theraplay-backend/internal/models"
)

type ActivityStore interface {
	Create(ctx context.Context, a *models.Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	List(ctx context.Context, f models.ActivityFilter) ([]*models.Activity, error)
	Marketplace(ctx context.Context, f models.MarketplaceFilter) ([]*models.Activity, error)
	Update(ctx context.Context, a *models.Activity) error
	Publish(ctx context.Context, a *models.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityService covers authoring (create/update/delete), the catalog
// listings and the publish transition.
type ActivityService struct {
	activities ActivityStore
}

func NewActivityService(activities ActivityStore) *ActivityService {
	return &ActivityService{activities: activities}
}

func (s *ActivityService) List(ctx context.Context, f models.ActivityFilter) ([]*models.Activity, error) {
	return s.activities.List(ctx, f)
}

func (s *ActivityService) Marketplace(ctx context.Context, f models.MarketplaceFilter) ([]*models.Activity, error) {
	return s.activities.Marketplace(ctx, f)
}

func (s *ActivityService) Get(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Activity not found"}
		}
		return nil, err
	}
	return a, nil
}

func (s *ActivityService) Create(ctx context.Context, req models.CreateActivityRequest) (*models.Activity, error) {
	fieldErrors := make(map[string]string)
	if req.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if req.Type == "" {
		fieldErrors["type"] = "Type is required"
	}
	if req.AuthorID == nil {
		fieldErrors["authorId"] = "Author id is required"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	language := req.Language
	if language == "" {
		language = models.DefaultLanguage
	}
	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	elements := req.Elements
	if elements == nil {
		elements = json.RawMessage("[]")
	}

	a := &models.Activity{
		Title:         req.Title,
		Type:          req.Type,
		Language:      language,
		Description:   &description,
		Elements:      elements,
		AuthorID:      *req.AuthorID,
		IsPublished:   req.IsPublished,
		Tags:          orEmpty(req.Tags),
		PricingModel:  models.PricingFree,
		TherapyGoals:  []string{},
		DiagnosisTags: []string{},
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update applies only the fields present in the patch and always refreshes
// updatedAt.
func (s *ActivityService) Update(ctx context.Context, id uuid.UUID, req models.UpdateActivityRequest) (*models.Activity, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = req.Description
	}
	if req.Elements != nil {
		a.Elements = req.Elements
	}
	if req.Tags != nil {
		a.Tags = *req.Tags
	}
	if req.Language != nil {
		a.Language = *req.Language
	}

	if err := s.activities.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Publish puts the activity on the marketplace, overwriting the marketplace
// fields. Publishing an already-published activity just overwrites again.
func (s *ActivityService) Publish(ctx context.Context, id uuid.UUID, req models.PublishActivityRequest) (*models.Activity, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	a.IsPublished = true
	a.Price = 0
	if req.Price != nil {
		a.Price = *req.Price
	}
	a.PricingModel = models.PricingFree
	if req.PricingModel != nil {
		a.PricingModel = *req.PricingModel
	}
	a.AgeRange = normalizeAgeRange(req.AgeRange)
	a.TherapyGoals = orEmpty(req.TherapyGoals)
	a.DiagnosisTags = orEmpty(req.DiagnosisTags)
	a.Thumbnail = req.Thumbnail
	a.PreviewURL = req.PreviewURL
	if req.Description != nil {
		a.Description = req.Description
	}

	if err := s.activities.Publish(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ActivityService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.activities.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Message: "Activity not found"}
		}
		return err
	}
	return nil
}

// normalizeAgeRange enforces the both-or-neither rule: the range is stored
// only when both bounds are present and non-zero.
func normalizeAgeRange(in *models.AgeRangeInput) *models.AgeRange {
	if in == nil || in.Min == nil || in.Max == nil {
		return nil
	}
	if *in.Min == 0 || *in.Max == 0 {
		return nil
	}
	return &models.AgeRange{Min: *in.Min, Max: *in.Max}
}
