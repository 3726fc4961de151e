package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"theraplay-backend/internal/models"
)

type ProfileUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	ListTutors(ctx context.Context, region string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type ProfileStore interface {
	GetTutor(ctx context.Context, id uuid.UUID) (*models.TutorProfile, error)
	GetFamily(ctx context.Context, id uuid.UUID) (*models.FamilyProfile, error)
	UpdateTutor(ctx context.Context, t *models.TutorProfile) error
	UpdateFamily(ctx context.Context, f *models.FamilyProfile) error
}

// ProfileService composes a base user with its role-specific record into the
// flat view the API returns everywhere a user appears.
type ProfileService struct {
	users    ProfileUserStore
	profiles ProfileStore
}

func NewProfileService(users ProfileUserStore, profiles ProfileStore) *ProfileService {
	return &ProfileService{users: users, profiles: profiles}
}

func (s *ProfileService) Compose(ctx context.Context, userID uuid.UUID) (*models.ProfileView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}
	return s.composeUser(ctx, user)
}

func (s *ProfileService) ComposeAll(ctx context.Context) ([]*models.ProfileView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.composeUsers(ctx, users)
}

// ComposeTutors lists tutors, optionally filtered by region ("all" = no
// filter).
func (s *ProfileService) ComposeTutors(ctx context.Context, region string) ([]*models.ProfileView, error) {
	users, err := s.users.ListTutors(ctx, region)
	if err != nil {
		return nil, err
	}
	return s.composeUsers(ctx, users)
}

// ComposeTutor is Compose restricted to tutor users; a family id yields
// NotFound.
func (s *ProfileService) ComposeTutor(ctx context.Context, tutorID uuid.UUID) (*models.ProfileView, error) {
	user, err := s.users.GetByID(ctx, tutorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Tutor not found"}
		}
		return nil, err
	}
	if user.Role != models.RoleTutor {
		return nil, &NotFoundError{Message: "Tutor not found"}
	}
	return s.composeUser(ctx, user)
}

// UpdateUser applies a partial update to the user row and its role-specific
// record, then returns the recomposed view. Region only applies to tutors.
func (s *ProfileService) UpdateUser(ctx context.Context, userID uuid.UUID, req models.UpdateUserRequest) (*models.ProfileView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if req.Region != nil && user.Role == models.RoleTutor {
		user.Region = req.Region
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	switch user.Role {
	case models.RoleTutor:
		tutor, err := s.profiles.GetTutor(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				break
			}
			return nil, err
		}
		if req.Specialization != nil {
			tutor.Specialization = *req.Specialization
		}
		if req.Experience != nil {
			tutor.Experience = req.Experience
		}
		if req.Qualifications != nil {
			tutor.Qualifications = *req.Qualifications
		}
		if req.Bio != nil {
			tutor.Bio = req.Bio
		}
		if err := s.profiles.UpdateTutor(ctx, tutor); err != nil {
			return nil, err
		}
	case models.RoleFamily:
		family, err := s.profiles.GetFamily(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				break
			}
			return nil, err
		}
		if req.ChildName != nil {
			family.ChildName = req.ChildName
		}
		if req.ChildAge != nil {
			family.ChildAge = req.ChildAge
		}
		if req.SelectedTutorID != nil {
			family.SelectedTutorID = req.SelectedTutorID
		}
		if req.FavoriteActivities != nil {
			family.FavoriteActivities = *req.FavoriteActivities
		}
		if err := s.profiles.UpdateFamily(ctx, family); err != nil {
			return nil, err
		}
	}

	return s.composeUser(ctx, user)
}

// composeUser merges the role record into the view. A missing role record
// should not happen given signup creates both, but it is tolerated: the view
// then carries only the user fields.
func (s *ProfileService) composeUser(ctx context.Context, user *models.User) (*models.ProfileView, error) {
	view := &models.ProfileView{User: *user}
	switch user.Role {
	case models.RoleTutor:
		tutor, err := s.profiles.GetTutor(ctx, user.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		view.TutorProfile = tutor
	case models.RoleFamily:
		family, err := s.profiles.GetFamily(ctx, user.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		view.FamilyProfile = family
	}
	return view, nil
}

func (s *ProfileService) composeUsers(ctx context.Context, users []*models.User) ([]*models.ProfileView, error) {
	views := make([]*models.ProfileView, 0, len(users))
	for _, user := range users {
		view, err := s.composeUser(ctx, user)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
