package services

import (
	"context"
	"errors"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"theraplay-backend/internal/models"
	"theraplay-backend/internal/repository"
)

type AuthUserStore interface {
	CreateWithProfile(ctx context.Context, user *models.User, tutor *models.TutorProfile, family *models.FamilyProfile) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthService struct {
	users    AuthUserStore
	hasher   CredentialHasher
	profiles *ProfileService
}

func NewAuthService(users AuthUserStore, hasher CredentialHasher, profiles *ProfileService) *AuthService {
	return &AuthService{users: users, hasher: hasher, profiles: profiles}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Signup creates the user and its role-specific profile atomically and
// returns the composed view. Duplicate email is a conflict; the unique index
// on users.email backs the pre-check under concurrency.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.ProfileView, error) {
	fieldErrors := make(map[string]string)
	if req.Email == "" {
		fieldErrors["email"] = "Email is required"
	} else if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if req.Password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if req.Role == "" {
		fieldErrors["role"] = "Role is required"
	} else if req.Role != models.RoleTutor && req.Role != models.RoleFamily {
		fieldErrors["role"] = "Role must be 'tutor' or 'family'"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, &ConflictError{Message: "Email already registered"}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		Avatar:       req.Avatar,
	}

	var tutor *models.TutorProfile
	var family *models.FamilyProfile
	if req.Role == models.RoleTutor {
		user.Region = req.Region
		tutor = &models.TutorProfile{
			Specialization: orEmpty(req.Specialization),
			Experience:     req.Experience,
			Qualifications: orEmpty(req.Qualifications),
			Bio:            req.Bio,
		}
	} else {
		family = &models.FamilyProfile{
			ChildName:          req.ChildName,
			ChildAge:           req.ChildAge,
			FavoriteActivities: []uuid.UUID{},
		}
	}

	if err := s.users.CreateWithProfile(ctx, user, tutor, family); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, &ConflictError{Message: "Email already registered"}
		}
		return nil, err
	}

	view := &models.ProfileView{User: *user}
	view.TutorProfile = tutor
	view.FamilyProfile = family
	return view, nil
}

// Login deliberately returns the same error for an unknown email and a wrong
// password.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.ProfileView, error) {
	fieldErrors := make(map[string]string)
	if req.Email == "" {
		fieldErrors["email"] = "Email is required"
	}
	if req.Password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid credentials"}
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, &UnauthorizedError{Message: "Invalid credentials"}
	}

	user, err = s.users.TouchLastLogin(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return s.profiles.composeUser(ctx, user)
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
