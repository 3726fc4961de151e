package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleTutor  = "tutor"
	RoleFamily = "family"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Region       *string    `json:"region"`
	Avatar       *string    `json:"avatar"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
}

// TutorProfile is the role-specific record for users with role "tutor",
// keyed by the same id as the user row.
type TutorProfile struct {
	ID              uuid.UUID `json:"-"`
	Specialization  []string  `json:"specialization"`
	Experience      *int      `json:"experience"`
	Qualifications  []string  `json:"qualifications"`
	Bio             *string   `json:"bio"`
	Rating          float64   `json:"rating"`
	TotalStudents   int       `json:"totalStudents"`
	TotalActivities int       `json:"totalActivities"`
	Verified        bool      `json:"verified"`
}

// FamilyProfile is the role-specific record for users with role "family".
type FamilyProfile struct {
	ID                 uuid.UUID   `json:"-"`
	ChildName          *string     `json:"childName"`
	ChildAge           *int        `json:"childAge"`
	SelectedTutorID    *uuid.UUID  `json:"selectedTutorId"`
	FavoriteActivities []uuid.UUID `json:"favoriteActivities"`
}

// ProfileView is the flat user + role-record object the API returns.
// A nil embedded profile pointer contributes no fields when marshaled,
// so exactly one role's fields appear alongside the user fields.
type ProfileView struct {
	User
	*TutorProfile
	*FamilyProfile
}

type SignupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Region   *string `json:"region"`
	Avatar   *string `json:"avatar"`

	// Tutor fields
	Specialization []string `json:"specialization"`
	Experience     *int     `json:"experience"`
	Qualifications []string `json:"qualifications"`
	Bio            *string  `json:"bio"`

	// Family fields
	ChildName *string `json:"childName"`
	ChildAge  *int    `json:"childAge"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest carries partial updates; nil means "leave untouched".
type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	Region *string `json:"region"`

	Specialization *[]string `json:"specialization"`
	Experience     *int      `json:"experience"`
	Qualifications *[]string `json:"qualifications"`
	Bio            *string   `json:"bio"`

	ChildName          *string      `json:"childName"`
	ChildAge           *int         `json:"childAge"`
	SelectedTutorID    *uuid.UUID   `json:"selectedTutorId"`
	FavoriteActivities *[]uuid.UUID `json:"favoriteActivities"`
}
