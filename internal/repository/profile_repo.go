package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"theraplay-backend/internal/models"
)

// ProfileRepo handles the role-specific side tables (tutors, family_users),
// both keyed 1:1 by users.id.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) GetTutor(ctx context.Context, id uuid.UUID) (*models.TutorProfile, error) {
	t := &models.TutorProfile{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, specialization, experience, qualifications, bio,
		       rating, total_students, total_activities, verified
		FROM tutors WHERE id = $1`, id,
	).Scan(
		&t.ID, &t.Specialization, &t.Experience, &t.Qualifications, &t.Bio,
		&t.Rating, &t.TotalStudents, &t.TotalActivities, &t.Verified,
	)
	if err != nil {
		return nil, err
	}
	if t.Specialization == nil {
		t.Specialization = []string{}
	}
	if t.Qualifications == nil {
		t.Qualifications = []string{}
	}
	return t, nil
}

func (r *ProfileRepo) GetFamily(ctx context.Context, id uuid.UUID) (*models.FamilyProfile, error) {
	f := &models.FamilyProfile{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, child_name, child_age, selected_tutor_id, favorite_activities
		FROM family_users WHERE id = $1`, id,
	).Scan(&f.ID, &f.ChildName, &f.ChildAge, &f.SelectedTutorID, &f.FavoriteActivities)
	if err != nil {
		return nil, err
	}
	if f.FavoriteActivities == nil {
		f.FavoriteActivities = []uuid.UUID{}
	}
	return f, nil
}

func (r *ProfileRepo) UpdateTutor(ctx context.Context, t *models.TutorProfile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tutors
		SET specialization = $1, experience = $2, qualifications = $3, bio = $4
		WHERE id = $5`,
		t.Specialization, t.Experience, t.Qualifications, t.Bio, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update tutor profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) UpdateFamily(ctx context.Context, f *models.FamilyProfile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE family_users
		SET child_name = $1, child_age = $2, selected_tutor_id = $3, favorite_activities = $4
		WHERE id = $5`,
		f.ChildName, f.ChildAge, f.SelectedTutorID, f.FavoriteActivities, f.ID,
	)
	if err != nil {
		return fmt.Errorf("update family profile: %w", err)
	}
	return nil
}
