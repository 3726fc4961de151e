package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"theraplay-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, password_hash, name, role, region, avatar, created_at, last_login_at`

// CreateWithProfile inserts the user and its role-specific record in one
// transaction. Exactly one of tutor/family must be non-nil; both rows share
// the user id.
func (r *UserRepo) CreateWithProfile(ctx context.Context, user *models.User, tutor *models.TutorProfile, family *models.FamilyProfile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin signup tx: %w", err)
	}
	defer tx.Rollback(ctx)

	user.ID = uuid.New()
	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, region, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.Region, user.Avatar,
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	switch {
	case tutor != nil:
		tutor.ID = user.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO tutors (id, specialization, experience, qualifications, bio)
			VALUES ($1, $2, $3, $4, $5)`,
			tutor.ID, tutor.Specialization, tutor.Experience, tutor.Qualifications, tutor.Bio,
		)
		if err != nil {
			return fmt.Errorf("insert tutor profile: %w", err)
		}
	case family != nil:
		family.ID = user.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO family_users (id, child_name, child_age)
			VALUES ($1, $2, $3)`,
			family.ID, family.ChildName, family.ChildAge,
		)
		if err != nil {
			return fmt.Errorf("insert family profile: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// TouchLastLogin stamps last_login_at and returns the updated row in the
// same statement, so the response is produced from the write itself.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		UPDATE users SET last_login_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns, id))
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $1, avatar = $2, region = $3 WHERE id = $4`,
		user.Name, user.Avatar, user.Region, user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListTutors returns tutor users, optionally restricted to a region.
// Region "all" or "" means no restriction.
func (r *UserRepo) ListTutors(ctx context.Context, region string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = 'tutor'`
	args := []any{}
	if region != "" && region != "all" {
		args = append(args, region)
		query += ` AND region = $1`
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *UserRepo) scanOne(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role,
		&user.Region, &user.Avatar, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) scanAll(rows pgx.Rows) ([]*models.User, error) {
	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role,
			&user.Region, &user.Avatar, &user.CreatedAt, &user.LastLoginAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
