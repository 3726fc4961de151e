package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"theraplay-backend/internal/models"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

// Create inserts the review and recomputes the activity's rating aggregate
// from the full review set in the same transaction. The aggregate update
// affects zero rows when the activity no longer exists; the review is kept
// regardless.
func (r *ReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin review tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rv.ID = uuid.New()
	err = tx.QueryRow(ctx, `
		INSERT INTO reviews (id, activity_id, user_id, user_name, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		rv.ID, rv.ActivityID, rv.UserID, rv.UserName, rv.Rating, rv.Comment,
	).Scan(&rv.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT rating FROM reviews WHERE activity_id = $1`, rv.ActivityID)
	if err != nil {
		return fmt.Errorf("load activity ratings: %w", err)
	}
	ratings := make([]int, 0)
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			rows.Close()
			return fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load activity ratings: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE activities SET rating = $1, review_count = $2 WHERE id = $3`,
		models.MeanRating(ratings), len(ratings), rv.ActivityID,
	)
	if err != nil {
		return fmt.Errorf("update rating aggregate: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ReviewRepo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*models.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, activity_id, user_id, user_name, rating, comment, created_at
		FROM reviews
		WHERE activity_id = $1
		ORDER BY created_at DESC`, activityID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*models.Review, 0)
	for rows.Next() {
		rv := &models.Review{}
		if err := rows.Scan(&rv.ID, &rv.ActivityID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
