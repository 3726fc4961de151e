package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"theraplay-backend/internal/models"
)

type PurchaseRepo struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepo(pool *pgxpool.Pool) *PurchaseRepo {
	return &PurchaseRepo{pool: pool}
}

// Create snapshots the activity price, inserts the purchase and increments
// the activity's purchase counter as one transaction. The price read doubles
// as the existence check (pgx.ErrNoRows when the activity is gone). The
// unique index on (user_id, activity_id) serializes concurrent attempts for
// the same pair; the violation is returned unwrapped enough for errors.As.
func (r *PurchaseRepo) Create(ctx context.Context, p *models.Purchase) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin purchase tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`SELECT price FROM activities WHERE id = $1`, p.ActivityID,
	).Scan(&p.Price); err != nil {
		return err
	}

	p.ID = uuid.New()
	err = tx.QueryRow(ctx, `
		INSERT INTO purchases (id, user_id, activity_id, price)
		VALUES ($1, $2, $3, $4)
		RETURNING purchased_at`,
		p.ID, p.UserID, p.ActivityID, p.Price,
	).Scan(&p.PurchasedAt)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE activities SET purchase_count = purchase_count + 1 WHERE id = $1`,
		p.ActivityID,
	)
	if err != nil {
		return fmt.Errorf("increment purchase count: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PurchaseRepo) Exists(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM purchases WHERE user_id = $1 AND activity_id = $2)`,
		userID, activityID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return exists, nil
}

func (r *PurchaseRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Purchase, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, activity_id, price, purchased_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY purchased_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]*models.Purchase, 0)
	for rows.Next() {
		p := &models.Purchase{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.ActivityID, &p.Price, &p.PurchasedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
