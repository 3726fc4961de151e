package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"theraplay-backend/internal/models"
)

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

// Every read joins the author so listings can embed the author summary.
// The tutors join is LEFT so non-tutor authors get a null rating.
const activitySelect = `
	SELECT a.id, a.title, a.type, a.language, a.description, a.elements,
	       a.author_id, a.is_published, a.tags, a.created_at, a.updated_at,
	       a.price, a.pricing_model, a.purchase_count, a.rating, a.review_count,
	       a.thumbnail, a.preview_url, a.age_min, a.age_max,
	       a.therapy_goals, a.diagnosis_tags,
	       u.name, u.region, u.avatar, t.rating
	FROM activities a
	JOIN users u ON u.id = a.author_id
	LEFT JOIN tutors t ON t.id = a.author_id`

func (r *ActivityRepo) Create(ctx context.Context, a *models.Activity) error {
	a.ID = uuid.New()
	if a.Elements == nil {
		a.Elements = json.RawMessage("[]")
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO activities (id, title, type, language, description, elements,
		                        author_id, is_published, tags, price, pricing_model,
		                        therapy_goals, diagnosis_tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		a.ID, a.Title, a.Type, a.Language, a.Description, a.Elements,
		a.AuthorID, a.IsPublished, a.Tags, a.Price, a.PricingModel,
		a.TherapyGoals, a.DiagnosisTags,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	return scanActivity(r.pool.QueryRow(ctx, activitySelect+` WHERE a.id = $1`, id))
}

func (r *ActivityRepo) List(ctx context.Context, f models.ActivityFilter) ([]*models.Activity, error) {
	query := activitySelect
	conds := []string{}
	args := []any{}

	if f.AuthorID != nil {
		args = append(args, *f.AuthorID)
		conds = append(conds, fmt.Sprintf("a.author_id = $%d", len(args)))
	}
	if f.IsPublished != nil {
		args = append(args, *f.IsPublished)
		conds = append(conds, fmt.Sprintf("a.is_published = $%d", len(args)))
	}
	if f.Language != "" {
		args = append(args, f.Language)
		conds = append(conds, fmt.Sprintf("a.language = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("a.type = $%d", len(args)))
	}

	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY a.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

// Marketplace lists published activities ordered by popularity: purchase
// count, then rating, with creation order as the stable tie-break.
func (r *ActivityRepo) Marketplace(ctx context.Context, f models.MarketplaceFilter) ([]*models.Activity, error) {
	query := activitySelect + " WHERE a.is_published = TRUE"
	args := []any{}

	if f.Region != "" && f.Region != "all" {
		args = append(args, f.Region)
		query += fmt.Sprintf(" AND u.region = $%d", len(args))
	}
	if f.Language != "" {
		args = append(args, f.Language)
		query += fmt.Sprintf(" AND a.language = $%d", len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		query += fmt.Sprintf(" AND a.type = $%d", len(args))
	}
	switch f.Price {
	case models.PricingFree:
		query += " AND a.pricing_model = 'free'"
	case models.PricingPaid:
		query += " AND a.pricing_model IN ('paid', 'institutional')"
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND (a.title ILIKE $%d OR a.description ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY a.purchase_count DESC, a.rating DESC, a.created_at ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list marketplace activities: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

// Update writes the authoring fields and bumps updated_at.
func (r *ActivityRepo) Update(ctx context.Context, a *models.Activity) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE activities
		SET title = $1, description = $2, elements = $3, tags = $4, language = $5,
		    updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`,
		a.Title, a.Description, a.Elements, a.Tags, a.Language, a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}

// Publish overwrites the marketplace fields and flips is_published on.
// Re-publishing simply overwrites them again.
func (r *ActivityRepo) Publish(ctx context.Context, a *models.Activity) error {
	var ageMin, ageMax *int
	if a.AgeRange != nil {
		ageMin, ageMax = &a.AgeRange.Min, &a.AgeRange.Max
	}
	err := r.pool.QueryRow(ctx, `
		UPDATE activities
		SET is_published = TRUE, price = $1, pricing_model = $2,
		    age_min = $3, age_max = $4, therapy_goals = $5, diagnosis_tags = $6,
		    thumbnail = $7, preview_url = $8, description = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at`,
		a.Price, a.PricingModel, ageMin, ageMax, a.TherapyGoals, a.DiagnosisTags,
		a.Thumbnail, a.PreviewURL, a.Description, a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}
	a.IsPublished = true
	return nil
}

// Delete removes the activity and all its purchases and reviews in one
// transaction. Returns pgx.ErrNoRows when the activity does not exist.
func (r *ActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE activity_id = $1`, id); err != nil {
		return fmt.Errorf("delete activity reviews: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM purchases WHERE activity_id = $1`, id); err != nil {
		return fmt.Errorf("delete activity purchases: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func scanActivity(row pgx.Row) (*models.Activity, error) {
	a := &models.Activity{}
	var (
		ageMin, ageMax *int
		authorName     string
		authorRegion   *string
		authorAvatar   *string
		authorRating   *float64
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.Type, &a.Language, &a.Description, &a.Elements,
		&a.AuthorID, &a.IsPublished, &a.Tags, &a.CreatedAt, &a.UpdatedAt,
		&a.Price, &a.PricingModel, &a.PurchaseCount, &a.Rating, &a.ReviewCount,
		&a.Thumbnail, &a.PreviewURL, &ageMin, &ageMax,
		&a.TherapyGoals, &a.DiagnosisTags,
		&authorName, &authorRegion, &authorAvatar, &authorRating,
	)
	if err != nil {
		return nil, err
	}
	if ageMin != nil && ageMax != nil {
		a.AgeRange = &models.AgeRange{Min: *ageMin, Max: *ageMax}
	}
	a.Author = &models.AuthorSummary{
		ID:     a.AuthorID,
		Name:   authorName,
		Region: authorRegion,
		Avatar: authorAvatar,
		Rating: authorRating,
	}
	normalizeActivity(a)
	return a, nil
}

func scanActivities(rows pgx.Rows) ([]*models.Activity, error) {
	activities := make([]*models.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// normalizeActivity keeps list fields marshaling as [] rather than null.
func normalizeActivity(a *models.Activity) {
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.TherapyGoals == nil {
		a.TherapyGoals = []string{}
	}
	if a.DiagnosisTags == nil {
		a.DiagnosisTags = []string{}
	}
	if a.Elements == nil {
		a.Elements = json.RawMessage("[]")
	}
}
