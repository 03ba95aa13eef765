package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"bridgegen/internal/database"
	"bridgegen/internal/models"

	"go.uber.org/zap"
)

// badgeRepository implements BadgeRepository
type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a new instance of BadgeRepository
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts a new badge definition
func (r *badgeRepository) Create(ctx context.Context, badge *models.Badge) error {
	query := `
		INSERT INTO badges (title, description, icon_url, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.QueryRowContext(
		ctx, query,
		badge.Title, badge.Description, badge.IconURL, badge.SortOrder,
	).Scan(&badge.ID, &badge.CreatedAt)

	if err != nil {
		r.GetLogger().Error("Failed to create badge",
			zap.Error(err),
			zap.String("title", badge.Title),
		)
		return fmt.Errorf("failed to create badge: %w", err)
	}

	r.GetLogger().Info("Badge created",
		zap.Int64("badge_id", badge.ID),
		zap.String("title", badge.Title),
	)
	return nil
}

// GetByID retrieves a badge by ID
func (r *badgeRepository) GetByID(ctx context.Context, id int64) (*models.Badge, error) {
	query := `
		SELECT id, title, description, icon_url, sort_order, created_at
		FROM badges
		WHERE id = $1`

	var badge models.Badge
	err := r.QueryRowContext(ctx, query, id).Scan(
		&badge.ID, &badge.Title, &badge.Description,
		&badge.IconURL, &badge.SortOrder, &badge.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get badge: %w", err)
	}
	return &badge, nil
}

// List retrieves the full badge catalog in display order
func (r *badgeRepository) List(ctx context.Context) ([]*models.Badge, error) {
	query := `
		SELECT id, title, description, icon_url, sort_order, created_at
		FROM badges
		ORDER BY sort_order ASC, title ASC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	badges := make([]*models.Badge, 0)
	for rows.Next() {
		var badge models.Badge
		err := rows.Scan(
			&badge.ID, &badge.Title, &badge.Description,
			&badge.IconURL, &badge.SortOrder, &badge.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, &badge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate badges: %w", err)
	}
	return badges, nil
}

// Update persists badge definition changes
func (r *badgeRepository) Update(ctx context.Context, badge *models.Badge) error {
	query := `
		UPDATE badges SET title = $2, description = $3, icon_url = $4, sort_order = $5
		WHERE id = $1`
	return r.mustAffect(ctx, query, "badge",
		badge.ID, badge.Title, badge.Description, badge.IconURL, badge.SortOrder)
}

// Delete removes a badge definition. Earned rows and achievement links
// cascade at the schema level.
func (r *badgeRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, `DELETE FROM badges WHERE id = $1`, "badge", id)
}
