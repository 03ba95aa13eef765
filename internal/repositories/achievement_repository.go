package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"bridgegen/internal/database"
	"bridgegen/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// achievementRepository implements AchievementRepository
type achievementRepository struct {
	*BaseRepository
}

// NewAchievementRepository creates a new instance of AchievementRepository
func NewAchievementRepository(db *database.Manager, logger *zap.Logger) AchievementRepository {
	return &achievementRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts an achievement rule and its badge links in one transaction
func (r *achievementRepository) Create(ctx context.Context, achievement *models.Achievement, badgeIDs []int64) error {
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO achievements (title, description, rule_type, rule_value, active)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			achievement.Title, achievement.Description,
			achievement.RuleType, achievement.RuleValue, achievement.Active,
		).Scan(&achievement.ID, &achievement.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create achievement: %w", err)
		}

		return insertBadgeLinks(ctx, tx, achievement.ID, badgeIDs)
	})
	if err != nil {
		return err
	}

	achievement.BadgeIDs = badgeIDs
	r.GetLogger().Info("Achievement created",
		zap.Int64("achievement_id", achievement.ID),
		zap.String("rule_type", string(achievement.RuleType)),
		zap.Int("rule_value", achievement.RuleValue),
	)
	return nil
}

// GetByID retrieves an achievement with its linked badge IDs
func (r *achievementRepository) GetByID(ctx context.Context, id int64) (*models.Achievement, error) {
	query := `
		SELECT id, title, description, rule_type, rule_value, active, created_at
		FROM achievements
		WHERE id = $1`

	var achievement models.Achievement
	err := r.QueryRowContext(ctx, query, id).Scan(
		&achievement.ID, &achievement.Title, &achievement.Description,
		&achievement.RuleType, &achievement.RuleValue,
		&achievement.Active, &achievement.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}

	if err := r.loadBadgeLinks(ctx, map[int64]*models.Achievement{id: &achievement}); err != nil {
		return nil, err
	}
	return &achievement, nil
}

// ListActive retrieves the achievements the award evaluator considers
func (r *achievementRepository) ListActive(ctx context.Context) ([]*models.Achievement, error) {
	return r.list(ctx, "WHERE active = true")
}

// ListAll retrieves every achievement for admin management
func (r *achievementRepository) ListAll(ctx context.Context) ([]*models.Achievement, error) {
	return r.list(ctx, "")
}

func (r *achievementRepository) list(ctx context.Context, where string) ([]*models.Achievement, error) {
	query := fmt.Sprintf(`
		SELECT id, title, description, rule_type, rule_value, active, created_at
		FROM achievements
		%s
		ORDER BY rule_type ASC, rule_value ASC`, where)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	achievements := make([]*models.Achievement, 0)
	byID := make(map[int64]*models.Achievement)
	for rows.Next() {
		var a models.Achievement
		err := rows.Scan(
			&a.ID, &a.Title, &a.Description, &a.RuleType,
			&a.RuleValue, &a.Active, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, &a)
		byID[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate achievements: %w", err)
	}

	if err := r.loadBadgeLinks(ctx, byID); err != nil {
		return nil, err
	}
	return achievements, nil
}

// Update persists rule changes and replaces the badge links
func (r *achievementRepository) Update(ctx context.Context, achievement *models.Achievement, badgeIDs []int64) error {
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE achievements SET
				title = $2, description = $3, rule_type = $4,
				rule_value = $5, active = $6
			WHERE id = $1`,
			achievement.ID, achievement.Title, achievement.Description,
			achievement.RuleType, achievement.RuleValue, achievement.Active,
		)
		if err != nil {
			return fmt.Errorf("failed to update achievement: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("achievement not found")
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM achievement_badges WHERE achievement_id = $1`,
			achievement.ID,
		); err != nil {
			return fmt.Errorf("failed to clear badge links: %w", err)
		}
		return insertBadgeLinks(ctx, tx, achievement.ID, badgeIDs)
	})
	if err != nil {
		return err
	}

	achievement.BadgeIDs = badgeIDs
	return nil
}

// Delete removes an achievement. Badge links and earned rows cascade.
func (r *achievementRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, `DELETE FROM achievements WHERE id = $1`, "achievement", id)
}

// ===============================
// BADGE LINK HELPERS
// ===============================

func insertBadgeLinks(ctx context.Context, tx *sql.Tx, achievementID int64, badgeIDs []int64) error {
	for _, badgeID := range badgeIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO achievement_badges (achievement_id, badge_id)
			VALUES ($1, $2)
			ON CONFLICT (achievement_id, badge_id) DO NOTHING`,
			achievementID, badgeID,
		); err != nil {
			return fmt.Errorf("failed to link badge %d: %w", badgeID, err)
		}
	}
	return nil
}

// loadBadgeLinks populates BadgeIDs for the given achievements in one query
func (r *achievementRepository) loadBadgeLinks(ctx context.Context, byID map[int64]*models.Achievement) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := r.QueryContext(ctx, `
		SELECT achievement_id, badge_id
		FROM achievement_badges
		WHERE achievement_id = ANY($1)
		ORDER BY badge_id ASC`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load badge links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var achievementID, badgeID int64
		if err := rows.Scan(&achievementID, &badgeID); err != nil {
			return fmt.Errorf("failed to scan badge link: %w", err)
		}
		if a, ok := byID[achievementID]; ok {
			a.BadgeIDs = append(a.BadgeIDs, badgeID)
		}
	}
	return rows.Err()
}
