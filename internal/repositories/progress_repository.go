package repositories

import (
	"context"
	"fmt"
	"time"

	"bridgegen/internal/database"
	"bridgegen/internal/models"

	"go.uber.org/zap"
)

// progressRepository implements ProgressRepository
type progressRepository struct {
	*BaseRepository
}

// NewProgressRepository creates a new instance of ProgressRepository
func NewProgressRepository(db *database.Manager, logger *zap.Logger) ProgressRepository {
	return &progressRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// ===============================
// USER STATISTICS
// ===============================

// GetUserStats computes the aggregate counters achievement rules are
// evaluated against. Soft-deleted stories do not count.
func (r *progressRepository) GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM stories
			 WHERE author_id = $1 AND is_deleted = false) AS stories_created,
			(SELECT COUNT(*) FROM comments
			 WHERE author_id = $1) AS comments_written,
			(SELECT COALESCE(SUM(likes_count), 0) FROM stories
			 WHERE author_id = $1 AND is_deleted = false) AS likes_received,
			(SELECT COALESCE(SUM(shares_count), 0) FROM stories
			 WHERE author_id = $1 AND is_deleted = false) AS shares_received`

	var stats models.UserStats
	err := r.QueryRowContext(ctx, query, userID).Scan(
		&stats.StoriesCreated, &stats.CommentsWritten,
		&stats.LikesReceived, &stats.SharesReceived,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	streak, err := r.activeStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.DaysActive = streak

	return &stats, nil
}

// activeStreak counts consecutive activity days ending today (or
// yesterday, so a streak survives until the day is over).
func (r *progressRepository) activeStreak(ctx context.Context, userID int64) (int, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT activity_date
		FROM user_activity_dates
		WHERE user_id = $1
		ORDER BY activity_date DESC
		LIMIT 366`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load activity dates: %w", err)
	}
	defer rows.Close()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	expected := today

	streak := 0
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return 0, fmt.Errorf("failed to scan activity date: %w", err)
		}
		day = day.UTC().Truncate(24 * time.Hour)

		if streak == 0 && day.Equal(today.AddDate(0, 0, -1)) {
			expected = day
		}
		if !day.Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate activity dates: %w", err)
	}
	return streak, nil
}

// RecordActivityDate marks a day as active for the streak counter.
// Duplicate days are absorbed by the primary key.
func (r *progressRepository) RecordActivityDate(ctx context.Context, userID int64, day time.Time) error {
	_, err := r.ExecContext(ctx, `
		INSERT INTO user_activity_dates (user_id, activity_date)
		VALUES ($1, $2)
		ON CONFLICT (user_id, activity_date) DO NOTHING`,
		userID, day.UTC().Truncate(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("failed to record activity date: %w", err)
	}
	return nil
}

// ===============================
// AWARDS
// ===============================

// HasAchievement reports whether the user already earned the achievement
func (r *progressRepository) HasAchievement(ctx context.Context, userID, achievementID int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_achievements
			WHERE user_id = $1 AND achievement_id = $2
		)`, userID, achievementID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check achievement: %w", err)
	}
	return exists, nil
}

// AwardAchievement records the earned achievement. The unique
// constraint absorbs concurrent duplicate awards; returns false when
// the row already existed.
func (r *progressRepository) AwardAchievement(ctx context.Context, userID, achievementID int64) (bool, error) {
	result, err := r.ExecContext(ctx, `
		INSERT INTO user_achievements (user_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		userID, achievementID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to award achievement: %w", err)
	}

	inserted, _ := result.RowsAffected()
	if inserted > 0 {
		r.GetLogger().Info("Achievement awarded",
			zap.Int64("user_id", userID),
			zap.Int64("achievement_id", achievementID),
		)
	}
	return inserted > 0, nil
}

// AwardBadge records the earned badge; returns false when the user
// already held it.
func (r *progressRepository) AwardBadge(ctx context.Context, userID, badgeID int64) (bool, error) {
	result, err := r.ExecContext(ctx, `
		INSERT INTO user_badges (user_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, badge_id) DO NOTHING`,
		userID, badgeID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to award badge: %w", err)
	}

	inserted, _ := result.RowsAffected()
	if inserted > 0 {
		r.GetLogger().Info("Badge awarded",
			zap.Int64("user_id", userID),
			zap.Int64("badge_id", badgeID),
		)
	}
	return inserted > 0, nil
}

// ===============================
// LISTINGS
// ===============================

// ListUserBadges retrieves a user's earned badges with badge details.
// Rarity sorting orders by how few users hold the badge.
func (r *progressRepository) ListUserBadges(ctx context.Context, userID int64, sortBy string) ([]*models.UserBadge, error) {
	orderBy := "ub.earned_at DESC"
	switch sortBy {
	case BadgeSortRarity:
		orderBy = "holder_count ASC, ub.earned_at DESC"
	case BadgeSortAlphabetical:
		orderBy = "b.title ASC"
	}

	query := fmt.Sprintf(`
		SELECT
			ub.id, ub.user_id, ub.badge_id, ub.earned_at,
			b.title, b.description, b.icon_url, b.sort_order, b.created_at,
			COALESCE(hc.holder_count, 0) AS holder_count
		FROM user_badges ub
		INNER JOIN badges b ON ub.badge_id = b.id
		LEFT JOIN (
			SELECT badge_id, COUNT(*) AS holder_count
			FROM user_badges
			GROUP BY badge_id
		) hc ON ub.badge_id = hc.badge_id
		WHERE ub.user_id = $1
		ORDER BY %s`, orderBy)

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user badges: %w", err)
	}
	defer rows.Close()

	earned := make([]*models.UserBadge, 0)
	for rows.Next() {
		var ub models.UserBadge
		var badge models.Badge
		var holderCount int64
		err := rows.Scan(
			&ub.ID, &ub.UserID, &ub.BadgeID, &ub.EarnedAt,
			&badge.Title, &badge.Description, &badge.IconURL,
			&badge.SortOrder, &badge.CreatedAt, &holderCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user badge: %w", err)
		}
		badge.ID = ub.BadgeID
		ub.Badge = &badge
		earned = append(earned, &ub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user badges: %w", err)
	}
	return earned, nil
}

// ListUserAchievements retrieves a user's earned achievements with
// rule details, most recent first.
func (r *progressRepository) ListUserAchievements(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	query := `
		SELECT
			ua.id, ua.user_id, ua.achievement_id, ua.earned_at,
			a.title, a.description, a.rule_type, a.rule_value, a.active, a.created_at
		FROM user_achievements ua
		INNER JOIN achievements a ON ua.achievement_id = a.id
		WHERE ua.user_id = $1
		ORDER BY ua.earned_at DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user achievements: %w", err)
	}
	defer rows.Close()

	earned := make([]*models.UserAchievement, 0)
	for rows.Next() {
		var ua models.UserAchievement
		var a models.Achievement
		err := rows.Scan(
			&ua.ID, &ua.UserID, &ua.AchievementID, &ua.EarnedAt,
			&a.Title, &a.Description, &a.RuleType, &a.RuleValue,
			&a.Active, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user achievement: %w", err)
		}
		a.ID = ua.AchievementID
		ua.Achievement = &a
		earned = append(earned, &ua)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user achievements: %w", err)
	}
	return earned, nil
}

// BadgeHolderCounts returns how many users hold each badge, keyed by
// badge ID. Badges nobody holds are absent from the map.
func (r *progressRepository) BadgeHolderCounts(ctx context.Context) (map[int64]int64, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT badge_id, COUNT(*)
		FROM user_badges
		GROUP BY badge_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count badge holders: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int64)
	for rows.Next() {
		var badgeID, count int64
		if err := rows.Scan(&badgeID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan holder count: %w", err)
		}
		counts[badgeID] = count
	}
	return counts, rows.Err()
}
