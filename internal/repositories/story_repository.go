package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bridgegen/internal/database"
	"bridgegen/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// storyRepository implements StoryRepository
type storyRepository struct {
	*BaseRepository
}

// NewStoryRepository creates a new instance of StoryRepository
func NewStoryRepository(db *database.Manager, logger *zap.Logger) StoryRepository {
	return &storyRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const storyColumns = `
	id, caption, description, tags, event_title, category, privacy,
	allowed_groups, scheduled_at, media_paths, likes_count,
	comments_count, shares_count, created_at, updated_at, is_deleted,
	deleted_at, author_id, flagged, flag_reason, flagged_at`

// ===============================
// BASIC CRUD OPERATIONS
// ===============================

// Create inserts a new story
func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	query := `
		INSERT INTO stories (
			caption, description, tags, event_title, category, privacy,
			allowed_groups, scheduled_at, media_paths, author_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		story.Caption, story.Description, pq.Array(story.Tags),
		story.EventTitle, story.Category, story.Privacy,
		pq.Array(story.AllowedGroups), story.ScheduledAt,
		pq.Array(story.MediaPaths), story.AuthorID,
	).Scan(&story.ID, &story.CreatedAt, &story.UpdatedAt)

	if err != nil {
		r.GetLogger().Error("Failed to create story",
			zap.Error(err),
			zap.String("category", story.Category),
		)
		return fmt.Errorf("failed to create story: %w", err)
	}

	r.GetLogger().Info("Story created",
		zap.Int64("story_id", story.ID),
		zap.String("category", story.Category),
	)
	return nil
}

// GetByID retrieves a story by ID, including soft-deleted rows so the
// service layer can decide on restore eligibility.
func (r *storyRepository) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	query := fmt.Sprintf(`SELECT %s FROM stories WHERE id = $1`, storyColumns)

	story, err := r.scanStory(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return story, nil
}

// List retrieves non-deleted stories with filtering, sorting and pagination
func (r *storyRepository) List(ctx context.Context, filter *StoryFilter) (*models.PaginatedResponse[models.Story], error) {
	where := []string{"is_deleted = false"}
	args := []interface{}{}
	argPos := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf(
			"(caption ILIKE $%d OR description ILIKE $%d OR $%d = ANY(tags))",
			argPos, argPos, argPos+1,
		))
		args = append(args, "%"+filter.Search+"%", filter.Search)
		argPos += 2
	}
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", argPos))
		args = append(args, filter.Category)
		argPos++
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM stories WHERE %s", whereClause)
	if err := r.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count stories: %w", err)
	}

	orderBy := "created_at DESC"
	switch filter.SortBy {
	case "popular":
		orderBy = "likes_count DESC, created_at DESC"
	case "comments":
		orderBy = "comments_count DESC, created_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM stories
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		storyColumns, whereClause, orderBy, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	stories := make([]models.Story, 0)
	for rows.Next() {
		story, err := r.scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, *story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stories: %w", err)
	}

	return &models.PaginatedResponse[models.Story]{
		Data:       stories,
		Pagination: buildPaginationMeta(total, filter.Limit, filter.Offset),
	}, nil
}

// Update persists editable story fields
func (r *storyRepository) Update(ctx context.Context, story *models.Story) error {
	query := `
		UPDATE stories SET
			caption = $2, description = $3, tags = $4, event_title = $5,
			category = $6, privacy = $7, allowed_groups = $8,
			media_paths = $9, updated_at = NOW()
		WHERE id = $1 AND is_deleted = false
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		story.ID, story.Caption, story.Description, pq.Array(story.Tags),
		story.EventTitle, story.Category, story.Privacy,
		pq.Array(story.AllowedGroups), pq.Array(story.MediaPaths),
	).Scan(&story.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("story not found or deleted")
		}
		r.GetLogger().Error("Failed to update story",
			zap.Error(err),
			zap.Int64("story_id", story.ID),
		)
		return fmt.Errorf("failed to update story: %w", err)
	}
	return nil
}

// ===============================
// SOFT DELETE LIFECYCLE
// ===============================

// SoftDelete marks a story deleted without removing the row
func (r *storyRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE stories SET is_deleted = true, deleted_at = NOW()
		WHERE id = $1 AND is_deleted = false`
	return r.mustAffect(ctx, query, "story", id)
}

// Restore clears the deletion markers on a soft-deleted story
func (r *storyRepository) Restore(ctx context.Context, id int64) error {
	query := `
		UPDATE stories SET is_deleted = false, deleted_at = NULL
		WHERE id = $1 AND is_deleted = true`
	return r.mustAffect(ctx, query, "story", id)
}

// ListDeleted retrieves a user's soft-deleted stories, most recent first
func (r *storyRepository) ListDeleted(ctx context.Context, authorID int64) ([]*models.Story, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stories
		WHERE is_deleted = true AND author_id = $1
		ORDER BY deleted_at DESC`, storyColumns)

	rows, err := r.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted stories: %w", err)
	}
	defer rows.Close()

	return r.collectStories(rows)
}

// PurgeExpired hard-deletes soft-deleted stories past the restore window
func (r *storyRepository) PurgeExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.ExecContext(ctx,
		`DELETE FROM stories WHERE is_deleted = true AND deleted_at < $1`,
		olderThan,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stories: %w", err)
	}

	purged, _ := result.RowsAffected()
	if purged > 0 {
		r.GetLogger().Info("Purged expired stories", zap.Int64("count", purged))
	}
	return purged, nil
}

// ===============================
// ENGAGEMENT COUNTERS
// ===============================

// IncrementLikes adjusts the like counter and returns the new value.
// The GREATEST guard keeps the counter from going negative on unlike.
func (r *storyRepository) IncrementLikes(ctx context.Context, id int64, delta int) (int, error) {
	query := `
		UPDATE stories SET likes_count = GREATEST(likes_count + $2, 0)
		WHERE id = $1 AND is_deleted = false
		RETURNING likes_count`

	var count int
	err := r.QueryRowContext(ctx, query, id, delta).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("story not found or deleted")
		}
		return 0, fmt.Errorf("failed to update likes: %w", err)
	}
	return count, nil
}

// IncrementShares bumps the share counter and returns the new value
func (r *storyRepository) IncrementShares(ctx context.Context, id int64) (int, error) {
	query := `
		UPDATE stories SET shares_count = shares_count + 1
		WHERE id = $1 AND is_deleted = false
		RETURNING shares_count`

	var count int
	err := r.QueryRowContext(ctx, query, id).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("story not found or deleted")
		}
		return 0, fmt.Errorf("failed to update shares: %w", err)
	}
	return count, nil
}

// IncrementComments adjusts the denormalized comment counter
func (r *storyRepository) IncrementComments(ctx context.Context, id int64, delta int) error {
	query := `
		UPDATE stories SET comments_count = GREATEST(comments_count + $2, 0)
		WHERE id = $1`
	_, err := r.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to update comment count: %w", err)
	}
	return nil
}

// ===============================
// MODERATION
// ===============================

// Flag marks a story for moderator review
func (r *storyRepository) Flag(ctx context.Context, id int64, reason string) error {
	query := `
		UPDATE stories SET flagged = true, flag_reason = $2, flagged_at = NOW()
		WHERE id = $1 AND is_deleted = false`
	result, err := r.ExecContext(ctx, query, id, reason)
	if err != nil {
		return fmt.Errorf("failed to flag story: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("story not found or deleted")
	}
	return nil
}

// Unflag clears moderation markers
func (r *storyRepository) Unflag(ctx context.Context, id int64) error {
	query := `
		UPDATE stories SET flagged = false, flag_reason = NULL, flagged_at = NULL
		WHERE id = $1`
	_, err := r.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to unflag story: %w", err)
	}
	return nil
}

// ListFlagged retrieves flagged, non-deleted stories for review
func (r *storyRepository) ListFlagged(ctx context.Context) ([]*models.Story, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stories
		WHERE flagged = true AND is_deleted = false
		ORDER BY flagged_at DESC`, storyColumns)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list flagged stories: %w", err)
	}
	defer rows.Close()

	return r.collectStories(rows)
}

// ===============================
// SCAN HELPERS
// ===============================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *storyRepository) scanStory(row rowScanner) (*models.Story, error) {
	var story models.Story
	var tags, allowedGroups, mediaPaths pq.StringArray

	err := row.Scan(
		&story.ID, &story.Caption, &story.Description, &tags,
		&story.EventTitle, &story.Category, &story.Privacy,
		&allowedGroups, &story.ScheduledAt, &mediaPaths,
		&story.LikesCount, &story.CommentsCount, &story.SharesCount,
		&story.CreatedAt, &story.UpdatedAt, &story.IsDeleted,
		&story.DeletedAt, &story.AuthorID, &story.Flagged,
		&story.FlagReason, &story.FlaggedAt,
	)
	if err != nil {
		return nil, err
	}

	story.Tags = tags
	story.AllowedGroups = allowedGroups
	story.MediaPaths = mediaPaths
	return &story, nil
}

func (r *storyRepository) collectStories(rows *sql.Rows) ([]*models.Story, error) {
	stories := make([]*models.Story, 0)
	for rows.Next() {
		story, err := r.scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stories: %w", err)
	}
	return stories, nil
}

// mustAffect runs an update that must touch exactly one row
func (r *BaseRepository) mustAffect(ctx context.Context, query, entity string, args ...interface{}) error {
	result, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", entity, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%s not found", entity)
	}
	return nil
}

// buildPaginationMeta derives page metadata from totals and offsets
func buildPaginationMeta(total int64, limit, offset int) models.PaginationMeta {
	if limit <= 0 {
		limit = 20
	}
	currentPage := offset/limit + 1
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return models.PaginationMeta{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNext:      currentPage < totalPages,
		HasPrev:      currentPage > 1,
	}
}
