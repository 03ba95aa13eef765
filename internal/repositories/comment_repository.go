package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"bridgegen/internal/database"
	"bridgegen/internal/models"

	"go.uber.org/zap"
)

// commentRepository implements CommentRepository
type commentRepository struct {
	*BaseRepository
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *database.Manager, logger *zap.Logger) CommentRepository {
	return &commentRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts a new comment
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (story_id, author_id, author_name, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.QueryRowContext(
		ctx, query,
		comment.StoryID, comment.AuthorID, comment.AuthorName, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		r.GetLogger().Error("Failed to create comment",
			zap.Error(err),
			zap.Int64("story_id", comment.StoryID),
		)
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by ID
func (r *commentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `
		SELECT id, story_id, author_id, author_name, content, created_at
		FROM comments
		WHERE id = $1`

	var comment models.Comment
	err := r.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.StoryID, &comment.AuthorID,
		&comment.AuthorName, &comment.Content, &comment.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

// ListByStory retrieves a story's comments, oldest first
func (r *commentRepository) ListByStory(ctx context.Context, storyID int64) ([]*models.Comment, error) {
	query := `
		SELECT id, story_id, author_id, author_name, content, created_at
		FROM comments
		WHERE story_id = $1
		ORDER BY created_at ASC`

	rows, err := r.QueryContext(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID, &comment.StoryID, &comment.AuthorID,
			&comment.AuthorName, &comment.Content, &comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}

// Delete removes a comment
func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, `DELETE FROM comments WHERE id = $1`, "comment", id)
}
