package services

import (
	"context"
	"fmt"
	"strings"

	"bridgegen/internal/config"
	"bridgegen/internal/events"
	"bridgegen/internal/models"
	"bridgegen/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// commentService implements CommentService
type commentService struct {
	comments     repositories.CommentRepository
	stories      repositories.StoryRepository
	gamification GamificationService
	eventBus     events.EventBus
	validator    *validator.Validate
	config       *config.GamificationConfig
	logger       *zap.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(
	repos *repositories.Collection,
	gamification GamificationService,
	eventBus events.EventBus,
	cfg *config.GamificationConfig,
	logger *zap.Logger,
) CommentService {
	return &commentService{
		comments:     repos.Comment,
		stories:      repos.Story,
		gamification: gamification,
		eventBus:     eventBus,
		validator:    validator.New(),
		config:       cfg,
		logger:       logger,
	}
}

// CreateComment validates and persists a comment, bumps the story's
// comment counter and evaluates awards for the commenter.
func (s *commentService) CreateComment(ctx context.Context, req *CreateCommentRequest) (*CommentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("invalid comment data", err)
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, NewValidationError("comment cannot be empty", nil)
	}
	if len(content) > s.config.MaxCommentLength {
		return nil, NewValidationError(
			fmt.Sprintf("comment cannot exceed %d characters", s.config.MaxCommentLength), nil)
	}

	story, err := s.stories.GetByID(ctx, req.StoryID)
	if err != nil {
		return nil, WrapInternalError("failed to load story", err)
	}
	if story == nil || story.IsDeleted {
		return nil, NewNotFoundError("story not found")
	}

	comment := &models.Comment{
		StoryID:    req.StoryID,
		AuthorID:   &req.AuthorID,
		AuthorName: req.AuthorName,
		Content:    content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, WrapInternalError("failed to create comment", err)
	}

	if err := s.stories.IncrementComments(ctx, req.StoryID, 1); err != nil {
		s.logger.Warn("Failed to bump comment counter",
			zap.Int64("story_id", req.StoryID),
			zap.Error(err),
		)
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishAsync(ctx,
			events.NewCommentCreatedEvent(comment.ID, req.StoryID, comment.AuthorID))
	}

	return &CommentResult{
		Comment:   comment,
		NewBadges: evaluateAwards(ctx, s.gamification, req.AuthorID, s.logger),
	}, nil
}

// ListComments retrieves a story's comments, oldest first
func (s *commentService) ListComments(ctx context.Context, storyID int64) ([]*models.Comment, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, WrapInternalError("failed to load story", err)
	}
	if story == nil || story.IsDeleted {
		return nil, NewNotFoundError("story not found")
	}

	comments, err := s.comments.ListByStory(ctx, storyID)
	if err != nil {
		return nil, WrapInternalError("failed to list comments", err)
	}
	return comments, nil
}

// DeleteComment removes a comment; authors and admins only
func (s *commentService) DeleteComment(ctx context.Context, userID, commentID int64, isAdmin bool) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return WrapInternalError("failed to load comment", err)
	}
	if comment == nil {
		return NewNotFoundError("comment not found")
	}
	if !isAdmin && (comment.AuthorID == nil || *comment.AuthorID != userID) {
		return NewForbiddenError("you cannot delete this comment")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return WrapInternalError("failed to delete comment", err)
	}

	if err := s.stories.IncrementComments(ctx, comment.StoryID, -1); err != nil {
		s.logger.Warn("Failed to decrement comment counter",
			zap.Int64("story_id", comment.StoryID),
			zap.Error(err),
		)
	}
	return nil
}
