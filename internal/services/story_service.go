package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bridgegen/internal/config"
	"bridgegen/internal/events"
	"bridgegen/internal/models"
	"bridgegen/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// storyService implements StoryService
type storyService struct {
	stories      repositories.StoryRepository
	gamification GamificationService
	eventBus     events.EventBus
	validator    *validator.Validate
	config       *config.GamificationConfig
	logger       *zap.Logger
}

// NewStoryService creates a new story service
func NewStoryService(
	repos *repositories.Collection,
	gamification GamificationService,
	eventBus events.EventBus,
	cfg *config.GamificationConfig,
	logger *zap.Logger,
) StoryService {
	return &storyService{
		stories:      repos.Story,
		gamification: gamification,
		eventBus:     eventBus,
		validator:    validator.New(),
		config:       cfg,
		logger:       logger,
	}
}

// ===============================
// STORY LIFECYCLE
// ===============================

// CreateStory validates and persists a new story, then runs the award
// evaluation for the author.
func (s *storyService) CreateStory(ctx context.Context, req *CreateStoryRequest) (*StoryResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("invalid story data", err)
	}
	if err := s.validateContent(req.Caption, req.Description, req.Category, req.Privacy, req.AllowedGroups); err != nil {
		return nil, err
	}

	story := &models.Story{
		Caption:       strings.TrimSpace(req.Caption),
		Description:   strings.TrimSpace(req.Description),
		Tags:          normalizeTags(req.Tags),
		EventTitle:    req.EventTitle,
		Category:      req.Category,
		Privacy:       req.Privacy,
		AllowedGroups: req.AllowedGroups,
		ScheduledAt:   req.ScheduledAt,
		MediaPaths:    req.MediaPaths,
		AuthorID:      &req.AuthorID,
	}
	if story.Privacy != "Specific Groups" {
		story.AllowedGroups = nil
	}

	if err := s.stories.Create(ctx, story); err != nil {
		return nil, WrapInternalError("failed to create story", err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishAsync(ctx,
			events.NewStoryCreatedEvent(story.ID, story.Category, story.AuthorID))
	}

	return &StoryResult{
		Story:     story,
		NewBadges: s.awardSafely(ctx, req.AuthorID),
	}, nil
}

// GetStory retrieves a visible story
func (s *storyService) GetStory(ctx context.Context, id int64) (*models.Story, error) {
	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, WrapInternalError("failed to load story", err)
	}
	if story == nil || story.IsDeleted {
		return nil, NewNotFoundError("story not found")
	}
	return story, nil
}

// ListStories retrieves stories with filters and pagination
func (s *storyService) ListStories(ctx context.Context, req *ListStoriesRequest) (*models.PaginatedResponse[models.Story], error) {
	filter := &repositories.StoryFilter{
		Search:   strings.TrimSpace(req.Search),
		Category: req.Category,
		SortBy:   req.SortBy,
	}
	filter.Limit = req.PerPage
	if req.Page > 1 {
		filter.Offset = (req.Page - 1) * req.PerPage
	}
	filter.Normalize()

	result, err := s.stories.List(ctx, filter)
	if err != nil {
		return nil, WrapInternalError("failed to list stories", err)
	}
	return result, nil
}

// UpdateStory applies partial edits. Caption and description lock once
// the edit window since creation has elapsed; other fields stay editable.
func (s *storyService) UpdateStory(ctx context.Context, req *UpdateStoryRequest) (*models.Story, error) {
	story, err := s.stories.GetByID(ctx, req.StoryID)
	if err != nil {
		return nil, WrapInternalError("failed to load story", err)
	}
	if story == nil || story.IsDeleted {
		return nil, NewNotFoundError("story not found")
	}
	if !s.canModify(story, req.UserID, req.IsAdmin) {
		return nil, NewForbiddenError("you cannot edit this story")
	}

	textEdit := req.Caption != nil || req.Description != nil
	if textEdit && !story.IsEditable(s.config.EditLock()) {
		return nil, NewBusinessError(
			fmt.Sprintf("caption and description can no longer be edited %d hours after posting", s.config.EditLockHours),
			"EDIT_WINDOW_CLOSED",
		)
	}

	if req.Caption != nil {
		story.Caption = strings.TrimSpace(*req.Caption)
	}
	if req.Description != nil {
		story.Description = strings.TrimSpace(*req.Description)
	}
	if req.Tags != nil {
		story.Tags = normalizeTags(req.Tags)
	}
	if req.EventTitle != nil {
		story.EventTitle = req.EventTitle
	}
	if req.Category != nil {
		story.Category = *req.Category
	}
	if req.Privacy != nil {
		story.Privacy = *req.Privacy
	}
	if req.AllowedGroups != nil {
		story.AllowedGroups = req.AllowedGroups
	}
	if req.MediaPaths != nil {
		story.MediaPaths = req.MediaPaths
	}
	if story.Privacy != "Specific Groups" {
		story.AllowedGroups = nil
	}

	if err := s.validateContent(story.Caption, story.Description, story.Category, story.Privacy, story.AllowedGroups); err != nil {
		return nil, err
	}

	if err := s.stories.Update(ctx, story); err != nil {
		return nil, WrapInternalError("failed to update story", err)
	}
	return story, nil
}

// DeleteStory soft-deletes a story, keeping it restorable for the
// configured window.
func (s *storyService) DeleteStory(ctx context.Context, userID, storyID int64, isAdmin bool) error {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return WrapInternalError("failed to load story", err)
	}
	if story == nil || story.IsDeleted {
		return NewNotFoundError("story not found")
	}
	if !s.canModify(story, userID, isAdmin) {
		return NewForbiddenError("you cannot delete this story")
	}

	if err := s.stories.SoftDelete(ctx, storyID); err != nil {
		return WrapInternalError("failed to delete story", err)
	}

	s.logger.Info("Story soft-deleted",
		zap.Int64("story_id", storyID),
		zap.Int64("user_id", userID),
	)
	return nil
}

// RestoreStory brings back a soft-deleted story inside the restore window
func (s *storyService) RestoreStory(ctx context.Context, userID, storyID int64) (*models.Story, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, WrapInternalError("failed to load story", err)
	}
	if story == nil || !story.IsDeleted {
		return nil, NewNotFoundError("deleted story not found")
	}
	if !s.canModify(story, userID, false) {
		return nil, NewForbiddenError("you cannot restore this story")
	}
	if !story.CanBeRestored(s.config.RestoreWindow()) {
		return nil, NewBusinessError(
			fmt.Sprintf("stories can only be restored within %d days of deletion", s.config.SoftDeleteDays),
			"RESTORE_WINDOW_CLOSED",
		)
	}

	if err := s.stories.Restore(ctx, storyID); err != nil {
		return nil, WrapInternalError("failed to restore story", err)
	}

	story.IsDeleted = false
	story.DeletedAt = nil
	return story, nil
}

// ListDeletedStories retrieves a user's restorable stories
func (s *storyService) ListDeletedStories(ctx context.Context, userID int64) ([]*models.Story, error) {
	stories, err := s.stories.ListDeleted(ctx, userID)
	if err != nil {
		return nil, WrapInternalError("failed to list deleted stories", err)
	}

	restorable := make([]*models.Story, 0, len(stories))
	for _, story := range stories {
		if story.CanBeRestored(s.config.RestoreWindow()) {
			restorable = append(restorable, story)
		}
	}
	return restorable, nil
}

// PurgeExpiredStories hard-deletes stories whose restore window passed
func (s *storyService) PurgeExpiredStories(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.config.RestoreWindow())
	purged, err := s.stories.PurgeExpired(ctx, cutoff)
	if err != nil {
		return 0, WrapInternalError("failed to purge stories", err)
	}
	return purged, nil
}

// ===============================
// ENGAGEMENT
// ===============================

// LikeStory bumps the like counter and evaluates awards for the story's
// author, who is the recipient of the like.
func (s *storyService) LikeStory(ctx context.Context, userID, storyID int64) (*EngagementResult, error) {
	story, err := s.GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}

	count, err := s.stories.IncrementLikes(ctx, storyID, 1)
	if err != nil {
		return nil, WrapInternalError("failed to like story", err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishAsync(ctx,
			events.NewStoryLikedEvent(storyID, count, story.AuthorID))
	}

	result := &EngagementResult{StoryID: storyID, Count: count}
	if story.AuthorID != nil {
		result.NewBadges = s.awardSafely(ctx, *story.AuthorID)
	}
	return result, nil
}

// UnlikeStory decrements the like counter; it never drops below zero
// and never revokes earned badges.
func (s *storyService) UnlikeStory(ctx context.Context, userID, storyID int64) (*EngagementResult, error) {
	if _, err := s.GetStory(ctx, storyID); err != nil {
		return nil, err
	}

	count, err := s.stories.IncrementLikes(ctx, storyID, -1)
	if err != nil {
		return nil, WrapInternalError("failed to unlike story", err)
	}
	return &EngagementResult{StoryID: storyID, Count: count}, nil
}

// ShareStory bumps the share counter and evaluates awards for the author
func (s *storyService) ShareStory(ctx context.Context, userID, storyID int64) (*EngagementResult, error) {
	story, err := s.GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}

	count, err := s.stories.IncrementShares(ctx, storyID)
	if err != nil {
		return nil, WrapInternalError("failed to share story", err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishAsync(ctx,
			events.NewStorySharedEvent(storyID, count, story.AuthorID))
	}

	result := &EngagementResult{StoryID: storyID, Count: count}
	if story.AuthorID != nil {
		result.NewBadges = s.awardSafely(ctx, *story.AuthorID)
	}
	return result, nil
}

// ===============================
// MODERATION
// ===============================

// FlagStory marks a story for moderator review
func (s *storyService) FlagStory(ctx context.Context, storyID int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return NewValidationError("flag reason is required", nil)
	}
	if err := s.stories.Flag(ctx, storyID, reason); err != nil {
		return NewNotFoundError("story not found")
	}
	return nil
}

// UnflagStory clears moderation markers
func (s *storyService) UnflagStory(ctx context.Context, storyID int64) error {
	if err := s.stories.Unflag(ctx, storyID); err != nil {
		return WrapInternalError("failed to unflag story", err)
	}
	return nil
}

// ListFlaggedStories retrieves stories awaiting moderator review
func (s *storyService) ListFlaggedStories(ctx context.Context) ([]*models.Story, error) {
	stories, err := s.stories.ListFlagged(ctx)
	if err != nil {
		return nil, WrapInternalError("failed to list flagged stories", err)
	}
	return stories, nil
}

// ===============================
// HELPERS
// ===============================

// awardSafely runs the award evaluation without letting its failure
// block the primary action.
func (s *storyService) awardSafely(ctx context.Context, userID int64) []*models.Badge {
	return evaluateAwards(ctx, s.gamification, userID, s.logger)
}

func (s *storyService) canModify(story *models.Story, userID int64, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return story.AuthorID != nil && *story.AuthorID == userID
}

func (s *storyService) validateContent(caption, description, category, privacy string, allowedGroups []string) error {
	if len(caption) > s.config.MaxCaptionLength {
		return NewValidationError(
			fmt.Sprintf("caption cannot exceed %d characters", s.config.MaxCaptionLength), nil)
	}
	if len(description) > s.config.MaxContentLength {
		return NewValidationError(
			fmt.Sprintf("description cannot exceed %d characters", s.config.MaxContentLength), nil)
	}
	if !slices.Contains(s.config.ValidCategories, category) {
		return NewValidationError(fmt.Sprintf("unknown category: %s", category), nil)
	}
	if !slices.Contains(s.config.ValidPrivacy, privacy) {
		return NewValidationError(fmt.Sprintf("unknown privacy option: %s", privacy), nil)
	}
	if privacy == "Specific Groups" && len(allowedGroups) == 0 {
		return NewValidationError("at least one group is required for group-restricted stories", nil)
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
		if tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}
