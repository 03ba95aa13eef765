package services

import (
	"context"
	"fmt"
	"time"

	"bridgegen/internal/cache"
	"bridgegen/internal/config"
	"bridgegen/internal/events"
	"bridgegen/internal/models"
	"bridgegen/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const badgeCatalogCacheKey = "gamification:badge_catalog"

// gamificationService implements GamificationService
type gamificationService struct {
	achievements repositories.AchievementRepository
	badges       repositories.BadgeRepository
	progress     repositories.ProgressRepository
	cache        cache.Cache
	eventBus     events.EventBus
	validator    *validator.Validate
	config       *config.GamificationConfig
	logger       *zap.Logger
}

// NewGamificationService creates a new gamification service
func NewGamificationService(
	repos *repositories.Collection,
	c cache.Cache,
	eventBus events.EventBus,
	cfg *config.GamificationConfig,
	logger *zap.Logger,
) GamificationService {
	return &gamificationService{
		achievements: repos.Achievement,
		badges:       repos.Badge,
		progress:     repos.Progress,
		cache:        c,
		eventBus:     eventBus,
		validator:    validator.New(),
		config:       cfg,
		logger:       logger,
	}
}

// ===============================
// AWARD EVALUATION
// ===============================

// EvaluateAndAward checks every active achievement against the user's
// current statistics and awards anything newly satisfied. The returned
// slice contains only badges earned by this evaluation; a badge already
// held is never returned twice. Safe to call repeatedly.
func (s *gamificationService) EvaluateAndAward(ctx context.Context, userID int64) ([]*models.Badge, error) {
	stats, err := s.progress.GetUserStats(ctx, userID)
	if err != nil {
		return nil, WrapInternalError("failed to load user statistics", err)
	}

	achievements, err := s.achievements.ListActive(ctx)
	if err != nil {
		return nil, WrapInternalError("failed to load achievements", err)
	}

	newBadges := make([]*models.Badge, 0)
	for _, achievement := range achievements {
		counter, known := stats.Counter(achievement.RuleType)
		if !known {
			s.logger.Warn("Skipping achievement with unknown rule type",
				zap.Int64("achievement_id", achievement.ID),
				zap.String("rule_type", string(achievement.RuleType)),
			)
			continue
		}
		if counter < achievement.RuleValue {
			continue
		}

		held, err := s.progress.HasAchievement(ctx, userID, achievement.ID)
		if err != nil {
			return newBadges, WrapInternalError("failed to check earned achievements", err)
		}
		if held {
			continue
		}

		// The unique constraint still guards the race between two
		// near-simultaneous evaluations.
		earned, err := s.progress.AwardAchievement(ctx, userID, achievement.ID)
		if err != nil {
			return newBadges, WrapInternalError("failed to award achievement", err)
		}
		if !earned {
			continue
		}

		for _, badgeID := range achievement.BadgeIDs {
			granted, err := s.progress.AwardBadge(ctx, userID, badgeID)
			if err != nil {
				return newBadges, WrapInternalError("failed to award badge", err)
			}
			if !granted {
				continue
			}

			badge, err := s.badges.GetByID(ctx, badgeID)
			if err != nil || badge == nil {
				s.logger.Warn("Awarded badge missing from catalog",
					zap.Int64("badge_id", badgeID),
					zap.Error(err),
				)
				continue
			}
			newBadges = append(newBadges, badge)

			if s.eventBus != nil {
				_ = s.eventBus.PublishAsync(ctx,
					events.NewBadgeAwardedEvent(badge.ID, badge.Title, userID))
			}
		}
	}

	if len(newBadges) > 0 {
		s.logger.Info("Awards evaluated",
			zap.Int64("user_id", userID),
			zap.Int("new_badges", len(newBadges)),
		)
	}
	return newBadges, nil
}

// RecordActivity marks today as active for the user's streak counter
func (s *gamificationService) RecordActivity(ctx context.Context, userID int64) error {
	if err := s.progress.RecordActivityDate(ctx, userID, time.Now()); err != nil {
		return WrapInternalError("failed to record activity", err)
	}
	return nil
}

// ===============================
// USER-FACING QUERIES
// ===============================

// GetUserBadges retrieves a user's earned badges with the requested sort
func (s *gamificationService) GetUserBadges(ctx context.Context, userID int64, sortBy string) ([]*models.UserBadge, error) {
	switch sortBy {
	case "", repositories.BadgeSortNewest, repositories.BadgeSortRarity, repositories.BadgeSortAlphabetical:
	default:
		return nil, NewValidationError(fmt.Sprintf("unsupported sort: %s", sortBy), nil)
	}

	earned, err := s.progress.ListUserBadges(ctx, userID, sortBy)
	if err != nil {
		return nil, WrapInternalError("failed to load user badges", err)
	}
	return earned, nil
}

// GetUserAchievements retrieves a user's earned achievements
func (s *gamificationService) GetUserAchievements(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	earned, err := s.progress.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, WrapInternalError("failed to load user achievements", err)
	}
	return earned, nil
}

// GetUserStats retrieves the user's current aggregate counters
func (s *gamificationService) GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	stats, err := s.progress.GetUserStats(ctx, userID)
	if err != nil {
		return nil, WrapInternalError("failed to load user statistics", err)
	}
	return stats, nil
}

// GetBadgeCatalog retrieves the full badge catalog with holder counts,
// cached.
func (s *gamificationService) GetBadgeCatalog(ctx context.Context) ([]*models.Badge, error) {
	var cached []*models.Badge
	if s.cache != nil && cache.GetJSON(ctx, s.cache, badgeCatalogCacheKey, &cached) {
		return cached, nil
	}

	badges, err := s.badges.List(ctx)
	if err != nil {
		return nil, WrapInternalError("failed to load badge catalog", err)
	}

	holders, err := s.progress.BadgeHolderCounts(ctx)
	if err != nil {
		s.logger.Warn("Failed to load badge holder counts", zap.Error(err))
	} else {
		for _, badge := range badges {
			badge.HolderCount = holders[badge.ID]
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, badgeCatalogCacheKey, badges, s.config.BadgeCacheTTL); err != nil {
			s.logger.Warn("Failed to cache badge catalog", zap.Error(err))
		}
	}
	return badges, nil
}

// ===============================
// BADGE ADMINISTRATION
// ===============================

// CreateBadge adds a badge to the catalog
func (s *gamificationService) CreateBadge(ctx context.Context, req *BadgeRequest) (*models.Badge, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("invalid badge data", err)
	}

	badge := &models.Badge{
		Title:       req.Title,
		Description: req.Description,
		IconURL:     req.IconURL,
		SortOrder:   req.SortOrder,
	}
	if err := s.badges.Create(ctx, badge); err != nil {
		return nil, WrapInternalError("failed to create badge", err)
	}

	s.invalidateCatalog(ctx)
	return badge, nil
}

// UpdateBadge modifies a catalog badge
func (s *gamificationService) UpdateBadge(ctx context.Context, id int64, req *BadgeRequest) (*models.Badge, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("invalid badge data", err)
	}

	badge, err := s.badges.GetByID(ctx, id)
	if err != nil {
		return nil, WrapInternalError("failed to load badge", err)
	}
	if badge == nil {
		return nil, NewNotFoundError("badge not found")
	}

	badge.Title = req.Title
	badge.Description = req.Description
	badge.IconURL = req.IconURL
	badge.SortOrder = req.SortOrder

	if err := s.badges.Update(ctx, badge); err != nil {
		return nil, WrapInternalError("failed to update badge", err)
	}

	s.invalidateCatalog(ctx)
	return badge, nil
}

// DeleteBadge removes a badge from the catalog. Earned rows and
// achievement links cascade.
func (s *gamificationService) DeleteBadge(ctx context.Context, id int64) error {
	if err := s.badges.Delete(ctx, id); err != nil {
		return NewNotFoundError("badge not found")
	}
	s.invalidateCatalog(ctx)
	return nil
}

// ===============================
// ACHIEVEMENT ADMINISTRATION
// ===============================

// CreateAchievement adds an achievement rule with its badge links
func (s *gamificationService) CreateAchievement(ctx context.Context, req *AchievementRequest) (*models.Achievement, error) {
	if err := s.validateAchievementRequest(req); err != nil {
		return nil, err
	}

	achievement := &models.Achievement{
		Title:       req.Title,
		Description: req.Description,
		RuleType:    models.RuleType(req.RuleType),
		RuleValue:   req.RuleValue,
		Active:      req.Active,
	}
	if err := s.achievements.Create(ctx, achievement, req.BadgeIDs); err != nil {
		return nil, WrapInternalError("failed to create achievement", err)
	}
	return achievement, nil
}

// UpdateAchievement modifies an achievement rule and replaces its badge links
func (s *gamificationService) UpdateAchievement(ctx context.Context, id int64, req *AchievementRequest) (*models.Achievement, error) {
	if err := s.validateAchievementRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.achievements.GetByID(ctx, id)
	if err != nil {
		return nil, WrapInternalError("failed to load achievement", err)
	}
	if existing == nil {
		return nil, NewNotFoundError("achievement not found")
	}

	existing.Title = req.Title
	existing.Description = req.Description
	existing.RuleType = models.RuleType(req.RuleType)
	existing.RuleValue = req.RuleValue
	existing.Active = req.Active

	if err := s.achievements.Update(ctx, existing, req.BadgeIDs); err != nil {
		return nil, WrapInternalError("failed to update achievement", err)
	}
	return existing, nil
}

// DeleteAchievement removes an achievement rule
func (s *gamificationService) DeleteAchievement(ctx context.Context, id int64) error {
	if err := s.achievements.Delete(ctx, id); err != nil {
		return NewNotFoundError("achievement not found")
	}
	return nil
}

// ListAchievements retrieves achievement rules for administration
func (s *gamificationService) ListAchievements(ctx context.Context, activeOnly bool) ([]*models.Achievement, error) {
	var (
		achievements []*models.Achievement
		err          error
	)
	if activeOnly {
		achievements, err = s.achievements.ListActive(ctx)
	} else {
		achievements, err = s.achievements.ListAll(ctx)
	}
	if err != nil {
		return nil, WrapInternalError("failed to load achievements", err)
	}
	return achievements, nil
}

// ===============================
// HELPERS
// ===============================

// evaluateAwards is the shared action hook: record today's activity and
// run the award evaluation, logging failures instead of surfacing them
// so the triggering action is never blocked.
func evaluateAwards(ctx context.Context, g GamificationService, userID int64, logger *zap.Logger) []*models.Badge {
	if g == nil {
		return nil
	}

	if err := g.RecordActivity(ctx, userID); err != nil {
		logger.Warn("Failed to record activity",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	badges, err := g.EvaluateAndAward(ctx, userID)
	if err != nil {
		logger.Warn("Award evaluation failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil
	}
	return badges
}

func (s *gamificationService) validateAchievementRequest(req *AchievementRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return NewValidationError("invalid achievement data", err)
	}
	if !models.RuleType(req.RuleType).IsValid() {
		return NewValidationError(fmt.Sprintf("unsupported rule type: %s", req.RuleType), nil)
	}
	if len(req.BadgeIDs) == 0 {
		return NewValidationError("achievement must link at least one badge", nil)
	}
	return nil
}

func (s *gamificationService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, badgeCatalogCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate badge catalog cache", zap.Error(err))
	}
}
