package services

import (
	"bridgegen/internal/cache"
	"bridgegen/internal/config"
	"bridgegen/internal/events"
	"bridgegen/internal/repositories"

	"go.uber.org/zap"
)

// NewServiceCollection wires every service with its dependencies.
// Media is optional: without Cloudinary credentials the upload
// endpoints report the feature as unavailable instead of failing boot.
func NewServiceCollection(
	repos *repositories.Collection,
	c cache.Cache,
	eventBus events.EventBus,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	gamification := NewGamificationService(repos, c, eventBus, &cfg.Gamification, logger)

	var media MediaService
	if cfg.Media.CloudName != "" {
		var err error
		media, err = NewMediaService(&cfg.Media, logger)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("Media uploads disabled: no Cloudinary credentials configured")
	}

	return &ServiceCollection{
		Auth:         NewAuthService(repos, &cfg.Auth, logger),
		Story:        NewStoryService(repos, gamification, eventBus, &cfg.Gamification, logger),
		Comment:      NewCommentService(repos, gamification, eventBus, &cfg.Gamification, logger),
		Gamification: gamification,
		Event:        NewEventService(repos, eventBus, logger),
		Media:        media,
		Repos:        repos,
	}, nil
}
