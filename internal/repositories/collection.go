package repositories

import (
	"bridgegen/internal/database"

	"go.uber.org/zap"
)

// Collection bundles every repository behind a single constructor so
// the service layer receives one wired dependency.
type Collection struct {
	User        UserRepository
	Story       StoryRepository
	Comment     CommentRepository
	Badge       BadgeRepository
	Achievement AchievementRepository
	Progress    ProgressRepository
	Event       EventRepository
}

// NewCollection creates all repositories against the shared manager
func NewCollection(db *database.Manager, logger *zap.Logger) *Collection {
	return &Collection{
		User:        NewUserRepository(db, logger),
		Story:       NewStoryRepository(db, logger),
		Comment:     NewCommentRepository(db, logger),
		Badge:       NewBadgeRepository(db, logger),
		Achievement: NewAchievementRepository(db, logger),
		Progress:    NewProgressRepository(db, logger),
		Event:       NewEventRepository(db, logger),
	}
}
