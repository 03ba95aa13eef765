package repositories

import (
	"context"
	"time"

	"bridgegen/internal/models"
)

// ===============================
// FILTER TYPES
// ===============================

// StoryFilter narrows story listings
type StoryFilter struct {
	Search   string
	Category string
	SortBy   string // recent | popular | comments
	models.PaginationParams
}

// BadgeSort options for user badge listings
const (
	BadgeSortNewest       = "newest"
	BadgeSortRarity       = "rarity"
	BadgeSortAlphabetical = "alphabetical"
)

// EventFilter narrows event listings
type EventFilter struct {
	Search       string
	Category     string
	EventType    string
	UpcomingOnly bool
	SortBy       string // date | popularity | newest
	models.PaginationParams
}

// ===============================
// REPOSITORY INTERFACES
// ===============================

// UserRepository handles account persistence
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// StoryRepository handles story persistence
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id int64) (*models.Story, error)
	List(ctx context.Context, filter *StoryFilter) (*models.PaginatedResponse[models.Story], error)
	Update(ctx context.Context, story *models.Story) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	ListDeleted(ctx context.Context, authorID int64) ([]*models.Story, error)
	PurgeExpired(ctx context.Context, olderThan time.Time) (int64, error)
	IncrementLikes(ctx context.Context, id int64, delta int) (int, error)
	IncrementShares(ctx context.Context, id int64) (int, error)
	IncrementComments(ctx context.Context, id int64, delta int) error
	Flag(ctx context.Context, id int64, reason string) error
	Unflag(ctx context.Context, id int64) error
	ListFlagged(ctx context.Context) ([]*models.Story, error)
}

// CommentRepository handles comment persistence
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByStory(ctx context.Context, storyID int64) ([]*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// BadgeRepository handles badge catalog persistence
type BadgeRepository interface {
	Create(ctx context.Context, badge *models.Badge) error
	GetByID(ctx context.Context, id int64) (*models.Badge, error)
	List(ctx context.Context) ([]*models.Badge, error)
	Update(ctx context.Context, badge *models.Badge) error
	Delete(ctx context.Context, id int64) error
}

// AchievementRepository handles achievement rules and their badge links
type AchievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement, badgeIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Achievement, error)
	ListActive(ctx context.Context) ([]*models.Achievement, error)
	ListAll(ctx context.Context) ([]*models.Achievement, error)
	Update(ctx context.Context, achievement *models.Achievement, badgeIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// ProgressRepository reads user statistics and records earned awards
type ProgressRepository interface {
	GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error)
	HasAchievement(ctx context.Context, userID, achievementID int64) (bool, error)
	// AwardAchievement inserts the earned row; returns false when the
	// user already holds the achievement.
	AwardAchievement(ctx context.Context, userID, achievementID int64) (bool, error)
	// AwardBadge inserts the earned row; returns false when the user
	// already holds the badge.
	AwardBadge(ctx context.Context, userID, badgeID int64) (bool, error)
	ListUserBadges(ctx context.Context, userID int64, sortBy string) ([]*models.UserBadge, error)
	ListUserAchievements(ctx context.Context, userID int64) ([]*models.UserAchievement, error)
	RecordActivityDate(ctx context.Context, userID int64, day time.Time) error
	BadgeHolderCounts(ctx context.Context) (map[int64]int64, error)
}

// EventRepository handles events and registrations
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, filter *EventFilter) (*models.PaginatedResponse[models.Event], error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error
	SetImageURL(ctx context.Context, id int64, url string) error
	Dashboard(ctx context.Context) (*models.EventDashboard, error)

	// Register inserts the registration; returns false when the user is
	// already registered.
	Register(ctx context.Context, reg *models.Registration) (bool, error)
	Unregister(ctx context.Context, userID, eventID int64) error
	RegistrationCount(ctx context.Context, eventID int64) (int, error)
	IsRegistered(ctx context.Context, userID, eventID int64) (bool, error)
	ListRegistrations(ctx context.Context, eventID int64) ([]*models.Registration, error)
	ListRegisteredEvents(ctx context.Context, userID int64) ([]*models.Event, error)
}
