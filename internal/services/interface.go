package services

import (
	"context"
	"io"

	"bridgegen/internal/models"
	"bridgegen/internal/repositories"
)

// ===============================
// SERVICE INTERFACES
// ===============================

// AuthService handles registration, login and token verification
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	VerifyToken(ctx context.Context, token string) (*TokenClaims, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

// StoryService handles the story lifecycle and engagement actions
type StoryService interface {
	CreateStory(ctx context.Context, req *CreateStoryRequest) (*StoryResult, error)
	GetStory(ctx context.Context, id int64) (*models.Story, error)
	ListStories(ctx context.Context, req *ListStoriesRequest) (*models.PaginatedResponse[models.Story], error)
	UpdateStory(ctx context.Context, req *UpdateStoryRequest) (*models.Story, error)
	DeleteStory(ctx context.Context, userID, storyID int64, isAdmin bool) error
	RestoreStory(ctx context.Context, userID, storyID int64) (*models.Story, error)
	ListDeletedStories(ctx context.Context, userID int64) ([]*models.Story, error)
	PurgeExpiredStories(ctx context.Context) (int64, error)

	LikeStory(ctx context.Context, userID, storyID int64) (*EngagementResult, error)
	UnlikeStory(ctx context.Context, userID, storyID int64) (*EngagementResult, error)
	ShareStory(ctx context.Context, userID, storyID int64) (*EngagementResult, error)

	FlagStory(ctx context.Context, storyID int64, reason string) error
	UnflagStory(ctx context.Context, storyID int64) error
	ListFlaggedStories(ctx context.Context) ([]*models.Story, error)
}

// CommentService handles story comments
type CommentService interface {
	CreateComment(ctx context.Context, req *CreateCommentRequest) (*CommentResult, error)
	ListComments(ctx context.Context, storyID int64) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID int64, isAdmin bool) error
}

// GamificationService evaluates achievement rules and manages the
// badge catalog.
type GamificationService interface {
	// EvaluateAndAward checks every active achievement against the
	// user's current statistics and awards anything newly satisfied.
	// Returns the badges earned by this evaluation only.
	EvaluateAndAward(ctx context.Context, userID int64) ([]*models.Badge, error)

	// RecordActivity marks today as active for the user's streak
	RecordActivity(ctx context.Context, userID int64) error

	GetUserBadges(ctx context.Context, userID int64, sortBy string) ([]*models.UserBadge, error)
	GetUserAchievements(ctx context.Context, userID int64) ([]*models.UserAchievement, error)
	GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error)
	GetBadgeCatalog(ctx context.Context) ([]*models.Badge, error)

	CreateBadge(ctx context.Context, req *BadgeRequest) (*models.Badge, error)
	UpdateBadge(ctx context.Context, id int64, req *BadgeRequest) (*models.Badge, error)
	DeleteBadge(ctx context.Context, id int64) error

	CreateAchievement(ctx context.Context, req *AchievementRequest) (*models.Achievement, error)
	UpdateAchievement(ctx context.Context, id int64, req *AchievementRequest) (*models.Achievement, error)
	DeleteAchievement(ctx context.Context, id int64) error
	ListAchievements(ctx context.Context, activeOnly bool) ([]*models.Achievement, error)
}

// EventService handles events, registrations and admin insights
type EventService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, id int64, userID *int64) (*models.Event, error)
	ListEvents(ctx context.Context, req *ListEventsRequest) (*models.PaginatedResponse[models.Event], error)
	UpdateEvent(ctx context.Context, req *UpdateEventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	SetEventImage(ctx context.Context, eventID int64, imageURL string) (*models.Event, error)

	Register(ctx context.Context, req *RegisterEventRequest) error
	Unregister(ctx context.Context, userID, eventID int64) error
	GetCalendar(ctx context.Context, userID int64) ([]*models.Event, error)

	GetDashboard(ctx context.Context) (*models.EventDashboard, error)
	ListRegistrations(ctx context.Context, eventID int64) ([]*models.Registration, error)
	ExportRegistrationsCSV(ctx context.Context, eventID int64, w io.Writer) error
	ExportEventsCSV(ctx context.Context, w io.Writer) error
}

// MediaService uploads story and event media to external storage
type MediaService interface {
	Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// ServiceCollection bundles every service for handler wiring
type ServiceCollection struct {
	Auth         AuthService
	Story        StoryService
	Comment      CommentService
	Gamification GamificationService
	Event        EventService
	Media        MediaService
	Repos        *repositories.Collection
}
