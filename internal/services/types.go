package services

import (
	"io"
	"time"

	"bridgegen/internal/models"
)

// ===============================
// AUTH TYPES
// ===============================

// RegisterRequest carries account creation input
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest carries login input
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries a successful login response
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// TokenClaims carries the verified identity from a JWT
type TokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ===============================
// STORY TYPES
// ===============================

// CreateStoryRequest carries story creation input
type CreateStoryRequest struct {
	AuthorID      int64      `json:"-"`
	Caption       string     `json:"caption" validate:"required"`
	Description   string     `json:"description" validate:"required"`
	Tags          []string   `json:"tags"`
	EventTitle    *string    `json:"event_title"`
	Category      string     `json:"category" validate:"required"`
	Privacy       string     `json:"privacy" validate:"required"`
	AllowedGroups []string   `json:"allowed_groups"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
	MediaPaths    []string   `json:"media_paths"`
}

// UpdateStoryRequest carries story update input
type UpdateStoryRequest struct {
	StoryID       int64    `json:"-"`
	UserID        int64    `json:"-"`
	IsAdmin       bool     `json:"-"`
	Caption       *string  `json:"caption"`
	Description   *string  `json:"description"`
	Tags          []string `json:"tags"`
	EventTitle    *string  `json:"event_title"`
	Category      *string  `json:"category"`
	Privacy       *string  `json:"privacy"`
	AllowedGroups []string `json:"allowed_groups"`
	MediaPaths    []string `json:"media_paths"`
}

// ListStoriesRequest carries story listing filters
type ListStoriesRequest struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	SortBy   string `json:"sort_by"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
}

// StoryResult pairs a mutated story with any badges the action earned
type StoryResult struct {
	Story     *models.Story   `json:"story"`
	NewBadges []*models.Badge `json:"new_badges,omitempty"`
}

// EngagementResult carries the counter state after a like/share action
// plus any badges the recipient earned from it.
type EngagementResult struct {
	StoryID   int64           `json:"story_id"`
	Count     int             `json:"count"`
	NewBadges []*models.Badge `json:"new_badges,omitempty"`
}

// ===============================
// COMMENT TYPES
// ===============================

// CreateCommentRequest carries comment creation input
type CreateCommentRequest struct {
	StoryID    int64  `json:"-"`
	AuthorID   int64  `json:"-"`
	AuthorName string `json:"-"`
	Content    string `json:"content" validate:"required"`
}

// CommentResult pairs a created comment with any badges it earned
type CommentResult struct {
	Comment   *models.Comment `json:"comment"`
	NewBadges []*models.Badge `json:"new_badges,omitempty"`
}

// ===============================
// GAMIFICATION ADMIN TYPES
// ===============================

// BadgeRequest carries badge create/update input
type BadgeRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description"`
	IconURL     *string `json:"icon_url" validate:"omitempty,url"`
	SortOrder   int     `json:"sort_order"`
}

// AchievementRequest carries achievement create/update input
type AchievementRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description"`
	RuleType    string  `json:"rule_type" validate:"required"`
	RuleValue   int     `json:"rule_value" validate:"required,min=1"`
	Active      bool    `json:"active"`
	BadgeIDs    []int64 `json:"badge_ids"`
}

// ===============================
// EVENT TYPES
// ===============================

// CreateEventRequest carries event creation input
type CreateEventRequest struct {
	CreatedBy   int64     `json:"-"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Category    string    `json:"category" validate:"required"`
	EventType   string    `json:"event_type" validate:"required,oneof=physical online hybrid"`
	Tags        []string  `json:"tags"`
	SeatAmount  int       `json:"seat_amount" validate:"min=0"`
	ImageURL    *string   `json:"image_url"`
}

// UpdateEventRequest carries event update input
type UpdateEventRequest struct {
	EventID     int64      `json:"-"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	Category    *string    `json:"category"`
	EventType   *string    `json:"event_type"`
	Tags        []string   `json:"tags"`
	SeatAmount  *int       `json:"seat_amount"`
	IsClosed    *bool      `json:"is_closed"`
}

// ListEventsRequest carries event listing filters
type ListEventsRequest struct {
	UserID       *int64 `json:"-"`
	Search       string `json:"search"`
	Category     string `json:"category"`
	EventType    string `json:"event_type"`
	UpcomingOnly bool   `json:"upcoming_only"`
	SortBy       string `json:"sort_by"`
	Page         int    `json:"page"`
	PerPage      int    `json:"per_page"`
}

// SetEventImageRequest carries an event image assignment
type SetEventImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// RegisterEventRequest carries event registration input
type RegisterEventRequest struct {
	UserID          int64   `json:"-"`
	EventID         int64   `json:"-"`
	SpecialRequests *string `json:"special_requests"`
}

// ===============================
// MEDIA TYPES
// ===============================

// UploadRequest carries a media upload
type UploadRequest struct {
	Reader   io.Reader `json:"-"`
	Filename string    `json:"filename" validate:"required"`
	Size     int64     `json:"size"`
	Folder   string    `json:"folder"`
}

// UploadResult carries the stored media location
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
}
