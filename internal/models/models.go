package models

import (
	"time"
)

// ===============================
// CORE ENTITIES
// ===============================

// User represents a platform account
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username" validate:"required,min=3,max=50"`
	Email        string    `json:"email" db:"email" validate:"required,email,max=320"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role" validate:"required,oneof=user moderator organizer"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// User roles
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleOrganizer = "organizer"
)

// IsAdmin reports whether the role carries admin privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleModerator || u.Role == RoleOrganizer
}

// Story represents a story post
type Story struct {
	ID            int64      `json:"id" db:"id"`
	Caption       string     `json:"caption" db:"caption"`
	Description   string     `json:"description" db:"description"`
	Tags          []string   `json:"tags" db:"tags"`
	EventTitle    *string    `json:"event_title,omitempty" db:"event_title"`
	Category      string     `json:"category" db:"category"`
	Privacy       string     `json:"privacy" db:"privacy"`
	AllowedGroups []string   `json:"allowed_groups,omitempty" db:"allowed_groups"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	MediaPaths    []string   `json:"media_paths,omitempty" db:"media_paths"`
	LikesCount    int        `json:"likes_count" db:"likes_count"`
	CommentsCount int        `json:"comments_count" db:"comments_count"`
	SharesCount   int        `json:"shares_count" db:"shares_count"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	IsDeleted     bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	AuthorID      *int64     `json:"author_id,omitempty" db:"author_id"`
	Flagged       bool       `json:"flagged" db:"flagged"`
	FlagReason    *string    `json:"flag_reason,omitempty" db:"flag_reason"`
	FlaggedAt     *time.Time `json:"flagged_at,omitempty" db:"flagged_at"`
}

// IsEditable reports whether caption/description may still change.
// Both fields lock once the edit window has elapsed since creation.
func (s *Story) IsEditable(lockAfter time.Duration) bool {
	return time.Since(s.CreatedAt) < lockAfter
}

// CanBeRestored reports whether a soft-deleted story is still inside
// the restore window.
func (s *Story) CanBeRestored(window time.Duration) bool {
	if !s.IsDeleted || s.DeletedAt == nil {
		return false
	}
	return time.Since(*s.DeletedAt) < window
}

// Comment represents a comment on a story
type Comment struct {
	ID         int64     `json:"id" db:"id"`
	StoryID    int64     `json:"story_id" db:"story_id"`
	AuthorID   *int64    `json:"author_id,omitempty" db:"author_id"`
	AuthorName string    `json:"author_name" db:"author_name"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ===============================
// PAGINATION
// ===============================

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Sort   string `json:"sort"`
	Order  string `json:"order"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// CalculateOffset derives the offset for the current page settings
func (p *PaginationParams) CalculateOffset() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// Normalize clamps the pagination parameters to sane bounds
func (p *PaginationParams) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Order != "asc" && p.Order != "desc" {
		p.Order = "desc"
	}
}
