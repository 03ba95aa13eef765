package models

import "time"

// ===============================
// GAMIFICATION ENTITIES
// ===============================

// RuleType identifies the user statistic an achievement threshold is
// evaluated against.
type RuleType string

// Supported achievement rule types
const (
	RuleStoriesCreated  RuleType = "stories_created_total"
	RuleCommentsWritten RuleType = "comments_written_total"
	RuleLikesReceived   RuleType = "likes_received_total"
	RuleSharesReceived  RuleType = "shares_received_total"
	RuleDaysActive      RuleType = "days_active_streak"
)

// RuleTypes lists every supported rule type in display order
func RuleTypes() []RuleType {
	return []RuleType{
		RuleStoriesCreated,
		RuleCommentsWritten,
		RuleLikesReceived,
		RuleSharesReceived,
		RuleDaysActive,
	}
}

// IsValid reports whether the rule type is one the evaluator understands
func (r RuleType) IsValid() bool {
	switch r {
	case RuleStoriesCreated, RuleCommentsWritten, RuleLikesReceived, RuleSharesReceived, RuleDaysActive:
		return true
	}
	return false
}

// Badge represents a collectible awarded to a user
type Badge struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	IconURL     *string   `json:"icon_url,omitempty" db:"icon_url"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Computed for display: how many users hold this badge
	HolderCount int64 `json:"holder_count" db:"-"`
}

// Achievement represents a rule that, once satisfied, awards one or
// more badges.
type Achievement struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	RuleType    RuleType  `json:"rule_type" db:"rule_type"`
	RuleValue   int       `json:"rule_value" db:"rule_value"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Linked badge IDs from the achievement_badges join table
	BadgeIDs []int64 `json:"badge_ids,omitempty" db:"-"`
}

// UserBadge records a badge earned by a user; unique per (user, badge)
type UserBadge struct {
	ID       int64     `json:"id" db:"id"`
	UserID   int64     `json:"user_id" db:"user_id"`
	BadgeID  int64     `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`

	// Joined badge details for display
	Badge *Badge `json:"badge,omitempty" db:"-"`
}

// UserAchievement records an achievement earned by a user; unique per
// (user, achievement)
type UserAchievement struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	AchievementID int64     `json:"achievement_id" db:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at" db:"earned_at"`

	// Joined achievement details for display
	Achievement *Achievement `json:"achievement,omitempty" db:"-"`
}

// UserStats holds the aggregate counters the achievement rules are
// evaluated against.
type UserStats struct {
	StoriesCreated  int `json:"stories_created_total"`
	CommentsWritten int `json:"comments_written_total"`
	LikesReceived   int `json:"likes_received_total"`
	SharesReceived  int `json:"shares_received_total"`
	DaysActive      int `json:"days_active_streak"`
}

// Counter returns the counter for the given rule type. The second
// return value is false for rule types the reader does not compute.
func (s *UserStats) Counter(rule RuleType) (int, bool) {
	switch rule {
	case RuleStoriesCreated:
		return s.StoriesCreated, true
	case RuleCommentsWritten:
		return s.CommentsWritten, true
	case RuleLikesReceived:
		return s.LikesReceived, true
	case RuleSharesReceived:
		return s.SharesReceived, true
	case RuleDaysActive:
		return s.DaysActive, true
	}
	return 0, false
}
