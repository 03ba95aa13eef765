package events

import (
	"time"

	"github.com/gofrs/uuid"
)

// Domain event types
const (
	EventTypeStoryCreated    = "story.created"
	EventTypeStoryLiked      = "story.liked"
	EventTypeStoryShared     = "story.shared"
	EventTypeCommentCreated  = "comment.created"
	EventTypeBadgeAwarded    = "badge.awarded"
	EventTypeEventRegistered = "event.registered"
)

func newBaseEvent(eventType string, userID *int64) BaseEvent {
	id := ""
	if v4, err := uuid.NewV4(); err == nil {
		id = v4.String()
	}
	return BaseEvent{
		EventID:   id,
		EventType: eventType,
		Timestamp: time.Now(),
		UserID:    userID,
	}
}

// StoryCreatedEvent fires after a story commits
type StoryCreatedEvent struct {
	BaseEvent
	StoryID  int64  `json:"story_id"`
	Category string `json:"category"`
}

// NewStoryCreatedEvent creates a story.created event
func NewStoryCreatedEvent(storyID int64, category string, authorID *int64) *StoryCreatedEvent {
	return &StoryCreatedEvent{
		BaseEvent: newBaseEvent(EventTypeStoryCreated, authorID),
		StoryID:   storyID,
		Category:  category,
	}
}

// StoryLikedEvent fires after a like commits; UserID is the story author
// (the recipient of the like), not the liker.
type StoryLikedEvent struct {
	BaseEvent
	StoryID    int64 `json:"story_id"`
	LikesCount int   `json:"likes_count"`
}

// NewStoryLikedEvent creates a story.liked event
func NewStoryLikedEvent(storyID int64, likesCount int, authorID *int64) *StoryLikedEvent {
	return &StoryLikedEvent{
		BaseEvent:  newBaseEvent(EventTypeStoryLiked, authorID),
		StoryID:    storyID,
		LikesCount: likesCount,
	}
}

// StorySharedEvent fires after a share commits; UserID is the story author
type StorySharedEvent struct {
	BaseEvent
	StoryID     int64 `json:"story_id"`
	SharesCount int   `json:"shares_count"`
}

// NewStorySharedEvent creates a story.shared event
func NewStorySharedEvent(storyID int64, sharesCount int, authorID *int64) *StorySharedEvent {
	return &StorySharedEvent{
		BaseEvent:   newBaseEvent(EventTypeStoryShared, authorID),
		StoryID:     storyID,
		SharesCount: sharesCount,
	}
}

// CommentCreatedEvent fires after a comment commits
type CommentCreatedEvent struct {
	BaseEvent
	CommentID int64 `json:"comment_id"`
	StoryID   int64 `json:"story_id"`
}

// NewCommentCreatedEvent creates a comment.created event
func NewCommentCreatedEvent(commentID, storyID int64, authorID *int64) *CommentCreatedEvent {
	return &CommentCreatedEvent{
		BaseEvent: newBaseEvent(EventTypeCommentCreated, authorID),
		CommentID: commentID,
		StoryID:   storyID,
	}
}

// BadgeAwardedEvent fires for each badge newly earned by a user
type BadgeAwardedEvent struct {
	BaseEvent
	BadgeID    int64  `json:"badge_id"`
	BadgeTitle string `json:"badge_title"`
}

// NewBadgeAwardedEvent creates a badge.awarded event
func NewBadgeAwardedEvent(badgeID int64, badgeTitle string, userID int64) *BadgeAwardedEvent {
	return &BadgeAwardedEvent{
		BaseEvent:  newBaseEvent(EventTypeBadgeAwarded, &userID),
		BadgeID:    badgeID,
		BadgeTitle: badgeTitle,
	}
}

// EventRegisteredEvent fires after an event registration commits
type EventRegisteredEvent struct {
	BaseEvent
	EventID int64 `json:"event_id"`
}

// NewEventRegisteredEvent creates an event.registered event
func NewEventRegisteredEvent(eventID, userID int64) *EventRegisteredEvent {
	return &EventRegisteredEvent{
		BaseEvent: newBaseEvent(EventTypeEventRegistered, &userID),
		EventID:   eventID,
	}
}
