package models

import "time"

// ===============================
// EVENTS MANAGEMENT ENTITIES
// ===============================

// Event types
const (
	EventTypePhysical = "physical"
	EventTypeOnline   = "online"
	EventTypeHybrid   = "hybrid"
)

// Event represents a scheduled event users can register for
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"date"`
	Location    string    `json:"location" db:"location"`
	Category    string    `json:"category" db:"category"`
	EventType   string    `json:"event_type" db:"event_type"`
	Tags        []string  `json:"tags,omitempty" db:"tags"`
	SeatAmount  int       `json:"seat_amount" db:"seat_amount"`
	CreatedBy   *int64    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	IsClosed    bool      `json:"is_closed" db:"is_closed"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url"`

	// Computed for display
	RegistrationCount int  `json:"registration_count" db:"-"`
	IsRegistered      bool `json:"is_registered" db:"-"`
}

// IsUpcoming reports whether the event is in the future
func (e *Event) IsUpcoming() bool {
	return e.Date.After(time.Now())
}

// HasCapacity reports whether seats remain, given the current
// registration count.
func (e *Event) HasCapacity() bool {
	return e.SeatAmount <= 0 || e.RegistrationCount < e.SeatAmount
}

// Registration records a user's registration for an event; unique per
// (user, event)
type Registration struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"user_id" db:"user_id"`
	EventID         int64     `json:"event_id" db:"event_id"`
	SpecialRequests *string   `json:"special_requests,omitempty" db:"special_requests"`
	RegisteredAt    time.Time `json:"registered_at" db:"registered_at"`

	// Joined for admin listings
	Username string `json:"username,omitempty" db:"-"`
}

// EventDashboard aggregates counters for the admin dashboard
type EventDashboard struct {
	TotalEvents        int64 `json:"total_events"`
	TotalRegistrations int64 `json:"total_registrations"`
	UpcomingEvents     int64 `json:"upcoming_events"`
}
