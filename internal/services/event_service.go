package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"bridgegen/internal/events"
	"bridgegen/internal/models"
	"bridgegen/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// eventService implements EventService
type eventService struct {
	events    repositories.EventRepository
	eventBus  events.EventBus
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(
	repos *repositories.Collection,
	eventBus events.EventBus,
	logger *zap.Logger,
) EventService {
	return &eventService{
		events:    repos.Event,
		eventBus:  eventBus,
		validator: validator.New(),
		logger:    logger,
	}
}

// ===============================
// EVENT LIFECYCLE
// ===============================

// CreateEvent validates and persists a new event
func (s *eventService) CreateEvent(ctx context.Context, req *CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("invalid event data", err)
	}
	if req.Date.Before(time.Now()) {
		return nil, NewValidationError("event date must be in the future", nil)
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Category:    req.Category,
		EventType:   req.EventType,
		Tags:        req.Tags,
		SeatAmount:  req.SeatAmount,
		CreatedBy:   &req.CreatedBy,
		ImageURL:    req.ImageURL,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, WrapInternalError("failed to create event", err)
	}
	return event, nil
}

// GetEvent retrieves an event; when userID is set, the registration
// flag is filled in for display.
func (s *eventService) GetEvent(ctx context.Context, id int64, userID *int64) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, WrapInternalError("failed to load event", err)
	}
	if event == nil {
		return nil, NewNotFoundError("event not found")
	}

	if userID != nil {
		registered, err := s.events.IsRegistered(ctx, *userID, id)
		if err != nil {
			s.logger.Warn("Failed to check registration",
				zap.Int64("event_id", id),
				zap.Error(err),
			)
		}
		event.IsRegistered = registered
	}
	return event, nil
}

// ListEvents retrieves events with filters and pagination
func (s *eventService) ListEvents(ctx context.Context, req *ListEventsRequest) (*models.PaginatedResponse[models.Event], error) {
	filter := &repositories.EventFilter{
		Search:       req.Search,
		Category:     req.Category,
		EventType:    req.EventType,
		UpcomingOnly: req.UpcomingOnly,
		SortBy:       req.SortBy,
	}
	filter.Limit = req.PerPage
	if req.Page > 1 {
		filter.Offset = (req.Page - 1) * req.PerPage
	}
	filter.Normalize()

	result, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, WrapInternalError("failed to list events", err)
	}

	if req.UserID != nil {
		for i := range result.Data {
			registered, err := s.events.IsRegistered(ctx, *req.UserID, result.Data[i].ID)
			if err != nil {
				continue
			}
			result.Data[i].IsRegistered = registered
		}
	}
	return result, nil
}

// UpdateEvent applies partial edits to an event
func (s *eventService) UpdateEvent(ctx context.Context, req *UpdateEventRequest) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, WrapInternalError("failed to load event", err)
	}
	if event == nil {
		return nil, NewNotFoundError("event not found")
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.EventType != nil {
		switch *req.EventType {
		case models.EventTypePhysical, models.EventTypeOnline, models.EventTypeHybrid:
			event.EventType = *req.EventType
		default:
			return nil, NewValidationError(fmt.Sprintf("unknown event type: %s", *req.EventType), nil)
		}
	}
	if req.Tags != nil {
		event.Tags = req.Tags
	}
	if req.SeatAmount != nil {
		if *req.SeatAmount < 0 {
			return nil, NewValidationError("seat amount cannot be negative", nil)
		}
		event.SeatAmount = *req.SeatAmount
	}
	if req.IsClosed != nil {
		event.IsClosed = *req.IsClosed
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, WrapInternalError("failed to update event", err)
	}
	return event, nil
}

// DeleteEvent removes an event with its registrations
func (s *eventService) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return NewNotFoundError("event not found")
	}
	return nil
}

// SetEventImage attaches an uploaded image to an event
func (s *eventService) SetEventImage(ctx context.Context, eventID int64, imageURL string) (*models.Event, error) {
	if err := s.validator.Var(imageURL, "required,url"); err != nil {
		return nil, NewValidationError("invalid image URL", err)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, WrapInternalError("failed to load event", err)
	}
	if event == nil {
		return nil, NewNotFoundError("event not found")
	}

	if err := s.events.SetImageURL(ctx, eventID, imageURL); err != nil {
		return nil, WrapInternalError("failed to set event image", err)
	}
	event.ImageURL = &imageURL
	return event, nil
}

// ===============================
// REGISTRATIONS
// ===============================

// Register signs a user up for an event, enforcing closed state, the
// date, and seat capacity. Duplicate registrations conflict.
func (s *eventService) Register(ctx context.Context, req *RegisterEventRequest) error {
	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return WrapInternalError("failed to load event", err)
	}
	if event == nil {
		return NewNotFoundError("event not found")
	}
	if event.IsClosed {
		return NewBusinessError("registration for this event is closed", "EVENT_CLOSED")
	}
	if !event.IsUpcoming() {
		return NewBusinessError("this event has already taken place", "EVENT_PAST")
	}

	if event.SeatAmount > 0 {
		// Re-read the count right before inserting; the listing join may
		// be stale.
		count, err := s.events.RegistrationCount(ctx, req.EventID)
		if err != nil {
			return WrapInternalError("failed to count registrations", err)
		}
		event.RegistrationCount = count
	}
	if !event.HasCapacity() {
		return NewBusinessError("this event is fully booked", "EVENT_FULL")
	}

	created, err := s.events.Register(ctx, &models.Registration{
		UserID:          req.UserID,
		EventID:         req.EventID,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return WrapInternalError("failed to register", err)
	}
	if !created {
		return NewConflictError("you are already registered for this event", "ALREADY_REGISTERED")
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishAsync(ctx,
			events.NewEventRegisteredEvent(req.EventID, req.UserID))
	}
	return nil
}

// Unregister removes a user's registration
func (s *eventService) Unregister(ctx context.Context, userID, eventID int64) error {
	if err := s.events.Unregister(ctx, userID, eventID); err != nil {
		return NewNotFoundError("registration not found")
	}
	return nil
}

// GetCalendar retrieves the user's registered events, soonest first
func (s *eventService) GetCalendar(ctx context.Context, userID int64) ([]*models.Event, error) {
	calendar, err := s.events.ListRegisteredEvents(ctx, userID)
	if err != nil {
		return nil, WrapInternalError("failed to load calendar", err)
	}
	return calendar, nil
}

// ===============================
// ADMIN INSIGHTS
// ===============================

// GetDashboard aggregates counters for the admin overview
func (s *eventService) GetDashboard(ctx context.Context) (*models.EventDashboard, error) {
	dash, err := s.events.Dashboard(ctx)
	if err != nil {
		return nil, WrapInternalError("failed to load dashboard", err)
	}
	return dash, nil
}

// ListRegistrations retrieves an event's attendee list
func (s *eventService) ListRegistrations(ctx context.Context, eventID int64) ([]*models.Registration, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, WrapInternalError("failed to load event", err)
	}
	if event == nil {
		return nil, NewNotFoundError("event not found")
	}

	regs, err := s.events.ListRegistrations(ctx, eventID)
	if err != nil {
		return nil, WrapInternalError("failed to list registrations", err)
	}
	return regs, nil
}

// ExportRegistrationsCSV streams the attendee list as CSV
func (s *eventService) ExportRegistrationsCSV(ctx context.Context, eventID int64, w io.Writer) error {
	regs, err := s.ListRegistrations(ctx, eventID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"registration_id", "username", "special_requests", "registered_at"}); err != nil {
		return WrapInternalError("failed to write CSV header", err)
	}

	for _, reg := range regs {
		requests := ""
		if reg.SpecialRequests != nil {
			requests = *reg.SpecialRequests
		}
		record := []string{
			strconv.FormatInt(reg.ID, 10),
			reg.Username,
			requests,
			reg.RegisteredAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return WrapInternalError("failed to write CSV row", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return WrapInternalError("failed to flush CSV", err)
	}
	return nil
}

// ExportEventsCSV streams the full event list as CSV, a page at a time
func (s *eventService) ExportEventsCSV(ctx context.Context, w io.Writer) error {
	writer := csv.NewWriter(w)
	header := []string{
		"event_id", "title", "date", "location", "category",
		"event_type", "seat_amount", "registrations", "is_closed",
	}
	if err := writer.Write(header); err != nil {
		return WrapInternalError("failed to write CSV header", err)
	}

	filter := &repositories.EventFilter{SortBy: "date"}
	filter.Limit = 100
	for {
		filter.Normalize()
		page, err := s.events.List(ctx, filter)
		if err != nil {
			return WrapInternalError("failed to list events", err)
		}

		for i := range page.Data {
			event := &page.Data[i]
			record := []string{
				strconv.FormatInt(event.ID, 10),
				event.Title,
				event.Date.Format(time.RFC3339),
				event.Location,
				event.Category,
				event.EventType,
				strconv.Itoa(event.SeatAmount),
				strconv.Itoa(event.RegistrationCount),
				strconv.FormatBool(event.IsClosed),
			}
			if err := writer.Write(record); err != nil {
				return WrapInternalError("failed to write CSV row", err)
			}
		}

		if len(page.Data) < filter.Limit {
			break
		}
		filter.Offset += filter.Limit
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return WrapInternalError("failed to flush CSV", err)
	}
	return nil
}
