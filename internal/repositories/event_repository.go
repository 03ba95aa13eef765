package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"bridgegen/internal/database"
	"bridgegen/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// eventRepository implements EventRepository
type eventRepository struct {
	*BaseRepository
}

// NewEventRepository creates a new instance of EventRepository
func NewEventRepository(db *database.Manager, logger *zap.Logger) EventRepository {
	return &eventRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const eventColumns = `
	e.id, e.title, e.description, e.date, e.location, e.category,
	e.event_type, e.tags, e.seat_amount, e.created_by, e.created_at,
	e.is_closed, e.image_url,
	COALESCE(rc.registration_count, 0) AS registration_count`

const eventCountJoin = `
	LEFT JOIN (
		SELECT event_id, COUNT(*) AS registration_count
		FROM registrations
		GROUP BY event_id
	) rc ON e.id = rc.event_id`

// ===============================
// BASIC CRUD OPERATIONS
// ===============================

// Create inserts a new event
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (
			title, description, date, location, category, event_type,
			tags, seat_amount, created_by, is_closed, image_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.QueryRowContext(
		ctx, query,
		event.Title, event.Description, event.Date, event.Location,
		event.Category, event.EventType, pq.Array(event.Tags),
		event.SeatAmount, event.CreatedBy, event.IsClosed, event.ImageURL,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		r.GetLogger().Error("Failed to create event",
			zap.Error(err),
			zap.String("title", event.Title),
		)
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.GetLogger().Info("Event created",
		zap.Int64("event_id", event.ID),
		zap.String("title", event.Title),
	)
	return nil
}

// GetByID retrieves an event with its registration count
func (r *eventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events e %s
		WHERE e.id = $1`, eventColumns, eventCountJoin)

	event, err := r.scanEvent(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// List retrieves events with filtering, sorting and pagination
func (r *eventRepository) List(ctx context.Context, filter *EventFilter) (*models.PaginatedResponse[models.Event], error) {
	where := []string{"true"}
	args := []interface{}{}
	argPos := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf(
			"(e.title ILIKE $%d OR e.description ILIKE $%d OR e.location ILIKE $%d)",
			argPos, argPos, argPos,
		))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("e.category = $%d", argPos))
		args = append(args, filter.Category)
		argPos++
	}
	if filter.EventType != "" {
		where = append(where, fmt.Sprintf("e.event_type = $%d", argPos))
		args = append(args, filter.EventType)
		argPos++
	}
	if filter.UpcomingOnly {
		where = append(where, "e.date > NOW()")
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events e WHERE %s", whereClause)
	if err := r.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	orderBy := "e.date ASC"
	switch filter.SortBy {
	case "popularity":
		orderBy = "registration_count DESC, e.date ASC"
	case "newest":
		orderBy = "e.created_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM events e %s
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		eventColumns, eventCountJoin, whereClause, orderBy, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return &models.PaginatedResponse[models.Event]{
		Data:       events,
		Pagination: buildPaginationMeta(total, filter.Limit, filter.Offset),
	}, nil
}

// Update persists editable event fields
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events SET
			title = $2, description = $3, date = $4, location = $5,
			category = $6, event_type = $7, tags = $8, seat_amount = $9,
			is_closed = $10
		WHERE id = $1`
	return r.mustAffect(ctx, query, "event",
		event.ID, event.Title, event.Description, event.Date,
		event.Location, event.Category, event.EventType,
		pq.Array(event.Tags), event.SeatAmount, event.IsClosed)
}

// Delete removes an event. Registrations cascade at the schema level.
func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	return r.mustAffect(ctx, `DELETE FROM events WHERE id = $1`, "event", id)
}

// SetImageURL stores the uploaded poster location
func (r *eventRepository) SetImageURL(ctx context.Context, id int64, url string) error {
	return r.mustAffect(ctx,
		`UPDATE events SET image_url = $2 WHERE id = $1`, "event", id, url)
}

// Dashboard aggregates counters for the admin overview
func (r *eventRepository) Dashboard(ctx context.Context) (*models.EventDashboard, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM events) AS total_events,
			(SELECT COUNT(*) FROM registrations) AS total_registrations,
			(SELECT COUNT(*) FROM events WHERE date > NOW()) AS upcoming_events`

	var dash models.EventDashboard
	err := r.QueryRowContext(ctx, query).Scan(
		&dash.TotalEvents, &dash.TotalRegistrations, &dash.UpcomingEvents,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return &dash, nil
}

// ===============================
// REGISTRATIONS
// ===============================

// Register inserts the registration. The unique constraint absorbs
// concurrent duplicates; returns false when already registered.
func (r *eventRepository) Register(ctx context.Context, reg *models.Registration) (bool, error) {
	query := `
		INSERT INTO registrations (user_id, event_id, special_requests)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, event_id) DO NOTHING
		RETURNING id, registered_at`

	err := r.QueryRowContext(
		ctx, query,
		reg.UserID, reg.EventID, reg.SpecialRequests,
	).Scan(&reg.ID, &reg.RegisteredAt)

	if err != nil {
		// ON CONFLICT DO NOTHING returns no row for duplicates
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to register: %w", err)
	}

	r.GetLogger().Info("Event registration created",
		zap.Int64("user_id", reg.UserID),
		zap.Int64("event_id", reg.EventID),
	)
	return true, nil
}

// Unregister removes a user's registration
func (r *eventRepository) Unregister(ctx context.Context, userID, eventID int64) error {
	return r.mustAffect(ctx,
		`DELETE FROM registrations WHERE user_id = $1 AND event_id = $2`,
		"registration", userID, eventID)
}

// RegistrationCount returns the current registration total for an event
func (r *eventRepository) RegistrationCount(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

// IsRegistered reports whether the user is registered for the event
func (r *eventRepository) IsRegistered(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE user_id = $1 AND event_id = $2
		)`, userID, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return exists, nil
}

// ListRegistrations retrieves an event's registrations with usernames
// for the admin attendee list and CSV export.
func (r *eventRepository) ListRegistrations(ctx context.Context, eventID int64) ([]*models.Registration, error) {
	query := `
		SELECT r.id, r.user_id, r.event_id, r.special_requests,
		       r.registered_at, u.username
		FROM registrations r
		INNER JOIN users u ON r.user_id = u.id
		WHERE r.event_id = $1
		ORDER BY r.registered_at ASC`

	rows, err := r.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]*models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.EventID, &reg.SpecialRequests,
			&reg.RegisteredAt, &reg.Username,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, &reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrations: %w", err)
	}
	return regs, nil
}

// ListRegisteredEvents retrieves the events a user registered for,
// soonest first, for the personal calendar.
func (r *eventRepository) ListRegisteredEvents(ctx context.Context, userID int64) ([]*models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events e %s
		INNER JOIN registrations my ON e.id = my.event_id AND my.user_id = $1
		ORDER BY e.date ASC`, eventColumns, eventCountJoin)

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.IsRegistered = true
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func (r *eventRepository) scanEvent(row rowScanner) (*models.Event, error) {
	var event models.Event
	var tags pq.StringArray

	err := row.Scan(
		&event.ID, &event.Title, &event.Description, &event.Date,
		&event.Location, &event.Category, &event.EventType, &tags,
		&event.SeatAmount, &event.CreatedBy, &event.CreatedAt,
		&event.IsClosed, &event.ImageURL, &event.RegistrationCount,
	)
	if err != nil {
		return nil, err
	}

	event.Tags = tags
	return &event, nil
}
