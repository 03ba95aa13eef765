package v1

import (
	"fmt"
	"net/http"

	"bridgegen/internal/contextutils"
	"bridgegen/internal/response"
	"bridgegen/internal/services"
)

// EventController handles event and registration endpoints
type EventController struct {
	events  services.EventService
	builder *response.Builder
}

// NewEventController creates a new event controller
func NewEventController(events services.EventService, builder *response.Builder) *EventController {
	return &EventController{events: events, builder: builder}
}

// ===============================
// EVENT LIFECYCLE
// ===============================

// Create handles POST /api/v1/admin/events
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}

	var req services.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}
	req.CreatedBy = userID

	event, err := c.events.CreateEvent(r.Context(), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Created(w, r, event)
}

// Get handles GET /api/v1/events/{id}
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid event ID")
		return
	}

	event, err := c.events.GetEvent(r.Context(), id, contextutils.GetUserID(r.Context()))
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, event)
}

// List handles GET /api/v1/events
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	req := &services.ListEventsRequest{
		UserID:       contextutils.GetUserID(r.Context()),
		Search:       r.URL.Query().Get("search"),
		Category:     r.URL.Query().Get("category"),
		EventType:    r.URL.Query().Get("type"),
		UpcomingOnly: r.URL.Query().Get("upcoming") == "true",
		SortBy:       r.URL.Query().Get("sort"),
		Page:         queryInt(r, "page", 1),
		PerPage:      queryInt(r, "per_page", 20),
	}

	page, err := c.events.ListEvents(r.Context(), req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	response.Paginated(c.builder, w, r, page)
}

// Update handles PATCH /api/v1/admin/events/{id}
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid event ID")
		return
	}

	var req services.UpdateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}
	req.EventID = id

	event, err := c.events.UpdateEvent(r.Context(), &req)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, event)
}

// Delete handles DELETE /api/v1/admin/events/{id}
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid event ID")
		return
	}

	if err := c.events.DeleteEvent(r.Context(), id); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.NoContent(w)
}

// SetImage handles PUT /api/v1/admin/events/{id}/image
func (c *EventController) SetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid event ID")
		return
	}

	var req services.SetEventImageRequest
	if err := decodeJSON(r, &req); err != nil {
		c.builder.BadRequest(w, r, "invalid request body")
		return
	}

	event, err := c.events.SetEventImage(r.Context(), id, req.ImageURL)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, event)
}

// ===============================
// REGISTRATIONS
// ===============================

// Register handles POST /api/v1/events/{id}/register
func (c *EventController) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid event ID")
		return
	}

	var req services.RegisterEventRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			c.builder.BadRequest(w, r, "invalid request body")
			return
		}
	}
	req.UserID = userID
	req.EventID = id

	if err := c.events.Register(r.Context(), &req); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusCreated, map[string]interface{}{"registered": true})
}

// Unregister handles DELETE /api/v1/events/{id}/register
func (c *EventController) Unregister(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid event ID")
		return
	}

	if err := c.events.Unregister(r.Context(), userID, id); err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.NoContent(w)
}

// Calendar handles GET /api/v1/me/calendar
func (c *EventController) Calendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(c.builder, w, r)
	if !ok {
		return
	}

	calendar, err := c.events.GetCalendar(r.Context(), userID)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, calendar)
}

// ===============================
// ADMIN INSIGHTS
// ===============================

// Dashboard handles GET /api/v1/admin/events/dashboard
func (c *EventController) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := c.events.GetDashboard(r.Context())
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, dash)
}

// Registrations handles GET /api/v1/admin/events/{id}/registrations
func (c *EventController) Registrations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid event ID")
		return
	}

	regs, err := c.events.ListRegistrations(r.Context(), id)
	if err != nil {
		c.builder.Error(w, r, err)
		return
	}
	c.builder.Success(w, r, http.StatusOK, regs)
}

// ExportRegistrations handles GET /api/v1/admin/events/{id}/registrations.csv
func (c *EventController) ExportRegistrations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		c.builder.BadRequest(w, r, "invalid event ID")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="event_%d_registrations.csv"`, id))

	if err := c.events.ExportRegistrationsCSV(r.Context(), id, w); err != nil {
		c.builder.Error(w, r, err)
		return
	}
}

// ExportEvents handles GET /api/v1/admin/events.csv
func (c *EventController) ExportEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="events.csv"`)

	if err := c.events.ExportEventsCSV(r.Context(), w); err != nil {
		c.builder.Error(w, r, err)
		return
	}
}
