package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"bridgegen/internal/models"
	"bridgegen/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEventService(events *mockEventRepo) EventService {
	repos := &repositories.Collection{Event: events}
	return NewEventService(repos, nil, zap.NewNop())
}

func upcomingEvent(id int64, seats int) *models.Event {
	return &models.Event{
		ID:         id,
		Title:      "Community Picnic",
		Date:       time.Now().Add(72 * time.Hour),
		EventType:  models.EventTypePhysical,
		SeatAmount: seats,
	}
}

func TestRegisterSucceeds(t *testing.T) {
	repo := newMockEventRepo(upcomingEvent(1, 10))
	service := newTestEventService(repo)

	err := service.Register(context.Background(), &RegisterEventRequest{UserID: 5, EventID: 1})
	require.NoError(t, err)

	registered, _ := repo.IsRegistered(context.Background(), 5, 1)
	assert.True(t, registered)
}

func TestRegisterTwiceConflicts(t *testing.T) {
	repo := newMockEventRepo(upcomingEvent(1, 10))
	service := newTestEventService(repo)

	require.NoError(t, service.Register(context.Background(), &RegisterEventRequest{UserID: 5, EventID: 1}))

	err := service.Register(context.Background(), &RegisterEventRequest{UserID: 5, EventID: 1})
	require.Error(t, err)

	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "ALREADY_REGISTERED", se.Code)
}

func TestRegisterClosedEventFails(t *testing.T) {
	event := upcomingEvent(1, 10)
	event.IsClosed = true
	service := newTestEventService(newMockEventRepo(event))

	err := service.Register(context.Background(), &RegisterEventRequest{UserID: 5, EventID: 1})
	require.Error(t, err)

	se, _ := AsServiceError(err)
	assert.Equal(t, "EVENT_CLOSED", se.Code)
}

func TestRegisterPastEventFails(t *testing.T) {
	event := upcomingEvent(1, 10)
	event.Date = time.Now().Add(-time.Hour)
	service := newTestEventService(newMockEventRepo(event))

	err := service.Register(context.Background(), &RegisterEventRequest{UserID: 5, EventID: 1})
	require.Error(t, err)

	se, _ := AsServiceError(err)
	assert.Equal(t, "EVENT_PAST", se.Code)
}

func TestRegisterFullEventFails(t *testing.T) {
	event := upcomingEvent(1, 1)
	repo := newMockEventRepo(event)
	service := newTestEventService(repo)

	require.NoError(t, service.Register(context.Background(), &RegisterEventRequest{UserID: 5, EventID: 1}))

	err := service.Register(context.Background(), &RegisterEventRequest{UserID: 6, EventID: 1})
	require.Error(t, err)

	se, _ := AsServiceError(err)
	assert.Equal(t, "EVENT_FULL", se.Code)
}

func TestRegisterUnlimitedSeats(t *testing.T) {
	repo := newMockEventRepo(upcomingEvent(1, 0))
	service := newTestEventService(repo)

	for userID := int64(1); userID <= 25; userID++ {
		require.NoError(t, service.Register(context.Background(), &RegisterEventRequest{UserID: userID, EventID: 1}))
	}
}

func TestCreateEventRejectsPastDate(t *testing.T) {
	service := newTestEventService(newMockEventRepo())

	_, err := service.CreateEvent(context.Background(), &CreateEventRequest{
		CreatedBy:   1,
		Title:       "Yesterday's Meetup",
		Description: "Too late",
		Date:        time.Now().Add(-time.Hour),
		Location:    "Main Hall",
		Category:    "Community",
		EventType:   models.EventTypePhysical,
	})
	require.Error(t, err)
}

func TestExportRegistrationsCSV(t *testing.T) {
	repo := newMockEventRepo(upcomingEvent(1, 10))
	service := newTestEventService(repo)

	special := "wheelchair access"
	require.NoError(t, service.Register(context.Background(), &RegisterEventRequest{
		UserID: 5, EventID: 1, SpecialRequests: &special,
	}))
	repo.regs[0].Username = "amina"

	var buf bytes.Buffer
	require.NoError(t, service.ExportRegistrationsCSV(context.Background(), 1, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "registration_id,username,special_requests,registered_at", lines[0])
	assert.Contains(t, lines[1], "amina")
	assert.Contains(t, lines[1], "wheelchair access")
}

func TestExportEventsCSV(t *testing.T) {
	first := upcomingEvent(1, 10)
	first.Title = "Community Picnic"
	second := upcomingEvent(2, 0)
	second.Title = "Open Mic Night"
	repo := newMockEventRepo(first, second)
	service := newTestEventService(repo)

	require.NoError(t, service.Register(context.Background(), &RegisterEventRequest{UserID: 5, EventID: 1}))

	var buf bytes.Buffer
	require.NoError(t, service.ExportEventsCSV(context.Background(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "event_id,title,date,location,category,event_type,seat_amount,registrations,is_closed", lines[0])
	assert.Contains(t, buf.String(), "Community Picnic")
	assert.Contains(t, buf.String(), "Open Mic Night")

	for _, line := range lines[1:] {
		if strings.Contains(line, "Community Picnic") {
			assert.True(t, strings.HasSuffix(line, ",10,1,false"), "registration count exported: %s", line)
		}
	}
}

func TestSetEventImage(t *testing.T) {
	repo := newMockEventRepo(upcomingEvent(1, 10))
	service := newTestEventService(repo)

	event, err := service.SetEventImage(context.Background(), 1, "https://cdn.example.com/events/1.jpg")
	require.NoError(t, err)
	require.NotNil(t, event.ImageURL)
	assert.Equal(t, "https://cdn.example.com/events/1.jpg", *event.ImageURL)
	assert.NotNil(t, repo.events[1].ImageURL, "persisted on the event")
}

func TestSetEventImageRejectsBadInput(t *testing.T) {
	service := newTestEventService(newMockEventRepo(upcomingEvent(1, 10)))

	_, err := service.SetEventImage(context.Background(), 1, "not a url")
	require.Error(t, err)

	_, err = service.SetEventImage(context.Background(), 99, "https://cdn.example.com/x.jpg")
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, "NOT_FOUND", se.Type)
}

func TestGetDashboardCounts(t *testing.T) {
	repo := newMockEventRepo(upcomingEvent(1, 10), upcomingEvent(2, 5))
	service := newTestEventService(repo)

	require.NoError(t, service.Register(context.Background(), &RegisterEventRequest{UserID: 5, EventID: 1}))

	dash, err := service.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), dash.TotalEvents)
	assert.Equal(t, int64(1), dash.TotalRegistrations)
}
