package events

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishDeliversToSubscribedHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	var got Event
	require.NoError(t, bus.Subscribe(EventTypeBadgeAwarded, EventHandlerFunc{
		ID: "capture",
		Func: func(ctx context.Context, event Event) error {
			got = event
			return nil
		},
	}))

	event := NewBadgeAwardedEvent(3, "First Story", 42)
	require.NoError(t, bus.Publish(context.Background(), event))

	require.NotNil(t, got)
	assert.Equal(t, EventTypeBadgeAwarded, got.GetEventType())
	assert.Equal(t, int64(42), *got.GetUserID())
}

func TestPublishSkipsOtherEventTypes(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	calls := 0
	require.NoError(t, bus.Subscribe(EventTypeStoryLiked, EventHandlerFunc{
		ID: "counter",
		Func: func(ctx context.Context, event Event) error {
			calls++
			return nil
		},
	}))

	author := int64(5)
	require.NoError(t, bus.Publish(context.Background(), NewStoryCreatedEvent(1, "Life Lessons", &author)))
	assert.Zero(t, calls)
}

func TestPublishAsyncProcessedByWorkers(t *testing.T) {
	bus := NewInMemoryEventBus(&EventBusConfig{
		BufferSize:     16,
		WorkerCount:    2,
		HandlerTimeout: time.Second,
	}, zap.NewNop())

	var mu sync.Mutex
	seen := make(map[string]bool)
	done := make(chan struct{}, 3)
	require.NoError(t, bus.Subscribe(EventTypeStoryShared, EventHandlerFunc{
		ID: "collector",
		Func: func(ctx context.Context, event Event) error {
			mu.Lock()
			seen[event.GetEventID()] = true
			mu.Unlock()
			done <- struct{}{}
			return nil
		},
	}))

	require.NoError(t, bus.Start(context.Background()))
	defer bus.Stop(context.Background())

	author := int64(5)
	for i := 0; i < 3; i++ {
		require.NoError(t, bus.PublishAsync(context.Background(), NewStorySharedEvent(int64(i+1), i+1, &author)))
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for async delivery")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 3)
}

func TestHandlerFailureDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	require.NoError(t, bus.Subscribe(EventTypeCommentCreated, EventHandlerFunc{
		ID:   "failing",
		Func: func(ctx context.Context, event Event) error { return fmt.Errorf("boom") },
	}))

	handled := false
	require.NoError(t, bus.Subscribe(EventTypeCommentCreated, EventHandlerFunc{
		ID: "healthy",
		Func: func(ctx context.Context, event Event) error {
			handled = true
			return nil
		},
	}))

	author := int64(5)
	err := bus.Publish(context.Background(), NewCommentCreatedEvent(1, 2, &author))
	require.Error(t, err, "first handler error surfaces")
	assert.True(t, handled, "remaining handlers still run")

	stats := bus.Stats()
	assert.Equal(t, int64(1), stats.EventsFailed)
	assert.Equal(t, int64(1), stats.EventsProcessed)
}

func TestUnsubscribeRemovesHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	require.NoError(t, bus.Subscribe(EventTypeStoryLiked, EventHandlerFunc{
		ID:   "temp",
		Func: func(ctx context.Context, event Event) error { return nil },
	}))
	assert.Equal(t, 1, bus.Stats().HandlersCount)

	require.NoError(t, bus.Unsubscribe(EventTypeStoryLiked, "temp"))
	assert.Zero(t, bus.Stats().HandlersCount)

	assert.Error(t, bus.Unsubscribe(EventTypeStoryLiked, "temp"))
}
