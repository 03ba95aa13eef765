package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ===============================
// EVENT INTERFACE
// ===============================

// Event represents a domain event
type Event interface {
	GetEventID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetUserID() *int64
}

// BaseEvent provides common event functionality
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	UserID    *int64    `json:"user_id,omitempty"`
}

// GetEventID returns the event ID
func (e *BaseEvent) GetEventID() string { return e.EventID }

// GetEventType returns the event type
func (e *BaseEvent) GetEventType() string { return e.EventType }

// GetTimestamp returns the event timestamp
func (e *BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// GetUserID returns the user ID associated with the event
func (e *BaseEvent) GetUserID() *int64 { return e.UserID }

// ===============================
// EVENT BUS INTERFACE
// ===============================

// EventBus defines the event publishing and subscription interface
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	PublishAsync(ctx context.Context, event Event) error
	Subscribe(eventType string, handler EventHandler) error
	Unsubscribe(eventType string, handlerID string) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Stats() EventBusStats
}

// EventHandler represents an event handler
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
	GetHandlerID() string
}

// EventHandlerFunc adapts a function to the EventHandler interface
type EventHandlerFunc struct {
	ID   string
	Func func(ctx context.Context, event Event) error
}

// Handle implements EventHandler
func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error {
	return f.Func(ctx, event)
}

// GetHandlerID implements EventHandler
func (f EventHandlerFunc) GetHandlerID() string { return f.ID }

// EventBusStats represents event bus statistics
type EventBusStats struct {
	EventsPublished int64 `json:"events_published"`
	EventsProcessed int64 `json:"events_processed"`
	EventsFailed    int64 `json:"events_failed"`
	HandlersCount   int   `json:"handlers_count"`
	QueueDepth      int   `json:"queue_depth"`
}

// ===============================
// IN-MEMORY EVENT BUS
// ===============================

// EventBusConfig holds configuration for the event bus
type EventBusConfig struct {
	BufferSize     int           `json:"buffer_size"`
	WorkerCount    int           `json:"worker_count"`
	HandlerTimeout time.Duration `json:"handler_timeout"`
}

// DefaultEventBusConfig returns default configuration
func DefaultEventBusConfig() *EventBusConfig {
	return &EventBusConfig{
		BufferSize:     1000,
		WorkerCount:    5,
		HandlerTimeout: 30 * time.Second,
	}
}

// inMemoryEventBus implements EventBus using in-memory channels
type inMemoryEventBus struct {
	mu             sync.RWMutex
	handlers       map[string][]EventHandler
	eventQueue     chan eventMessage
	logger         *zap.Logger
	workerCount    int
	handlerTimeout time.Duration

	eventsPublished int64
	eventsProcessed int64
	eventsFailed    int64

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

type eventMessage struct {
	event     Event
	timestamp time.Time
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(config *EventBusConfig, logger *zap.Logger) EventBus {
	if config == nil {
		config = DefaultEventBusConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &inMemoryEventBus{
		handlers:       make(map[string][]EventHandler),
		eventQueue:     make(chan eventMessage, config.BufferSize),
		logger:         logger,
		workerCount:    config.WorkerCount,
		handlerTimeout: config.HandlerTimeout,
	}
}

// Publish delivers an event to all subscribed handlers synchronously
func (b *inMemoryEventBus) Publish(ctx context.Context, event Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	atomic.AddInt64(&b.eventsPublished, 1)
	return b.processEvent(ctx, event)
}

// PublishAsync queues an event for background delivery
func (b *inMemoryEventBus) PublishAsync(ctx context.Context, event Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	select {
	case b.eventQueue <- eventMessage{event: event, timestamp: time.Now()}:
		atomic.AddInt64(&b.eventsPublished, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("event queue is full")
	}
}

// Subscribe registers a handler for events of a specific type
func (b *inMemoryEventBus) Subscribe(eventType string, handler EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	b.logger.Debug("Event handler subscribed",
		zap.String("event_type", eventType),
		zap.String("handler_id", handler.GetHandlerID()),
	)
	return nil
}

// Unsubscribe removes a handler by ID
func (b *inMemoryEventBus) Unsubscribe(eventType string, handlerID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventType]
	for i, h := range handlers {
		if h.GetHandlerID() == handlerID {
			b.handlers[eventType] = append(handlers[:i], handlers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("handler %s not subscribed to %s", handlerID, eventType)
}

// Start launches the background workers that drain the async queue
func (b *inMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return fmt.Errorf("event bus already started")
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.started = true

	for i := 0; i < b.workerCount; i++ {
		b.wg.Add(1)
		go b.worker(workerCtx)
	}

	b.logger.Info("Event bus started", zap.Int("workers", b.workerCount))
	return nil
}

// Stop drains outstanding work and terminates the workers
func (b *inMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return nil
	}
	b.started = false
	b.mu.Unlock()

	b.cancel()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a snapshot of bus statistics
func (b *inMemoryEventBus) Stats() EventBusStats {
	b.mu.RLock()
	handlerCount := 0
	for _, hs := range b.handlers {
		handlerCount += len(hs)
	}
	b.mu.RUnlock()

	return EventBusStats{
		EventsPublished: atomic.LoadInt64(&b.eventsPublished),
		EventsProcessed: atomic.LoadInt64(&b.eventsProcessed),
		EventsFailed:    atomic.LoadInt64(&b.eventsFailed),
		HandlersCount:   handlerCount,
		QueueDepth:      len(b.eventQueue),
	}
}

func (b *inMemoryEventBus) worker(ctx context.Context) {
	defer b.wg.Done()

	for {
		select {
		case msg := <-b.eventQueue:
			if err := b.processEvent(ctx, msg.event); err != nil {
				b.logger.Warn("Async event processing failed",
					zap.String("event_type", msg.event.GetEventType()),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (b *inMemoryEventBus) processEvent(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.handlers[event.GetEventType()]...)
	b.mu.RUnlock()

	var firstErr error
	for _, handler := range handlers {
		handlerCtx, cancel := context.WithTimeout(ctx, b.handlerTimeout)
		err := handler.Handle(handlerCtx, event)
		cancel()

		if err != nil {
			atomic.AddInt64(&b.eventsFailed, 1)
			b.logger.Error("Event handler failed",
				zap.String("event_type", event.GetEventType()),
				zap.String("handler_id", handler.GetHandlerID()),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		atomic.AddInt64(&b.eventsProcessed, 1)
	}
	return firstErr
}
