package database

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Database health states
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus represents the current health of the database
type HealthStatus struct {
	Status          string        `json:"status"`
	Timestamp       time.Time     `json:"timestamp"`
	ResponseTime    time.Duration `json:"response_time"`
	OpenConnections int           `json:"open_connections"`
	InUse           int           `json:"in_use"`
	Idle            int           `json:"idle"`
	Errors          []string      `json:"errors,omitempty"`
}

// HealthChecker periodically pings the database and keeps the last status
type HealthChecker struct {
	manager *Manager
	logger  *zap.Logger

	mu        sync.RWMutex
	lastCheck HealthStatus

	checkInterval   time.Duration
	timeoutDuration time.Duration
	stopCh          chan struct{}
	stopOnce        sync.Once
}

// NewHealthChecker creates a health checker for the given manager
func NewHealthChecker(manager *Manager, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		manager:         manager,
		logger:          logger,
		checkInterval:   30 * time.Second,
		timeoutDuration: 5 * time.Second,
		stopCh:          make(chan struct{}),
	}
}

// Check performs a health check and records the result
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	start := time.Now()
	status := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: start,
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.timeoutDuration)
	defer cancel()

	if err := h.manager.DB().PingContext(checkCtx); err != nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, err.Error())
	}
	status.ResponseTime = time.Since(start)

	stats := h.manager.DB().Stats()
	status.OpenConnections = stats.OpenConnections
	status.InUse = stats.InUse
	status.Idle = stats.Idle

	// Pool saturation is survivable but worth surfacing
	if status.Status == StatusHealthy && stats.OpenConnections > 0 &&
		stats.InUse == h.manager.Config().MaxOpenConns {
		status.Status = StatusDegraded
		status.Errors = append(status.Errors, "connection pool saturated")
	}

	h.mu.Lock()
	h.lastCheck = status
	h.mu.Unlock()

	return status
}

// LastStatus returns the most recent health check result
func (h *HealthChecker) LastStatus() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastCheck
}

// StartMonitoring begins periodic background health checks
func (h *HealthChecker) StartMonitoring() {
	go func() {
		ticker := time.NewTicker(h.checkInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				status := h.Check(context.Background())
				if status.Status != StatusHealthy {
					h.logger.Warn("Database health check failed",
						zap.String("status", status.Status),
						zap.Strings("errors", status.Errors),
						zap.Duration("response_time", status.ResponseTime),
					)
				}
			case <-h.stopCh:
				return
			}
		}
	}()
}

// Stop terminates background monitoring
func (h *HealthChecker) Stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
}
