package v1

import (
	"net/http"
	"time"

	"bridgegen/internal/cache"
	"bridgegen/internal/database"
	"bridgegen/internal/events"
	"bridgegen/internal/response"
)

// HealthController reports service health for probes and dashboards
type HealthController struct {
	db      *database.Manager
	cache   cache.Cache
	bus     events.EventBus
	builder *response.Builder
}

// NewHealthController creates a new health controller
func NewHealthController(db *database.Manager, c cache.Cache, bus events.EventBus, builder *response.Builder) *HealthController {
	return &HealthController{db: db, cache: c, bus: bus, builder: builder}
}

// Health handles GET /health
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := c.db.Health().Check(r.Context())

	cacheStatus := "healthy"
	if err := c.cache.Health(r.Context()); err != nil {
		cacheStatus = "unhealthy"
	}

	body := map[string]interface{}{
		"status":    dbStatus.Status,
		"timestamp": time.Now().UTC(),
		"database": map[string]interface{}{
			"status":        dbStatus.Status,
			"response_time": dbStatus.ResponseTime.String(),
			"open_conns":    dbStatus.OpenConnections,
		},
		"cache":     cacheStatus,
		"event_bus": c.bus.Stats(),
		"metrics":   c.db.Metrics().Snapshot(),
	}

	status := http.StatusOK
	if dbStatus.Status == database.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.builder.Success(w, r, status, body)
}
