package database

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Metrics collects database query metrics
type Metrics struct {
	logger *zap.Logger

	queryCount     int64
	queryDuration  int64 // nanoseconds
	errorCount     int64
	slowQueryCount int64

	slowQueryThreshold time.Duration
}

// MetricsSnapshot is a point-in-time view of the collected metrics
type MetricsSnapshot struct {
	QueryCount      int64         `json:"query_count"`
	ErrorCount      int64         `json:"error_count"`
	SlowQueryCount  int64         `json:"slow_query_count"`
	AverageDuration time.Duration `json:"average_duration"`
}

// NewMetrics creates a metrics collector
func NewMetrics(slowQueryThreshold time.Duration, logger *zap.Logger) *Metrics {
	return &Metrics{
		logger:             logger,
		slowQueryThreshold: slowQueryThreshold,
	}
}

// RecordQuery records a completed query
func (m *Metrics) RecordQuery(duration time.Duration, err error) {
	atomic.AddInt64(&m.queryCount, 1)
	atomic.AddInt64(&m.queryDuration, int64(duration))
	if err != nil {
		atomic.AddInt64(&m.errorCount, 1)
	}
	if duration > m.slowQueryThreshold {
		atomic.AddInt64(&m.slowQueryCount, 1)
	}
}

// Snapshot returns the current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := atomic.LoadInt64(&m.queryCount)
	total := atomic.LoadInt64(&m.queryDuration)

	var avg time.Duration
	if count > 0 {
		avg = time.Duration(total / count)
	}

	return MetricsSnapshot{
		QueryCount:      count,
		ErrorCount:      atomic.LoadInt64(&m.errorCount),
		SlowQueryCount:  atomic.LoadInt64(&m.slowQueryCount),
		AverageDuration: avg,
	}
}
