package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"bridgegen/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Manager wraps the database connection with metrics, health checking
// and slow-query logging.
type Manager struct {
	db      *sql.DB
	logger  *zap.Logger
	metrics *Metrics
	health  *HealthChecker
	config  *config.DatabaseConfig
	mu      sync.RWMutex
}

// NewManager opens a PostgreSQL connection pool and verifies connectivity,
// retrying with exponential backoff for transient startup failures.
func NewManager(cfg *config.DatabaseConfig, logger *zap.Logger) (*Manager, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	configureConnectionPool(db, cfg)

	// Databases started alongside the service may not accept connections
	// immediately; retry the initial ping.
	pingOnce := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()
		return db.PingContext(ctx)
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(cfg.MaxRetryAttempts))
	if err := backoff.RetryNotify(pingOnce, policy, func(err error, next time.Duration) {
		logger.Warn("Database not ready, retrying",
			zap.Error(err),
			zap.Duration("next_attempt_in", next),
		)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	manager := &Manager{
		db:     db,
		logger: logger,
		config: cfg,
	}
	manager.metrics = NewMetrics(cfg.SlowQueryThreshold, logger)
	manager.health = NewHealthChecker(manager, logger)

	logger.Info("Database manager initialized",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
	)

	return manager, nil
}

func configureConnectionPool(db *sql.DB, cfg *config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// DB returns the underlying database connection
func (m *Manager) DB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Config returns the database configuration
func (m *Manager) Config() *config.DatabaseConfig {
	return m.config
}

// Metrics returns the query metrics collector
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Health returns the health checker
func (m *Manager) Health() *HealthChecker {
	return m.health
}

// ===============================
// QUERY EXECUTION
// ===============================

// ExecContext executes a statement, recording duration and errors
func (m *Manager) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := m.db.ExecContext(ctx, query, args...)
	m.record(query, time.Since(start), err)
	return result, err
}

// QueryContext executes a query that returns rows
func (m *Manager) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := m.db.QueryContext(ctx, query, args...)
	m.record(query, time.Since(start), err)
	return rows, err
}

// QueryRowContext executes a query that returns a single row
func (m *Manager) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := m.db.QueryRowContext(ctx, query, args...)
	m.record(query, time.Since(start), nil)
	return row
}

// BeginTx starts a new transaction
func (m *Manager) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return m.db.BeginTx(ctx, opts)
}

func (m *Manager) record(query string, duration time.Duration, err error) {
	m.metrics.RecordQuery(duration, err)
	if m.config.EnableQueryLogging && duration > m.config.SlowQueryThreshold {
		m.logger.Warn("Slow query detected",
			zap.String("query", truncateQuery(query)),
			zap.Duration("duration", duration),
		)
	}
}

func truncateQuery(query string) string {
	const maxLength = 200
	if len(query) <= maxLength {
		return query
	}
	return query[:maxLength] + "..."
}

// ===============================
// MIGRATIONS
// ===============================

// Migrate runs pending schema migrations using a separate connection so the
// migrator cannot close the pool the application is using.
func (m *Manager) Migrate(migrationsPath string) error {
	migrationDB, err := sql.Open("postgres", m.config.URL)
	if err != nil {
		return fmt.Errorf("failed to create migration connection: %w", err)
	}
	defer migrationDB.Close()

	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("migration connection failed: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	currentVersion, dirty, err := migrator.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	m.logger.Info("Database migrations applied",
		zap.Uint("from_version", currentVersion),
		zap.Uint("to_version", newVersion),
	)
	return nil
}

// Close shuts down the health monitor and closes the connection pool
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.health.Stop()
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
