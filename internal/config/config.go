package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Auth         AuthConfig
	Cache        CacheConfig
	Media        MediaConfig
	Gamification GamificationConfig
	Logging      LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Environment     string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	MaxHeaderBytes  int
	ServerName      string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	ConnectTimeout     time.Duration
	SlowQueryThreshold time.Duration
	EnableQueryLogging bool
	EnableMetrics      bool
	MigrationsPath     string
	MaxRetryAttempts   int
	RetryBackoff       time.Duration
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret         string
	JWTExpiry         time.Duration
	BCryptCost        int
	MinPasswordLength int
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Provider        string // "memory", "redis"
	TTL             time.Duration
	MaxKeys         int
	CleanupInterval time.Duration
	RedisURL        string
	RedisDB         int
	RedisPassword   string
	PoolSize        int
}

// MediaConfig holds Cloudinary media upload configuration
type MediaConfig struct {
	CloudName     string
	APIKey        string
	APISecret     string
	UploadFolder  string
	MaxFileSize   int64
	UploadTimeout time.Duration
	MaxRetries    int
}

// GamificationConfig holds the business rules for stories and gamification
type GamificationConfig struct {
	EditLockHours     int // caption/description locked after this many hours
	SoftDeleteDays    int // restore window for soft-deleted stories
	ValidCategories   []string
	ValidPrivacy      []string
	MaxCaptionLength  int
	MaxContentLength  int
	MaxCommentLength  int
	BadgeCacheTTL     time.Duration
	UserStatsCacheTTL time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level            string
	Format           string
	EnableStructured bool
}

// Load reads configuration from the environment, with .env support for
// non-production environments.
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load() // fallback to .env
		}
	}

	config := &Config{
		Server:       loadServerConfig(env),
		Database:     loadDatabaseConfig(env),
		Auth:         loadAuthConfig(env),
		Cache:        loadCacheConfig(),
		Media:        loadMediaConfig(),
		Gamification: loadGamificationConfig(),
		Logging:      loadLoggingConfig(env),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadServerConfig(env string) ServerConfig {
	config := ServerConfig{
		Port:            getEnv("PORT", "9000"),
		Environment:     env,
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		GracefulTimeout: getDurationEnv("GRACEFUL_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1MB
		ServerName:      getEnv("SERVER_NAME", "BridgeGen"),
	}

	if env == "development" {
		config.GracefulTimeout = 10 * time.Second
	}

	return config
}

func loadDatabaseConfig(env string) DatabaseConfig {
	return DatabaseConfig{
		URL:                getEnv("DATABASE_URL", ""),
		MaxOpenConns:       getIntEnv("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:       getIntEnv("DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime:    getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		ConnMaxIdleTime:    getDurationEnv("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		ConnectTimeout:     getDurationEnv("DB_CONNECT_TIMEOUT", 10*time.Second),
		SlowQueryThreshold: getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
		EnableQueryLogging: getBoolEnv("DB_ENABLE_QUERY_LOGGING", env != "production"),
		EnableMetrics:      getBoolEnv("DB_ENABLE_METRICS", true),
		MigrationsPath:     getEnv("DB_MIGRATIONS_PATH", "migrations"),
		MaxRetryAttempts:   getIntEnv("DB_MAX_RETRY_ATTEMPTS", 3),
		RetryBackoff:       getDurationEnv("DB_RETRY_BACKOFF", 1*time.Second),
	}
}

func loadAuthConfig(env string) AuthConfig {
	cost := getIntEnv("BCRYPT_COST", 12)
	if env == "development" {
		cost = getIntEnv("BCRYPT_COST", 10)
	}
	return AuthConfig{
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTExpiry:         getDurationEnv("JWT_EXPIRY", 24*time.Hour),
		BCryptCost:        cost,
		MinPasswordLength: getIntEnv("MIN_PASSWORD_LENGTH", 8),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Provider:        getEnv("CACHE_PROVIDER", "memory"),
		TTL:             getDurationEnv("CACHE_TTL", 15*time.Minute),
		MaxKeys:         getIntEnv("CACHE_MAX_KEYS", 10000),
		CleanupInterval: getDurationEnv("CACHE_CLEANUP_INTERVAL", 5*time.Minute),
		RedisURL:        getEnv("REDIS_URL", ""),
		RedisDB:         getIntEnv("REDIS_DB", 0),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		PoolSize:        getIntEnv("REDIS_POOL_SIZE", 10),
	}
}

func loadMediaConfig() MediaConfig {
	return MediaConfig{
		CloudName:     getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:        getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:     getEnv("CLOUDINARY_API_SECRET", ""),
		UploadFolder:  getEnv("CLOUDINARY_UPLOAD_FOLDER", "bridgegen"),
		MaxFileSize:   int64(getIntEnv("MEDIA_MAX_FILE_SIZE", 50*1024*1024)), // 50MB
		UploadTimeout: getDurationEnv("MEDIA_UPLOAD_TIMEOUT", 30*time.Second),
		MaxRetries:    getIntEnv("MEDIA_MAX_RETRIES", 3),
	}
}

func loadGamificationConfig() GamificationConfig {
	return GamificationConfig{
		EditLockHours:  getIntEnv("STORY_EDIT_LOCK_HOURS", 24),
		SoftDeleteDays: getIntEnv("STORY_SOFT_DELETE_DAYS", 7),
		ValidCategories: getSliceEnv("STORY_CATEGORIES", []string{
			"Life Lessons",
			"Historical Events",
			"Family Traditions",
			"Career Journey",
			"Hobbies & Skills",
			"Travel Adventures",
		}),
		ValidPrivacy:      getSliceEnv("STORY_PRIVACY_OPTIONS", []string{"Public", "Friends Only", "Specific Groups"}),
		MaxCaptionLength:  getIntEnv("STORY_MAX_CAPTION_LENGTH", 200),
		MaxContentLength:  getIntEnv("STORY_MAX_CONTENT_LENGTH", 5000),
		MaxCommentLength:  getIntEnv("COMMENT_MAX_LENGTH", 2000),
		BadgeCacheTTL:     getDurationEnv("BADGE_CACHE_TTL", 10*time.Minute),
		UserStatsCacheTTL: getDurationEnv("USER_STATS_CACHE_TTL", 30*time.Second),
	}
}

func loadLoggingConfig(env string) LoggingConfig {
	format := "json"
	if env == "development" {
		format = "console"
	}
	return LoggingConfig{
		Level:            getEnv("LOG_LEVEL", "info"),
		Format:           getEnv("LOG_FORMAT", format),
		EnableStructured: getBoolEnv("LOG_STRUCTURED", true),
	}
}

// ===============================
// VALIDATION
// ===============================

// Validate checks the configuration for required values and sane limits
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	if err := c.Auth.Validate(c.Server.Environment); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	if err := c.Gamification.Validate(); err != nil {
		return fmt.Errorf("gamification config: %w", err)
	}
	if c.Cache.Provider == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when CACHE_PROVIDER=redis")
	}
	return nil
}

// Validate checks the database configuration
func (d *DatabaseConfig) Validate() error {
	if d.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if d.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1")
	}
	if d.MaxIdleConns > d.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS cannot exceed DB_MAX_OPEN_CONNS")
	}
	return nil
}

// Validate checks the auth configuration
func (a *AuthConfig) Validate(env string) error {
	if a.JWTSecret == "" {
		if env == "production" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		a.JWTSecret = "dev-only-insecure-secret"
	}
	if a.BCryptCost < 4 || a.BCryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	return nil
}

// Validate checks the gamification business rules
func (g *GamificationConfig) Validate() error {
	if g.EditLockHours < 0 {
		return fmt.Errorf("STORY_EDIT_LOCK_HOURS cannot be negative")
	}
	if g.SoftDeleteDays < 1 {
		return fmt.Errorf("STORY_SOFT_DELETE_DAYS must be at least 1")
	}
	if len(g.ValidCategories) == 0 {
		return fmt.Errorf("STORY_CATEGORIES cannot be empty")
	}
	return nil
}

// EditLock returns the edit lock window as a duration
func (g *GamificationConfig) EditLock() time.Duration {
	return time.Duration(g.EditLockHours) * time.Hour
}

// RestoreWindow returns the soft-delete restore window as a duration
func (g *GamificationConfig) RestoreWindow() time.Duration {
	return time.Duration(g.SoftDeleteDays) * 24 * time.Hour
}

// IsProduction returns true when running in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment returns true when running in development
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// ===============================
// ENV HELPERS
// ===============================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
