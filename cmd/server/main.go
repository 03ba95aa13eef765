// @title           BridgeGen API
// @version         1.0
// @description     Stories, gamification and events platform API

// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bridgegen/internal/cache"
	"bridgegen/internal/config"
	"bridgegen/internal/database"
	_ "bridgegen/internal/docs"
	"bridgegen/internal/events"
	"bridgegen/internal/repositories"
	"bridgegen/internal/router"
	"bridgegen/internal/services"

	"go.uber.org/zap"
)

func main() {
	logger, err := initLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger.Info("Starting BridgeGen")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	db, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Database ready")

	cacheStore, err := cache.NewCache(&cfg.Cache, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer cacheStore.Close()

	eventBus := events.NewInMemoryEventBus(events.DefaultEventBusConfig(), logger)
	if err := eventBus.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start event bus", zap.Error(err))
	}

	repos := repositories.NewCollection(db, logger)
	serviceCollection, err := services.NewServiceCollection(repos, cacheStore, eventBus, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	startPurgeLoop(serviceCollection.Story, logger)

	handler := router.New(&router.Dependencies{
		Services: serviceCollection,
		DB:       db,
		Cache:    cacheStore,
		EventBus: eventBus,
		Config:   cfg,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		logger.Error("Event bus shutdown failed", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}

// startPurgeLoop hard-deletes soft-deleted stories past their restore
// window once a day.
func startPurgeLoop(stories services.StoryService, logger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			purged, err := stories.PurgeExpiredStories(ctx)
			cancel()

			if err != nil {
				logger.Warn("Story purge failed", zap.Error(err))
				continue
			}
			if purged > 0 {
				logger.Info("Purged expired stories", zap.Int64("count", purged))
			}
		}
	}()
}

func initLogger() (*zap.Logger, error) {
	env := os.Getenv("GO_ENV")
	var config zap.Config

	switch env {
	case "production":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "staging":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
