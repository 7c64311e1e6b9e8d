package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "bloodlink-backend/internal/api/http"
	"bloodlink-backend/internal/config"
	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/metrics"
	"bloodlink-backend/internal/repository/postgres"
	"bloodlink-backend/internal/security"
	"bloodlink-backend/internal/service"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting BloodLink Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Matching configuration", "strategy", cfg.Matching.Strategy)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Info("Database schema applied")
	}

	// Initialize Repositories
	store := postgres.NewStore(db)
	m := metrics.New()

	// Lifecycle event stream
	publisher := events.NewNopPublisher()
	var eventQueue *events.AsyncPublisher
	if cfg.Redis.Enabled() {
		timeout := cfg.Redis.PublishTimeout()
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   -1,
			DialTimeout:  timeout,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		})
		defer rdb.Close()
		pingCtx, cancelPing := context.WithTimeout(context.Background(), timeout)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// Events are best-effort; keep serving without the stream.
			logger.Warn("Redis unreachable, lifecycle events will be dropped until it recovers", "addr", cfg.Redis.Addr, "error", err)
		}
		cancelPing()
		eventQueue = events.NewAsyncPublisher(
			events.NewStreamPublisher(rdb, cfg.Redis.Stream, cfg.Redis.MaxLen, timeout),
			cfg.Redis.QueueSize,
			func(ev events.RequestEvent, err error) {
				logger.Warn("Failed to publish request event", "type", ev.Type, "requestID", ev.RequestID, "error", err)
				m.EventPublishFailures.Inc()
			},
		)
		publisher = eventQueue
		logger.Info("Publishing lifecycle events", "stream", cfg.Redis.Stream, "queue_size", cfg.Redis.QueueSize)
	}

	compat, err := domain.CompatibilityFor(cfg.Matching.Strategy)
	if err != nil {
		log.Fatalf("Invalid matching strategy: %v", err)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Services
	notifier := service.NewNotifier(store.Users, store.Notifications, m)
	requestSvc := service.NewRequestService(store.Repositories, store, notifier, compat, publisher, m)
	profileSvc := service.NewProfileService(store.Users, store.Donors, store.Recipients)
	inventorySvc := service.NewInventoryService(store.Repositories, store, m)
	noteSvc := service.NewNotificationService(store.Notifications)

	router := httpapi.NewRouter(httpapi.Services{
		Requests:      requestSvc,
		Profiles:      profileSvc,
		Inventory:     inventorySvc,
		Notifications: noteSvc,
	}, tokenManager, m, db)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	if eventQueue != nil {
		if err := eventQueue.Close(shutdownCtx); err != nil {
			logger.Warn("Dropped pending lifecycle events", "error", err)
		}
	}
	logger.Info("HTTP server stopped. Goodbye!")
}
