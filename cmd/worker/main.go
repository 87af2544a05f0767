// The worker relays outbox messages to RabbitMQ and consumes them to keep
// the search mirror current. It also cleans up published outbox rows and
// serves health endpoints.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/carsonrent/rentals/internal/fleet/application/subscribers"
	"github.com/carsonrent/rentals/internal/fleet/infrastructure/search"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/database"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/eventbus"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/migrations"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/outbox"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/searchindex"
	"github.com/carsonrent/rentals/pkg/config"
	"github.com/carsonrent/rentals/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	slog.SetDefault(logger)

	logger.Info("starting rentals worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("worker failed", "error", err)
		os.Exit(1)
	}

	logger.Info("worker stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Relational store and outbox repository per driver.
	var (
		outboxRepo outbox.Repository
		pingDB     func(ctx context.Context) error
		pool       *pgxpool.Pool
		sqliteDB   *sql.DB
	)

	switch driver := database.DetectDriver(cfg.DatabaseURL); driver {
	case database.DriverPostgres:
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		outboxRepo = outbox.NewPostgresRepository(pool)
		pingDB = pool.Ping
		logger.Info("connected to database", "driver", driver)

	case database.DriverSQLite:
		var err error
		sqliteDB, err = database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open SQLite database: %w", err)
		}
		defer sqliteDB.Close()
		if err := migrations.RunSQLiteMigrations(ctx, sqliteDB); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		outboxRepo = outbox.NewSQLiteRepository(sqliteDB)
		pingDB = sqliteDB.PingContext
		logger.Info("opened SQLite database", "path", cfg.SQLitePath)

	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	// Search indexes for the consumer side.
	var carIndex, coordinatesIndex searchindex.Index
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			if !cfg.IsDevelopment() {
				return fmt.Errorf("failed to connect to Redis: %w", err)
			}
			logger.Warn("Redis not available, indexing into memory", "error", err)
		} else {
			defer client.Close()
			carIndex = searchindex.NewRedisIndex(client,
				searchindex.DefaultRedisIndexConfig(cfg.SearchIndexPrefix+":cars"), logger)
			coordinatesIndex = searchindex.NewRedisIndex(client,
				searchindex.DefaultRedisIndexConfig(cfg.SearchIndexPrefix+":coordinates"), logger)
			logger.Info("connected to Redis")
		}
	}
	if carIndex == nil {
		carIndex = searchindex.NewMemoryIndex()
		coordinatesIndex = searchindex.NewMemoryIndex()
	}

	indexer := subscribers.NewSearchIndexer(
		search.NewCarSearchRepository(carIndex),
		search.NewCoordinatesSearchRepository(coordinatesIndex),
		logger,
	)

	// Event transport: RabbitMQ relay plus a consumer feeding the indexer.
	// In development without a broker the outbox drains straight into the
	// indexer through the in-process bus.
	var publisher eventbus.Publisher
	var consumer *eventbus.RabbitMQConsumer

	rabbitPublisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		logger.Warn("RabbitMQ not available, dispatching events in-process", "error", err)
		bus := eventbus.NewInProcessEventBus(logger)
		bus.RegisterConsumer(indexer)
		publisher = bus
	} else {
		publisher = rabbitPublisher
		defer rabbitPublisher.Close()

		registry := eventbus.NewConsumerRegistry(logger)
		registry.Register(indexer)
		consumer, err = eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:       cfg.RabbitMQURL,
			QueueName: eventbus.DefaultConsumerQueueName,
			Exchange:  eventbus.ExchangeName,
			Logger:    logger,
		}, registry)
		if err != nil {
			return fmt.Errorf("failed to create RabbitMQ consumer: %w", err)
		}
		defer consumer.Close()

		if err := consumer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start RabbitMQ consumer: %w", err)
		}
		logger.Info("event consumer started", "queue", eventbus.DefaultConsumerQueueName)
	}

	processor := outbox.NewProcessor(outboxRepo, publisher, outbox.ProcessorConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxRetries:   cfg.OutboxMaxRetries,
	}, logger)

	logger.Info("starting outbox processor",
		"poll_interval", cfg.OutboxPollInterval,
		"batch_size", cfg.OutboxBatchSize,
		"max_retries", cfg.OutboxMaxRetries,
	)
	if err := processor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start outbox processor: %w", err)
	}

	startCleanup(ctx, cfg, outboxRepo, logger)
	startStats(ctx, cfg, processor, logger)

	if cfg.WorkerHealthAddr != "" {
		startHealthServer(ctx, cfg.WorkerHealthAddr, processor, pingDB, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down worker")
	processor.Stop()
	return nil
}

// startCleanup deletes published outbox rows past the retention window.
func startCleanup(ctx context.Context, cfg *config.Config, repo outbox.Repository, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.OutboxCleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := repo.DeleteOld(ctx, cfg.OutboxRetentionDays)
				if err != nil {
					logger.Error("outbox cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("outbox cleanup completed",
						"deleted", deleted,
						"retention_days", cfg.OutboxRetentionDays,
					)
				}
			}
		}
	}()
}

func startStats(ctx context.Context, cfg *config.Config, processor *outbox.Processor, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.OutboxStatsInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := processor.GetStats()
				logger.Info("outbox stats",
					"running", stats.IsRunning,
					"published", stats.PublishedCount,
					"failed", stats.FailedCount,
					"dead", stats.DeadCount,
					"lag_seconds", stats.LagSeconds,
					"oldest_message_at", stats.OldestMessageAt,
					"last_processed_at", stats.LastProcessedAt,
					"last_error_at", stats.LastErrorAt,
					"last_error", stats.LastError,
				)
			}
		}
	}()
}

func startHealthServer(ctx context.Context, addr string, processor *outbox.Processor, pingDB func(ctx context.Context) error, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := processor.GetStats()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"last_processed_at": stats.LastProcessedAt,
			"last_error_at":     stats.LastErrorAt,
			"last_error":        stats.LastError,
		})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		w.Header().Set("Content-Type", "application/json")
		if err := pingDB(checkCtx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ready"})
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()
}
