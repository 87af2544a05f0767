// Package app wires the object graph: stores, search indexes, event
// transport, services and background jobs, selected by configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/carsonrent/rentals/internal/fleet/application"
	"github.com/carsonrent/rentals/internal/fleet/application/subscribers"
	"github.com/carsonrent/rentals/internal/fleet/domain"
	fleetPersistence "github.com/carsonrent/rentals/internal/fleet/infrastructure/persistence"
	"github.com/carsonrent/rentals/internal/fleet/infrastructure/search"
	sharedApplication "github.com/carsonrent/rentals/internal/shared/application"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/database"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/eventbus"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/carsonrent/rentals/internal/shared/infrastructure/persistence"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/outbox"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/searchindex"
	"github.com/carsonrent/rentals/pkg/config"
	"github.com/carsonrent/rentals/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	Driver   database.Driver
	DB       *pgxpool.Pool
	SQLiteDB *sql.DB

	// Redis (nil when the memory index fallback is active)
	RedisClient *redis.Client

	// Repositories
	CarRepo               domain.CarRepository
	CoordinatesRepo       domain.CoordinatesRepository
	CarSearchRepo         domain.CarSearchRepository
	CoordinatesSearchRepo domain.CoordinatesSearchRepository
	OutboxRepo            outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Event transport. InProcessEventBus is non-nil only when RabbitMQ is
	// unavailable and events are dispatched in-process instead.
	EventPublisher    eventbus.Publisher
	InProcessEventBus *eventbus.InProcessEventBus
	SearchIndexer     *subscribers.SearchIndexer

	// Services
	CarService         *application.CarService
	CoordinatesService *application.CoordinatesService
	Reindexer          *application.Reindexer

	// Background
	OutboxProcessor *outbox.Processor

	// Health
	Health *observability.HealthRegistry
}

// NewContainer creates and wires all dependencies. The relational store is
// selected from DATABASE_URL: Postgres URLs use pgx, everything else falls
// back to zero-config SQLite.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		Health: observability.NewHealthRegistry(),
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := c.initSearch(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.initEventTransport(); err != nil {
		c.Close()
		return nil, err
	}

	c.CarService = application.NewCarService(c.CarRepo, c.CarSearchRepo, c.OutboxRepo, c.UnitOfWork)
	c.CoordinatesService = application.NewCoordinatesService(c.CoordinatesRepo, c.CoordinatesSearchRepo, c.OutboxRepo, c.UnitOfWork)
	c.Reindexer = application.NewReindexer(c.CarRepo, c.CarSearchRepo, c.CoordinatesRepo, c.CoordinatesSearchRepo, logger)

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxRetries:   cfg.OutboxMaxRetries,
	}, logger)

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	cfg, logger := c.Config, c.Logger
	c.Driver = database.DetectDriver(cfg.DatabaseURL)

	switch c.Driver {
	case database.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		c.DB = pool
		c.CarRepo = fleetPersistence.NewPostgresCarRepository(pool)
		c.CoordinatesRepo = fleetPersistence.NewPostgresCoordinatesRepository(pool)
		c.OutboxRepo = outbox.NewPostgresRepository(pool)
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)
		c.Health.Register("database", observability.DatabaseHealthChecker(func(ctx context.Context) error {
			return pool.Ping(ctx)
		}))
		logger.Info("connected to database", "driver", c.Driver)

	case database.DriverSQLite:
		db, err := database.OpenSQLite(ctx, sqlitePath(cfg))
		if err != nil {
			return fmt.Errorf("failed to open SQLite database: %w", err)
		}
		// SQLite auto-migrates so local mode needs no setup step.
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.SQLiteDB = db
		c.CarRepo = fleetPersistence.NewSQLiteCarRepository(db)
		c.CoordinatesRepo = fleetPersistence.NewSQLiteCoordinatesRepository(db)
		c.OutboxRepo = outbox.NewSQLiteRepository(db)
		c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)
		c.Health.Register("database", observability.DatabaseHealthChecker(func(ctx context.Context) error {
			return db.PingContext(ctx)
		}))
		logger.Info("opened SQLite database", "path", sqlitePath(cfg))

	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}

	return nil
}

func (c *Container) initSearch(ctx context.Context) error {
	cfg, logger := c.Config, c.Logger

	var carIndex, coordinatesIndex searchindex.Index

	if cfg.RedisURL != "" {
		client, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				return fmt.Errorf("failed to connect to Redis: %w", err)
			}
			logger.Warn("Redis not available, search uses the in-memory index", "error", err)
		} else {
			c.RedisClient = client
			c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}))
			logger.Info("connected to Redis")
		}
	}

	if c.RedisClient != nil {
		carIndex = searchindex.NewRedisIndex(c.RedisClient,
			searchindex.DefaultRedisIndexConfig(cfg.SearchIndexPrefix+":cars"), logger)
		coordinatesIndex = searchindex.NewRedisIndex(c.RedisClient,
			searchindex.DefaultRedisIndexConfig(cfg.SearchIndexPrefix+":coordinates"), logger)
	} else {
		carIndex = searchindex.NewMemoryIndex()
		coordinatesIndex = searchindex.NewMemoryIndex()
	}

	c.CarSearchRepo = search.NewCarSearchRepository(carIndex)
	c.CoordinatesSearchRepo = search.NewCoordinatesSearchRepository(coordinatesIndex)
	c.SearchIndexer = subscribers.NewSearchIndexer(c.CarSearchRepo, c.CoordinatesSearchRepo, logger)
	return nil
}

func (c *Container) initEventTransport() error {
	cfg, logger := c.Config, c.Logger

	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err == nil {
			c.EventPublisher = publisher
			c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(func(ctx context.Context) error {
				conn, err := amqp.Dial(cfg.RabbitMQURL)
				if err != nil {
					return err
				}
				return conn.Close()
			}))
			logger.Info("connected to RabbitMQ")
			return nil
		}
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		logger.Warn("RabbitMQ not available, dispatching events in-process", "error", err)
	}

	// Without a broker the outbox drains into the in-process bus and the
	// search indexer keeps the mirror current inside the server process.
	bus := eventbus.NewInProcessEventBus(logger)
	bus.RegisterConsumer(c.SearchIndexer)
	c.InProcessEventBus = bus
	c.EventPublisher = bus
	return nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("PostgreSQL connection closed")
	}

	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("error closing SQLite connection", "error", err)
		} else {
			c.Logger.Info("SQLite connection closed")
		}
	}
}

// Migrate applies the schema for the active driver.
func (c *Container) Migrate(ctx context.Context) error {
	switch c.Driver {
	case database.DriverPostgres:
		return migrations.RunPostgresMigrations(ctx, c.DB)
	case database.DriverSQLite:
		return migrations.RunSQLiteMigrations(ctx, c.SQLiteDB)
	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// sqlitePath resolves the SQLite file path from DATABASE_URL when it names a
// SQLite target, otherwise from SQLITE_PATH.
func sqlitePath(cfg *config.Config) string {
	if cfg.DatabaseURL == "" {
		return cfg.SQLitePath
	}
	path := strings.TrimPrefix(cfg.DatabaseURL, "sqlite://")
	return strings.TrimPrefix(path, "file:")
}
