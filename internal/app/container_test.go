package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/database"
	"github.com/carsonrent/rentals/pkg/config"
	"github.com/carsonrent/rentals/pkg/observability"
)

func localConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:     "development",
		SQLitePath: filepath.Join(t.TempDir(), "rentals.db"),
	}
}

func TestNewContainer_LocalMode(t *testing.T) {
	ctx := context.Background()

	c, err := NewContainer(ctx, localConfig(t), slog.Default())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, database.DriverSQLite, c.Driver)
	assert.NotNil(t, c.SQLiteDB)
	assert.Nil(t, c.DB)
	assert.Nil(t, c.RedisClient)

	assert.NotNil(t, c.CarService)
	assert.NotNil(t, c.CoordinatesService)
	assert.NotNil(t, c.Reindexer)
	assert.NotNil(t, c.OutboxProcessor)

	// No broker configured, so events go through the in-process bus.
	assert.NotNil(t, c.InProcessEventBus)
	assert.Same(t, c.InProcessEventBus, c.EventPublisher)
}

func TestNewContainer_LocalMode_SearchCatchesUp(t *testing.T) {
	ctx := context.Background()

	c, err := NewContainer(ctx, localConfig(t), slog.Default())
	require.NoError(t, err)
	defer c.Close()

	car, err := c.CarService.Save(ctx, 0, domain.CarAttributes{
		Make:  "Toyota",
		Model: "Corolla",
	})
	require.NoError(t, err)
	require.NotZero(t, car.ID())

	// Drain the outbox into the in-process bus; the indexer mirrors the car.
	require.NoError(t, c.OutboxProcessor.ProcessOnce(ctx))

	page, err := c.CarService.Search(ctx, "corolla", sharedDomain.DefaultPageRequest())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, car.ID(), page.Items[0].ID())
}

func TestNewContainer_SQLiteURL(t *testing.T) {
	ctx := context.Background()
	cfg := localConfig(t)
	cfg.DatabaseURL = "sqlite://" + filepath.Join(t.TempDir(), "from_url.db")

	c, err := NewContainer(ctx, cfg, slog.Default())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, database.DriverSQLite, c.Driver)
}

func TestContainer_Migrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	c, err := NewContainer(ctx, localConfig(t), slog.Default())
	require.NoError(t, err)
	defer c.Close()

	// The container already migrated on startup; a second run must be a no-op.
	require.NoError(t, c.Migrate(ctx))
}

func TestContainer_Health(t *testing.T) {
	ctx := context.Background()

	c, err := NewContainer(ctx, localConfig(t), slog.Default())
	require.NoError(t, err)
	defer c.Close()

	overall := c.Health.GetOverallHealth(ctx)
	assert.Equal(t, observability.HealthStatusHealthy, overall.Status)
	assert.Contains(t, overall.Checks, "database")
}

func TestSQLitePath(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"empty database url uses sqlite path", config.Config{SQLitePath: "/tmp/a.db"}, "/tmp/a.db"},
		{"sqlite scheme stripped", config.Config{DatabaseURL: "sqlite:///tmp/b.db"}, "/tmp/b.db"},
		{"file scheme stripped", config.Config{DatabaseURL: "file:/tmp/c.db"}, "/tmp/c.db"},
		{"bare path passed through", config.Config{DatabaseURL: "/tmp/d.db"}, "/tmp/d.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlitePath(&tt.cfg))
		})
	}
}
