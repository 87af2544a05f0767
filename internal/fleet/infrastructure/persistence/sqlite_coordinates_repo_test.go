package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
)

func TestSQLiteCoordinatesRepository_Save_Create(t *testing.T) {
	sqlDB := setupFleetTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteCoordinatesRepository(sqlDB)
	ctx := context.Background()

	position, err := domain.NewCoordinates(52.37, 4.89)
	require.NoError(t, err)

	err = repo.Save(ctx, position)
	require.NoError(t, err)
	require.True(t, position.IsPersisted())

	retrieved, err := repo.FindByID(ctx, position.ID())
	require.NoError(t, err)
	require.NotNil(t, retrieved)

	assert.Equal(t, position.ID(), retrieved.ID())
	assert.InDelta(t, 52.37, retrieved.Latitude(), 1e-9)
	assert.InDelta(t, 4.89, retrieved.Longitude(), 1e-9)
	assert.WithinDuration(t, position.CreatedAt(), retrieved.CreatedAt(), time.Second)
}

func TestSQLiteCoordinatesRepository_Save_Update(t *testing.T) {
	sqlDB := setupFleetTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteCoordinatesRepository(sqlDB)
	ctx := context.Background()

	position, err := domain.NewCoordinates(52.37, 4.89)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, position))

	require.NoError(t, position.Update(48.85, 2.35))
	require.NoError(t, repo.Save(ctx, position))

	retrieved, err := repo.FindByID(ctx, position.ID())
	require.NoError(t, err)
	assert.InDelta(t, 48.85, retrieved.Latitude(), 1e-9)
	assert.InDelta(t, 2.35, retrieved.Longitude(), 1e-9)
}

func TestSQLiteCoordinatesRepository_Save_UpdateMissing(t *testing.T) {
	sqlDB := setupFleetTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteCoordinatesRepository(sqlDB)

	position := domain.RehydrateCoordinates(999, 52.37, 4.89, time.Now(), time.Now())

	err := repo.Save(context.Background(), position)
	assert.ErrorIs(t, err, domain.ErrCoordinatesNotFound)
}

func TestSQLiteCoordinatesRepository_FindByID_NotFound(t *testing.T) {
	sqlDB := setupFleetTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteCoordinatesRepository(sqlDB)

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrCoordinatesNotFound)
}

func TestSQLiteCoordinatesRepository_FindAll(t *testing.T) {
	sqlDB := setupFleetTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteCoordinatesRepository(sqlDB)
	ctx := context.Background()

	ids := make([]int64, 0, 3)
	for _, lat := range []float64{10, 20, 30} {
		position, err := domain.NewCoordinates(lat, lat)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, position))
		ids = append(ids, position.ID())
	}

	page, err := repo.FindAll(ctx, sharedDomain.PageRequest{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ids[0], page.Items[0].ID())
	assert.Equal(t, ids[1], page.Items[1].ID())
}

func TestSQLiteCoordinatesRepository_Delete(t *testing.T) {
	sqlDB := setupFleetTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteCoordinatesRepository(sqlDB)
	ctx := context.Background()

	position, err := domain.NewCoordinates(52.37, 4.89)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, position))

	require.NoError(t, repo.Delete(ctx, position.ID()))

	_, err = repo.FindByID(ctx, position.ID())
	assert.ErrorIs(t, err, domain.ErrCoordinatesNotFound)

	assert.NoError(t, repo.Delete(ctx, position.ID()))
}

func TestSQLiteCoordinatesRepository_Delete_ClearsCarLink(t *testing.T) {
	sqlDB := setupFleetTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteCoordinatesRepository(sqlDB)
	carRepo := NewSQLiteCarRepository(sqlDB)
	ctx := context.Background()

	// ON DELETE SET NULL only fires with foreign keys enabled.
	_, err := sqlDB.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	position, err := domain.NewCoordinates(52.37, 4.89)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, position))

	attrs := testCarAttributes()
	positionID := position.ID()
	attrs.CoordinatesID = &positionID
	car, err := domain.NewCar(attrs)
	require.NoError(t, err)
	require.NoError(t, carRepo.Save(ctx, car))

	require.NoError(t, repo.Delete(ctx, position.ID()))

	retrieved, err := carRepo.FindByID(ctx, car.ID())
	require.NoError(t, err)
	assert.Nil(t, retrieved.CoordinatesID())
}
