package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/searchindex"
)

func searchTestCar(id int64, attrs domain.CarAttributes) *domain.Car {
	now := time.Now().UTC()
	return domain.RehydrateCar(id, attrs, now, now)
}

func TestCarSearchRepository_IndexAndSearch(t *testing.T) {
	repo := NewCarSearchRepository(searchindex.NewMemoryIndex())
	ctx := context.Background()

	coordinatesID := int64(9)
	tesla := searchTestCar(1, domain.CarAttributes{
		Make:          "Tesla",
		Model:         "Model 3",
		LicensePlate:  "AB-123-CD",
		Color:         "blue",
		Year:          2021,
		Parked:        true,
		Features:      []string{"gps", "autopilot"},
		Notes:         "long range battery",
		CoordinatesID: &coordinatesID,
	})
	honda := searchTestCar(2, domain.CarAttributes{
		Make:  "Honda",
		Model: "Civic",
		Color: "red",
	})

	require.NoError(t, repo.Index(ctx, tesla))
	require.NoError(t, repo.Index(ctx, honda))

	page, err := repo.Search(ctx, "tesla", sharedDomain.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	require.Len(t, page.Items, 1)

	found := page.Items[0]
	assert.Equal(t, int64(1), found.ID())
	assert.Equal(t, "Tesla", found.Make())
	assert.Equal(t, "Model 3", found.Model())
	assert.Equal(t, "AB-123-CD", found.LicensePlate())
	assert.Equal(t, "blue", found.Color())
	assert.Equal(t, 2021, found.Year())
	assert.True(t, found.IsParked())
	assert.Equal(t, []string{"gps", "autopilot"}, found.Features())
	assert.Equal(t, "long range battery", found.Notes())
	require.NotNil(t, found.CoordinatesID())
	assert.Equal(t, int64(9), *found.CoordinatesID())
	assert.WithinDuration(t, tesla.CreatedAt(), found.CreatedAt(), time.Second)
}

func TestCarSearchRepository_SearchMatchesAllTextFields(t *testing.T) {
	repo := NewCarSearchRepository(searchindex.NewMemoryIndex())
	ctx := context.Background()

	car := searchTestCar(1, domain.CarAttributes{
		Make:         "Tesla",
		Model:        "Model 3",
		LicensePlate: "AB-123-CD",
		Color:        "blue",
		Year:         2021,
		Features:     []string{"autopilot"},
		Notes:        "winter tyres fitted",
	})
	require.NoError(t, repo.Index(ctx, car))

	for _, query := range []string{"model", "ab 123 cd", "blue", "2021", "autopilot", "tyres"} {
		page, err := repo.Search(ctx, query, sharedDomain.DefaultPageRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.TotalCount, "query %q", query)
	}
}

func TestCarSearchRepository_ReindexReplacesDocument(t *testing.T) {
	repo := NewCarSearchRepository(searchindex.NewMemoryIndex())
	ctx := context.Background()

	attrs := domain.CarAttributes{Make: "Tesla", Model: "Model 3", Color: "blue"}
	require.NoError(t, repo.Index(ctx, searchTestCar(1, attrs)))

	attrs.Color = "red"
	require.NoError(t, repo.Index(ctx, searchTestCar(1, attrs)))

	page, err := repo.Search(ctx, "blue", sharedDomain.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)

	page, err = repo.Search(ctx, "red", sharedDomain.DefaultPageRequest())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "red", page.Items[0].Color())
}

func TestCarSearchRepository_Delete(t *testing.T) {
	repo := NewCarSearchRepository(searchindex.NewMemoryIndex())
	ctx := context.Background()

	require.NoError(t, repo.Index(ctx, searchTestCar(1, domain.CarAttributes{Make: "Tesla", Model: "Model 3"})))
	require.NoError(t, repo.Delete(ctx, 1))

	page, err := repo.Search(ctx, "tesla", sharedDomain.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)

	// Unknown IDs are ignored.
	assert.NoError(t, repo.Delete(ctx, 42))
}

func TestCarSearchRepository_Pagination(t *testing.T) {
	repo := NewCarSearchRepository(searchindex.NewMemoryIndex())
	ctx := context.Background()

	for id := int64(1); id <= 3; id++ {
		car := searchTestCar(id, domain.CarAttributes{Make: "Tesla", Model: "Model 3"})
		require.NoError(t, repo.Index(ctx, car))
	}

	page, err := repo.Search(ctx, "tesla", sharedDomain.PageRequest{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(1), page.Items[0].ID())
	assert.Equal(t, int64(2), page.Items[1].ID())

	page, err = repo.Search(ctx, "tesla", sharedDomain.PageRequest{Page: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Items[0].ID())
}

func TestCarSearchRepository_EmptyQueryMatchesNothing(t *testing.T) {
	repo := NewCarSearchRepository(searchindex.NewMemoryIndex())
	ctx := context.Background()

	require.NoError(t, repo.Index(ctx, searchTestCar(1, domain.CarAttributes{Make: "Tesla", Model: "Model 3"})))

	page, err := repo.Search(ctx, "   ", sharedDomain.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)
	assert.Empty(t, page.Items)
}

func TestCarSearchRepository_Clear(t *testing.T) {
	repo := NewCarSearchRepository(searchindex.NewMemoryIndex())
	ctx := context.Background()

	require.NoError(t, repo.Index(ctx, searchTestCar(1, domain.CarAttributes{Make: "Tesla", Model: "Model 3"})))
	require.NoError(t, repo.Clear(ctx))

	page, err := repo.Search(ctx, "tesla", sharedDomain.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)
}

func TestCoordinatesSearchRepository_IndexAndSearch(t *testing.T) {
	repo := NewCoordinatesSearchRepository(searchindex.NewMemoryIndex())
	ctx := context.Background()

	now := time.Now().UTC()
	amsterdam := domain.RehydrateCoordinates(1, 52.37, 4.89, now, now)
	paris := domain.RehydrateCoordinates(2, 48.85, 2.35, now, now)

	require.NoError(t, repo.Index(ctx, amsterdam))
	require.NoError(t, repo.Index(ctx, paris))

	page, err := repo.Search(ctx, "52.37", sharedDomain.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Items[0].ID())
	assert.InDelta(t, 52.37, page.Items[0].Latitude(), 1e-9)
	assert.InDelta(t, 4.89, page.Items[0].Longitude(), 1e-9)
}

func TestCoordinatesSearchRepository_DeleteAndClear(t *testing.T) {
	repo := NewCoordinatesSearchRepository(searchindex.NewMemoryIndex())
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Index(ctx, domain.RehydrateCoordinates(1, 52.37, 4.89, now, now)))
	require.NoError(t, repo.Delete(ctx, 1))

	page, err := repo.Search(ctx, "52.37", sharedDomain.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)

	require.NoError(t, repo.Index(ctx, domain.RehydrateCoordinates(2, 48.85, 2.35, now, now)))
	require.NoError(t, repo.Clear(ctx))

	page, err = repo.Search(ctx, "48.85", sharedDomain.DefaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)
}
