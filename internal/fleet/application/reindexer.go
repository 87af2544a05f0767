package application

import (
	"context"
	"log/slog"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
)

const reindexPageSize = sharedDomain.MaxPageSize

// Reindexer rebuilds the search mirrors from the relational store. It clears
// each index and replays every row page by page, repairing a mirror that
// diverged past what the outbox retry loop can fix.
type Reindexer struct {
	cars              domain.CarRepository
	carSearch         domain.CarSearchRepository
	coordinates       domain.CoordinatesRepository
	coordinatesSearch domain.CoordinatesSearchRepository
	logger            *slog.Logger
}

// NewReindexer creates a new reindexer.
func NewReindexer(
	cars domain.CarRepository,
	carSearch domain.CarSearchRepository,
	coordinates domain.CoordinatesRepository,
	coordinatesSearch domain.CoordinatesSearchRepository,
	logger *slog.Logger,
) *Reindexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reindexer{
		cars:              cars,
		carSearch:         carSearch,
		coordinates:       coordinates,
		coordinatesSearch: coordinatesSearch,
		logger:            logger,
	}
}

// Reindex rebuilds both mirrors and returns the number of indexed documents.
func (r *Reindexer) Reindex(ctx context.Context) (int, error) {
	cars, err := r.reindexCars(ctx)
	if err != nil {
		return cars, err
	}
	r.logger.Info("car index rebuilt", "documents", cars)

	positions, err := r.reindexCoordinates(ctx)
	if err != nil {
		return cars + positions, err
	}
	r.logger.Info("coordinates index rebuilt", "documents", positions)

	return cars + positions, nil
}

func (r *Reindexer) reindexCars(ctx context.Context) (int, error) {
	if err := r.carSearch.Clear(ctx); err != nil {
		return 0, err
	}

	indexed := 0
	for page := (sharedDomain.PageRequest{Page: 0, Size: reindexPageSize}); ; page.Page++ {
		result, err := r.cars.FindAll(ctx, page)
		if err != nil {
			return indexed, err
		}

		for _, car := range result.Items {
			if err := r.carSearch.Index(ctx, car); err != nil {
				return indexed, err
			}
			indexed++
		}

		if len(result.Items) < page.Size {
			return indexed, nil
		}
	}
}

func (r *Reindexer) reindexCoordinates(ctx context.Context) (int, error) {
	if err := r.coordinatesSearch.Clear(ctx); err != nil {
		return 0, err
	}

	indexed := 0
	for page := (sharedDomain.PageRequest{Page: 0, Size: reindexPageSize}); ; page.Page++ {
		result, err := r.coordinates.FindAll(ctx, page)
		if err != nil {
			return indexed, err
		}

		for _, coordinates := range result.Items {
			if err := r.coordinatesSearch.Index(ctx, coordinates); err != nil {
				return indexed, err
			}
			indexed++
		}

		if len(result.Items) < page.Size {
			return indexed, nil
		}
	}
}
