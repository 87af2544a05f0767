package application

import (
	"context"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedApplication "github.com/carsonrent/rentals/internal/shared/application"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/outbox"
)

// CoordinatesService implements the position resource operations, with the
// same write path as CarService.
type CoordinatesService struct {
	coordinates domain.CoordinatesRepository
	search      domain.CoordinatesSearchRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewCoordinatesService creates a new coordinates service.
func NewCoordinatesService(
	coordinates domain.CoordinatesRepository,
	search domain.CoordinatesSearchRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *CoordinatesService {
	return &CoordinatesService{
		coordinates: coordinates,
		search:      search,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Save creates the position when id is zero and replaces it otherwise.
// Updating a position that no longer exists returns domain.ErrCoordinatesNotFound.
func (s *CoordinatesService) Save(ctx context.Context, id int64, latitude, longitude float64) (*domain.Coordinates, error) {
	if id == 0 {
		return s.create(ctx, latitude, longitude)
	}
	return s.update(ctx, id, latitude, longitude)
}

func (s *CoordinatesService) create(ctx context.Context, latitude, longitude float64) (*domain.Coordinates, error) {
	coordinates, err := domain.NewCoordinates(latitude, longitude)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.coordinates.Save(txCtx, coordinates); err != nil {
			return err
		}
		return enqueueEvents(txCtx, s.outboxRepo, coordinates)
	})
	if err != nil {
		return nil, err
	}

	return coordinates, nil
}

func (s *CoordinatesService) update(ctx context.Context, id int64, latitude, longitude float64) (*domain.Coordinates, error) {
	var coordinates *domain.Coordinates

	err := sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		existing, err := s.coordinates.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := existing.Update(latitude, longitude); err != nil {
			return err
		}
		if err := s.coordinates.Save(txCtx, existing); err != nil {
			return err
		}

		coordinates = existing
		return enqueueEvents(txCtx, s.outboxRepo, existing)
	})
	if err != nil {
		return nil, err
	}

	return coordinates, nil
}

// FindOne retrieves a position by its ID.
func (s *CoordinatesService) FindOne(ctx context.Context, id int64) (*domain.Coordinates, error) {
	return s.coordinates.FindByID(ctx, id)
}

// FindAll returns one page of positions from the store.
func (s *CoordinatesService) FindAll(ctx context.Context, page sharedDomain.PageRequest) (*domain.CoordinatesPage, error) {
	return s.coordinates.FindAll(ctx, page)
}

// Delete removes the position and enqueues the deletion event. Deleting an
// absent position succeeds and still emits.
func (s *CoordinatesService) Delete(ctx context.Context, id int64) error {
	return sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.coordinates.Delete(txCtx, id); err != nil {
			return err
		}
		return enqueueEvent(txCtx, s.outboxRepo, domain.NewCoordinatesDeleted(id))
	})
}

// Search queries the search mirror.
func (s *CoordinatesService) Search(ctx context.Context, query string, page sharedDomain.PageRequest) (*domain.CoordinatesPage, error) {
	return s.search.Search(ctx, query, page)
}
