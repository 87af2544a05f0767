// Package application contains the fleet application layer: per-entity
// services that coordinate the relational store, the outbox and the search
// mirror.
package application

import (
	"context"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedApplication "github.com/carsonrent/rentals/internal/shared/application"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/outbox"
)

// CarService implements the car resource operations. Writes persist the
// aggregate and enqueue its domain events as outbox messages in the same
// transaction; the search mirror catches up on the event path.
type CarService struct {
	cars       domain.CarRepository
	search     domain.CarSearchRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCarService creates a new car service.
func NewCarService(
	cars domain.CarRepository,
	search domain.CarSearchRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *CarService {
	return &CarService{
		cars:       cars,
		search:     search,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Save creates the car when id is zero and replaces its attributes otherwise.
// Updating a car that no longer exists returns domain.ErrCarNotFound.
func (s *CarService) Save(ctx context.Context, id int64, attrs domain.CarAttributes) (*domain.Car, error) {
	if id == 0 {
		return s.create(ctx, attrs)
	}
	return s.update(ctx, id, attrs)
}

func (s *CarService) create(ctx context.Context, attrs domain.CarAttributes) (*domain.Car, error) {
	car, err := domain.NewCar(attrs)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.cars.Save(txCtx, car); err != nil {
			return err
		}
		return enqueueEvents(txCtx, s.outboxRepo, car)
	})
	if err != nil {
		return nil, err
	}

	return car, nil
}

func (s *CarService) update(ctx context.Context, id int64, attrs domain.CarAttributes) (*domain.Car, error) {
	var car *domain.Car

	err := sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		existing, err := s.cars.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := existing.Update(attrs); err != nil {
			return err
		}
		if err := s.cars.Save(txCtx, existing); err != nil {
			return err
		}

		car = existing
		return enqueueEvents(txCtx, s.outboxRepo, existing)
	})
	if err != nil {
		return nil, err
	}

	return car, nil
}

// FindOne retrieves a car by its ID.
func (s *CarService) FindOne(ctx context.Context, id int64) (*domain.Car, error) {
	return s.cars.FindByID(ctx, id)
}

// FindAll returns one page of cars from the store.
func (s *CarService) FindAll(ctx context.Context, page sharedDomain.PageRequest) (*domain.CarPage, error) {
	return s.cars.FindAll(ctx, page)
}

// Delete removes the car and enqueues the deletion event. Deleting an absent
// car succeeds and still emits, so a diverged search document gets cleaned up.
func (s *CarService) Delete(ctx context.Context, id int64) error {
	return sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.cars.Delete(txCtx, id); err != nil {
			return err
		}
		return enqueueEvent(txCtx, s.outboxRepo, domain.NewCarDeleted(id))
	})
}

// Search queries the search mirror. Results reflect the last indexed state,
// which trails the store by the outbox delay.
func (s *CarService) Search(ctx context.Context, query string, page sharedDomain.PageRequest) (*domain.CarPage, error) {
	return s.search.Search(ctx, query, page)
}
