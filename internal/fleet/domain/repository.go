package domain

import (
	"context"

	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
)

// CarPage is one page of cars plus the total row count.
type CarPage struct {
	Items      []*Car
	TotalCount int64
}

// CoordinatesPage is one page of positions plus the total row count.
type CoordinatesPage struct {
	Items      []*Coordinates
	TotalCount int64
}

// CarRepository defines the interface for car persistence.
type CarRepository interface {
	// Save persists a car, assigning an ID on first insert.
	Save(ctx context.Context, car *Car) error

	// FindByID finds a car by its ID. Returns ErrCarNotFound when absent.
	FindByID(ctx context.Context, id int64) (*Car, error)

	// FindAll returns one page of cars in stable ID order.
	FindAll(ctx context.Context, page sharedDomain.PageRequest) (*CarPage, error)

	// Delete removes a car. Deleting an absent car is not an error.
	Delete(ctx context.Context, id int64) error
}

// CoordinatesRepository defines the interface for position persistence.
type CoordinatesRepository interface {
	// Save persists a position, assigning an ID on first insert.
	Save(ctx context.Context, coordinates *Coordinates) error

	// FindByID finds a position by its ID. Returns ErrCoordinatesNotFound when absent.
	FindByID(ctx context.Context, id int64) (*Coordinates, error)

	// FindAll returns one page of positions in stable ID order.
	FindAll(ctx context.Context, page sharedDomain.PageRequest) (*CoordinatesPage, error)

	// Delete removes a position. Deleting an absent position is not an error.
	Delete(ctx context.Context, id int64) error
}

// CarSearchRepository maintains the denormalized car search mirror. It is
// eventually consistent with CarRepository; writes flow through it on the
// event path, never inside the store transaction.
type CarSearchRepository interface {
	// Index stores or replaces the search document for a car.
	Index(ctx context.Context, car *Car) error

	// Delete removes a car's search document. Absent documents are ignored.
	Delete(ctx context.Context, id int64) error

	// Search runs a free-text query and returns one page of matches ranked
	// by relevance.
	Search(ctx context.Context, query string, page sharedDomain.PageRequest) (*CarPage, error)

	// Clear drops every car document. Used before a full reindex.
	Clear(ctx context.Context) error
}

// CoordinatesSearchRepository maintains the denormalized position search mirror.
type CoordinatesSearchRepository interface {
	Index(ctx context.Context, coordinates *Coordinates) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, page sharedDomain.PageRequest) (*CoordinatesPage, error)
	Clear(ctx context.Context) error
}
