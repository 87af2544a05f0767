// Package search implements the fleet search mirrors on top of the shared
// search index. Documents are written on the event path after a store commit,
// so the mirror trails the store by the outbox delay.
package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/searchindex"
)

// carDocument is the stored search representation of a car. Field names match
// the wire representation so indexed documents read like API payloads.
type carDocument struct {
	ID            int64     `json:"id"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	LicensePlate  string    `json:"licensePlate"`
	Color         string    `json:"color"`
	Year          int       `json:"year"`
	Parked        bool      `json:"parked"`
	Features      []string  `json:"features"`
	Notes         string    `json:"notes"`
	CoordinatesID *int64    `json:"coordinatesId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (d carDocument) toCar() *domain.Car {
	attrs := domain.CarAttributes{
		Make:          d.Make,
		Model:         d.Model,
		LicensePlate:  d.LicensePlate,
		Color:         d.Color,
		Year:          d.Year,
		Parked:        d.Parked,
		Features:      d.Features,
		Notes:         d.Notes,
		CoordinatesID: d.CoordinatesID,
	}
	return domain.RehydrateCar(d.ID, attrs, d.CreatedAt, d.UpdatedAt)
}

// CarSearchRepository implements domain.CarSearchRepository on a search index.
// The index must be dedicated to cars; document IDs are car IDs.
type CarSearchRepository struct {
	index searchindex.Index
}

// NewCarSearchRepository creates a car search repository over the given index.
func NewCarSearchRepository(index searchindex.Index) *CarSearchRepository {
	return &CarSearchRepository{index: index}
}

// Index stores or replaces the search document for a car.
func (r *CarSearchRepository) Index(ctx context.Context, car *domain.Car) error {
	doc := carDocument{
		ID:            car.ID(),
		Make:          car.Make(),
		Model:         car.Model(),
		LicensePlate:  car.LicensePlate(),
		Color:         car.Color(),
		Year:          car.Year(),
		Parked:        car.IsParked(),
		Features:      car.Features(),
		Notes:         car.Notes(),
		CoordinatesID: car.CoordinatesID(),
		CreatedAt:     car.CreatedAt(),
		UpdatedAt:     car.UpdatedAt(),
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return r.index.Index(ctx, car.ID(), payload, car.SearchText())
}

// Delete removes a car's search document. Absent documents are ignored.
func (r *CarSearchRepository) Delete(ctx context.Context, id int64) error {
	return r.index.Delete(ctx, id)
}

// Search runs a free-text query and returns one page of matches ranked by
// relevance.
func (r *CarSearchRepository) Search(ctx context.Context, query string, page sharedDomain.PageRequest) (*domain.CarPage, error) {
	page = page.Normalize()

	result, err := r.index.Search(ctx, query, page.Offset(), page.Limit())
	if err != nil {
		return nil, err
	}

	cars := make([]*domain.Car, 0, len(result.Docs))
	for _, raw := range result.Docs {
		var doc carDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		cars = append(cars, doc.toCar())
	}

	return &domain.CarPage{Items: cars, TotalCount: result.Total}, nil
}

// Clear drops every car document.
func (r *CarSearchRepository) Clear(ctx context.Context) error {
	return r.index.Clear(ctx)
}
