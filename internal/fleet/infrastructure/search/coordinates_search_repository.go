package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/searchindex"
)

// coordinatesDocument is the stored search representation of a position.
type coordinatesDocument struct {
	ID        int64     `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d coordinatesDocument) toCoordinates() *domain.Coordinates {
	return domain.RehydrateCoordinates(d.ID, d.Latitude, d.Longitude, d.CreatedAt, d.UpdatedAt)
}

// CoordinatesSearchRepository implements domain.CoordinatesSearchRepository on
// a search index. The index must be dedicated to positions.
type CoordinatesSearchRepository struct {
	index searchindex.Index
}

// NewCoordinatesSearchRepository creates a position search repository over the
// given index.
func NewCoordinatesSearchRepository(index searchindex.Index) *CoordinatesSearchRepository {
	return &CoordinatesSearchRepository{index: index}
}

// Index stores or replaces the search document for a position.
func (r *CoordinatesSearchRepository) Index(ctx context.Context, coordinates *domain.Coordinates) error {
	doc := coordinatesDocument{
		ID:        coordinates.ID(),
		Latitude:  coordinates.Latitude(),
		Longitude: coordinates.Longitude(),
		CreatedAt: coordinates.CreatedAt(),
		UpdatedAt: coordinates.UpdatedAt(),
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return r.index.Index(ctx, coordinates.ID(), payload, coordinates.SearchText())
}

// Delete removes a position's search document. Absent documents are ignored.
func (r *CoordinatesSearchRepository) Delete(ctx context.Context, id int64) error {
	return r.index.Delete(ctx, id)
}

// Search runs a free-text query and returns one page of matches ranked by
// relevance.
func (r *CoordinatesSearchRepository) Search(ctx context.Context, query string, page sharedDomain.PageRequest) (*domain.CoordinatesPage, error) {
	page = page.Normalize()

	result, err := r.index.Search(ctx, query, page.Offset(), page.Limit())
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Coordinates, 0, len(result.Docs))
	for _, raw := range result.Docs {
		var doc coordinatesDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		items = append(items, doc.toCoordinates())
	}

	return &domain.CoordinatesPage{Items: items, TotalCount: result.Total}, nil
}

// Clear drops every position document.
func (r *CoordinatesSearchRepository) Clear(ctx context.Context) error {
	return r.index.Clear(ctx)
}
