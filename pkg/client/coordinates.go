package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Coordinates is the wire representation of a position.
type Coordinates struct {
	ID        int64     `json:"id,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// CoordinatesPage is one page of positions plus the server's total row count.
type CoordinatesPage struct {
	Items      []Coordinates
	TotalCount int64
}

// CoordinatesResource is the coordinates resource binding.
type CoordinatesResource struct {
	client *Client
}

// Query fetches one page of positions. Pass negative page or size to use the
// server defaults.
func (r *CoordinatesResource) Query(ctx context.Context, page, size int) (*CoordinatesPage, error) {
	var items []Coordinates
	headers, err := r.client.do(ctx, http.MethodGet, "/api/coordinates", pageQuery(page, size), nil, &items)
	if err != nil {
		return nil, err
	}
	return &CoordinatesPage{Items: items, TotalCount: totalCount(headers)}, nil
}

// Get fetches one position by ID. Returns ErrNotFound when it does not exist.
func (r *CoordinatesResource) Get(ctx context.Context, id int64) (*Coordinates, error) {
	var coordinates Coordinates
	if _, err := r.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/coordinates/%d", id), nil, nil, &coordinates); err != nil {
		return nil, err
	}
	return &coordinates, nil
}

// Create saves a new position. The ID field must be unset.
func (r *CoordinatesResource) Create(ctx context.Context, coordinates Coordinates) (*Coordinates, error) {
	var created Coordinates
	if _, err := r.client.do(ctx, http.MethodPost, "/api/coordinates", nil, coordinates, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the position identified by coordinates.ID. Returns
// ErrNotFound when no such position exists.
func (r *CoordinatesResource) Update(ctx context.Context, coordinates Coordinates) (*Coordinates, error) {
	var updated Coordinates
	if _, err := r.client.do(ctx, http.MethodPut, "/api/coordinates", nil, coordinates, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a position by ID. Deleting an absent position succeeds.
func (r *CoordinatesResource) Delete(ctx context.Context, id int64) error {
	_, err := r.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/coordinates/%d", id), nil, nil, nil)
	return err
}

// Search runs a free-text query against the position search index.
func (r *CoordinatesResource) Search(ctx context.Context, query string, page, size int) (*CoordinatesPage, error) {
	values := pageQuery(page, size)
	values.Set("query", query)

	var items []Coordinates
	headers, err := r.client.do(ctx, http.MethodGet, "/api/_search/coordinates", values, nil, &items)
	if err != nil {
		return nil, err
	}
	return &CoordinatesPage{Items: items, TotalCount: totalCount(headers)}, nil
}
