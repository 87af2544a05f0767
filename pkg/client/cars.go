package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Car is the wire representation of a car.
type Car struct {
	ID            int64     `json:"id,omitempty"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	LicensePlate  string    `json:"licensePlate"`
	Color         string    `json:"color"`
	Year          int       `json:"year"`
	Parked        bool      `json:"parked"`
	Features      []string  `json:"features"`
	Notes         string    `json:"notes"`
	CoordinatesID *int64    `json:"coordinatesId,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// CarPage is one page of cars plus the server's total row count.
type CarPage struct {
	Items      []Car
	TotalCount int64
}

// CarsResource is the car resource binding.
type CarsResource struct {
	client *Client
}

// Query fetches one page of cars. Pass negative page or size to use the
// server defaults.
func (r *CarsResource) Query(ctx context.Context, page, size int) (*CarPage, error) {
	var items []Car
	headers, err := r.client.do(ctx, http.MethodGet, "/api/cars", pageQuery(page, size), nil, &items)
	if err != nil {
		return nil, err
	}
	return &CarPage{Items: items, TotalCount: totalCount(headers)}, nil
}

// Get fetches one car by ID. Returns ErrNotFound when it does not exist.
func (r *CarsResource) Get(ctx context.Context, id int64) (*Car, error) {
	var car Car
	if _, err := r.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/cars/%d", id), nil, nil, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// Create saves a new car. The ID field must be unset.
func (r *CarsResource) Create(ctx context.Context, car Car) (*Car, error) {
	var created Car
	if _, err := r.client.do(ctx, http.MethodPost, "/api/cars", nil, car, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the car identified by car.ID. Returns ErrNotFound when no
// such car exists.
func (r *CarsResource) Update(ctx context.Context, car Car) (*Car, error) {
	var updated Car
	if _, err := r.client.do(ctx, http.MethodPut, "/api/cars", nil, car, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a car by ID. Deleting an absent car succeeds.
func (r *CarsResource) Delete(ctx context.Context, id int64) error {
	_, err := r.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cars/%d", id), nil, nil, nil)
	return err
}

// Search runs a free-text query against the car search index.
func (r *CarsResource) Search(ctx context.Context, query string, page, size int) (*CarPage, error) {
	values := pageQuery(page, size)
	values.Set("query", query)

	var items []Car
	headers, err := r.client.do(ctx, http.MethodGet, "/api/_search/cars", values, nil, &items)
	if err != nil {
		return nil, err
	}
	return &CarPage{Items: items, TotalCount: totalCount(headers)}, nil
}
