package domain

import (
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
)

const (
	carAggregateType         = "Car"
	coordinatesAggregateType = "Coordinates"
)

// Routing keys for fleet events. Subscribers bind queues on these.
const (
	RoutingKeyCarCreated         = "fleet.car.created"
	RoutingKeyCarUpdated         = "fleet.car.updated"
	RoutingKeyCarDeleted         = "fleet.car.deleted"
	RoutingKeyCoordinatesCreated = "fleet.coordinates.created"
	RoutingKeyCoordinatesUpdated = "fleet.coordinates.updated"
	RoutingKeyCoordinatesDeleted = "fleet.coordinates.deleted"
)

// CarCreated is emitted when a car is added to the fleet. The payload carries
// the full attribute set so consumers need no store lookup; the car ID travels
// in the event envelope.
type CarCreated struct {
	sharedDomain.BaseEvent
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	LicensePlate  string   `json:"license_plate,omitempty"`
	Color         string   `json:"color,omitempty"`
	Year          int      `json:"year,omitempty"`
	Parked        bool     `json:"parked"`
	Features      []string `json:"features,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	CoordinatesID *int64   `json:"coordinates_id,omitempty"`
}

// NewCarCreated creates a CarCreated event.
func NewCarCreated(c *Car) *CarCreated {
	return &CarCreated{
		BaseEvent:     sharedDomain.NewBaseEvent(c.ID(), carAggregateType, RoutingKeyCarCreated),
		Make:          c.Make(),
		Model:         c.Model(),
		LicensePlate:  c.LicensePlate(),
		Color:         c.Color(),
		Year:          c.Year(),
		Parked:        c.IsParked(),
		Features:      c.Features(),
		Notes:         c.Notes(),
		CoordinatesID: c.CoordinatesID(),
	}
}

// CarUpdated is emitted when a car's attributes are replaced.
type CarUpdated struct {
	sharedDomain.BaseEvent
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	LicensePlate  string   `json:"license_plate,omitempty"`
	Color         string   `json:"color,omitempty"`
	Year          int      `json:"year,omitempty"`
	Parked        bool     `json:"parked"`
	Features      []string `json:"features,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	CoordinatesID *int64   `json:"coordinates_id,omitempty"`
}

// NewCarUpdated creates a CarUpdated event.
func NewCarUpdated(c *Car) *CarUpdated {
	return &CarUpdated{
		BaseEvent:     sharedDomain.NewBaseEvent(c.ID(), carAggregateType, RoutingKeyCarUpdated),
		Make:          c.Make(),
		Model:         c.Model(),
		LicensePlate:  c.LicensePlate(),
		Color:         c.Color(),
		Year:          c.Year(),
		Parked:        c.IsParked(),
		Features:      c.Features(),
		Notes:         c.Notes(),
		CoordinatesID: c.CoordinatesID(),
	}
}

// CarDeleted is emitted when a car is removed from the fleet.
type CarDeleted struct {
	sharedDomain.BaseEvent
}

// NewCarDeleted creates a CarDeleted event for the given car ID.
func NewCarDeleted(id int64) *CarDeleted {
	return &CarDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(id, carAggregateType, RoutingKeyCarDeleted),
	}
}

// CoordinatesCreated is emitted when a position is registered.
type CoordinatesCreated struct {
	sharedDomain.BaseEvent
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinatesCreated creates a CoordinatesCreated event.
func NewCoordinatesCreated(c *Coordinates) *CoordinatesCreated {
	return &CoordinatesCreated{
		BaseEvent: sharedDomain.NewBaseEvent(c.ID(), coordinatesAggregateType, RoutingKeyCoordinatesCreated),
		Latitude:  c.Latitude(),
		Longitude: c.Longitude(),
	}
}

// CoordinatesUpdated is emitted when a position is moved.
type CoordinatesUpdated struct {
	sharedDomain.BaseEvent
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinatesUpdated creates a CoordinatesUpdated event.
func NewCoordinatesUpdated(c *Coordinates) *CoordinatesUpdated {
	return &CoordinatesUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(c.ID(), coordinatesAggregateType, RoutingKeyCoordinatesUpdated),
		Latitude:  c.Latitude(),
		Longitude: c.Longitude(),
	}
}

// CoordinatesDeleted is emitted when a position is removed.
type CoordinatesDeleted struct {
	sharedDomain.BaseEvent
}

// NewCoordinatesDeleted creates a CoordinatesDeleted event for the given ID.
func NewCoordinatesDeleted(id int64) *CoordinatesDeleted {
	return &CoordinatesDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(id, coordinatesAggregateType, RoutingKeyCoordinatesDeleted),
	}
}
