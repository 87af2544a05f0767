package domain

import (
	"errors"
	"strconv"
	"time"

	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
)

var (
	// ErrCoordinatesNotFound is returned when a position does not exist in the store.
	ErrCoordinatesNotFound = errors.New("coordinates not found")

	ErrLatitudeOutOfRange  = errors.New("latitude must be between -90 and 90")
	ErrLongitudeOutOfRange = errors.New("longitude must be between -180 and 180")
)

// Coordinates represents a geographic position cars can be located at.
type Coordinates struct {
	sharedDomain.BaseAggregateRoot
	latitude  float64
	longitude float64
}

// NewCoordinates creates an unsaved position. The store assigns the
// identifier on first save.
func NewCoordinates(latitude, longitude float64) (*Coordinates, error) {
	if err := validatePosition(latitude, longitude); err != nil {
		return nil, err
	}

	coordinates := &Coordinates{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		latitude:          latitude,
		longitude:         longitude,
	}

	coordinates.AddDomainEvent(NewCoordinatesCreated(coordinates))

	return coordinates, nil
}

// Getters
func (c *Coordinates) Latitude() float64  { return c.latitude }
func (c *Coordinates) Longitude() float64 { return c.longitude }

// SearchText returns the text the search index tokenizes for this position.
func (c *Coordinates) SearchText() string {
	return strconv.FormatFloat(c.latitude, 'f', -1, 64) + " " +
		strconv.FormatFloat(c.longitude, 'f', -1, 64)
}

// Update replaces the position.
func (c *Coordinates) Update(latitude, longitude float64) error {
	if err := validatePosition(latitude, longitude); err != nil {
		return err
	}

	c.latitude = latitude
	c.longitude = longitude
	c.Touch()
	c.AddDomainEvent(NewCoordinatesUpdated(c))

	return nil
}

func validatePosition(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return ErrLatitudeOutOfRange
	}
	if longitude < -180 || longitude > 180 {
		return ErrLongitudeOutOfRange
	}
	return nil
}

// RehydrateCoordinates recreates a position from persisted state without
// recording events.
func RehydrateCoordinates(id int64, latitude, longitude float64, createdAt, updatedAt time.Time) *Coordinates {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)

	return &Coordinates{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity),
		latitude:          latitude,
		longitude:         longitude,
	}
}
