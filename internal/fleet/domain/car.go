package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
)

var (
	// ErrCarNotFound is returned when a car does not exist in the store.
	ErrCarNotFound = errors.New("car not found")

	ErrCarBlankMake   = errors.New("car make cannot be blank")
	ErrCarBlankModel  = errors.New("car model cannot be blank")
	ErrCarInvalidYear = errors.New("car year cannot be negative")
)

// CarAttributes carries the full replaceable state of a car. Save requests
// replace every attribute at once, mirroring the wire representation.
type CarAttributes struct {
	Make          string
	Model         string
	LicensePlate  string
	Color         string
	Year          int
	Parked        bool
	Features      []string
	Notes         string
	CoordinatesID *int64
}

// Car represents a rental vehicle in the fleet.
type Car struct {
	sharedDomain.BaseAggregateRoot
	make          string
	model         string
	licensePlate  string
	color         string
	year          int
	parked        bool
	features      []string
	notes         string
	coordinatesID *int64
}

// NewCar creates an unsaved car from the given attributes. The store assigns
// the identifier on first save.
func NewCar(attrs CarAttributes) (*Car, error) {
	car := &Car{BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot()}
	if err := car.apply(attrs); err != nil {
		return nil, err
	}

	car.AddDomainEvent(NewCarCreated(car))

	return car, nil
}

// Getters
func (c *Car) Make() string          { return c.make }
func (c *Car) Model() string         { return c.model }
func (c *Car) LicensePlate() string  { return c.licensePlate }
func (c *Car) Color() string         { return c.color }
func (c *Car) Year() int             { return c.year }
func (c *Car) IsParked() bool        { return c.parked }
func (c *Car) Features() []string    { return c.features }
func (c *Car) Notes() string         { return c.notes }
func (c *Car) CoordinatesID() *int64 { return c.coordinatesID }

// Attributes returns a snapshot of the car's replaceable state.
func (c *Car) Attributes() CarAttributes {
	return CarAttributes{
		Make:          c.make,
		Model:         c.model,
		LicensePlate:  c.licensePlate,
		Color:         c.color,
		Year:          c.year,
		Parked:        c.parked,
		Features:      c.features,
		Notes:         c.notes,
		CoordinatesID: c.coordinatesID,
	}
}

// SearchText returns the text the search index tokenizes for this car. An
// unset year (zero) is left out.
func (c *Car) SearchText() string {
	parts := []string{c.make, c.model, c.licensePlate, c.color}
	if c.year != 0 {
		parts = append(parts, strconv.Itoa(c.year))
	}
	parts = append(parts, c.features...)
	parts = append(parts, c.notes)
	return strings.Join(parts, " ")
}

// Update replaces every attribute of the car.
func (c *Car) Update(attrs CarAttributes) error {
	if err := c.apply(attrs); err != nil {
		return err
	}

	c.Touch()
	c.AddDomainEvent(NewCarUpdated(c))

	return nil
}

// apply validates and assigns the full attribute set.
func (c *Car) apply(attrs CarAttributes) error {
	carMake := strings.TrimSpace(attrs.Make)
	if carMake == "" {
		return ErrCarBlankMake
	}

	model := strings.TrimSpace(attrs.Model)
	if model == "" {
		return ErrCarBlankModel
	}

	if attrs.Year < 0 {
		return ErrCarInvalidYear
	}

	features := attrs.Features
	if features == nil {
		features = []string{}
	}

	c.make = carMake
	c.model = model
	c.licensePlate = attrs.LicensePlate
	c.color = attrs.Color
	c.year = attrs.Year
	c.parked = attrs.Parked
	c.features = features
	c.notes = attrs.Notes
	c.coordinatesID = attrs.CoordinatesID

	return nil
}

// RehydrateCar recreates a car from persisted state without recording events.
func RehydrateCar(id int64, attrs CarAttributes, createdAt, updatedAt time.Time) *Car {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)

	features := attrs.Features
	if features == nil {
		features = []string{}
	}

	return &Car{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity),
		make:              attrs.Make,
		model:             attrs.Model,
		licensePlate:      attrs.LicensePlate,
		color:             attrs.Color,
		year:              attrs.Year,
		parked:            attrs.Parked,
		features:          features,
		notes:             attrs.Notes,
		coordinatesID:     attrs.CoordinatesID,
	}
}
