package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCar(t *testing.T) {
	coordinatesID := int64(7)
	car, err := NewCar(CarAttributes{
		Make:          "Volvo",
		Model:         "XC90",
		LicensePlate:  "B-RT 1234",
		Color:         "black",
		Year:          2016,
		Parked:        true,
		Features:      []string{"gps", "heated seats"},
		Notes:         "winter tires fitted",
		CoordinatesID: &coordinatesID,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), car.ID(), "ID is assigned by the store on save")
	assert.False(t, car.IsPersisted())
	assert.Equal(t, "Volvo", car.Make())
	assert.Equal(t, "XC90", car.Model())
	assert.Equal(t, "B-RT 1234", car.LicensePlate())
	assert.Equal(t, "black", car.Color())
	assert.Equal(t, 2016, car.Year())
	assert.True(t, car.IsParked())
	assert.Equal(t, []string{"gps", "heated seats"}, car.Features())
	assert.Equal(t, "winter tires fitted", car.Notes())
	require.NotNil(t, car.CoordinatesID())
	assert.Equal(t, int64(7), *car.CoordinatesID())
}

func TestNewCar_EmitsEvent(t *testing.T) {
	car, err := NewCar(CarAttributes{Make: "Tesla", Model: "Model 3"})

	require.NoError(t, err)
	events := car.DomainEvents()
	require.Len(t, events, 1)

	created, ok := events[0].(*CarCreated)
	require.True(t, ok)
	assert.Equal(t, "Tesla", created.Make)
	assert.Equal(t, "Model 3", created.Model)
	assert.Equal(t, RoutingKeyCarCreated, created.RoutingKey())
}

func TestNewCar_BlankMake(t *testing.T) {
	tests := []struct {
		name string
	}{
		{""},
		{"   "},
		{"\t\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCar(CarAttributes{Make: tc.name, Model: "Golf"})
			assert.ErrorIs(t, err, ErrCarBlankMake)
		})
	}
}

func TestNewCar_BlankModel(t *testing.T) {
	_, err := NewCar(CarAttributes{Make: "VW", Model: "  "})
	assert.ErrorIs(t, err, ErrCarBlankModel)
}

func TestNewCar_NegativeYear(t *testing.T) {
	_, err := NewCar(CarAttributes{Make: "VW", Model: "Golf", Year: -1})
	assert.ErrorIs(t, err, ErrCarInvalidYear)
}

func TestNewCar_NilFeaturesBecomeEmpty(t *testing.T) {
	car, err := NewCar(CarAttributes{Make: "VW", Model: "Golf"})

	require.NoError(t, err)
	assert.NotNil(t, car.Features())
	assert.Empty(t, car.Features())
}

func TestCar_Update(t *testing.T) {
	car, _ := NewCar(CarAttributes{Make: "VW", Model: "Golf", Color: "red"})
	car.ClearDomainEvents()

	err := car.Update(CarAttributes{
		Make:   "VW",
		Model:  "Golf GTI",
		Color:  "white",
		Parked: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Golf GTI", car.Model())
	assert.Equal(t, "white", car.Color())
	assert.True(t, car.IsParked())

	events := car.DomainEvents()
	require.Len(t, events, 1)

	updated, ok := events[0].(*CarUpdated)
	require.True(t, ok)
	assert.Equal(t, "Golf GTI", updated.Model)
	assert.Equal(t, RoutingKeyCarUpdated, updated.RoutingKey())
}

func TestCar_Update_InvalidAttributesLeaveStateUntouched(t *testing.T) {
	car, _ := NewCar(CarAttributes{Make: "VW", Model: "Golf"})
	car.ClearDomainEvents()

	err := car.Update(CarAttributes{Make: "", Model: "Polo"})

	assert.ErrorIs(t, err, ErrCarBlankMake)
	assert.Equal(t, "VW", car.Make())
	assert.Equal(t, "Golf", car.Model())
	assert.Empty(t, car.DomainEvents())
}

func TestCar_Attributes(t *testing.T) {
	car, _ := NewCar(CarAttributes{
		Make:     "Skoda",
		Model:    "Octavia",
		Features: []string{"tow hook"},
	})

	attrs := car.Attributes()

	assert.Equal(t, "Skoda", attrs.Make)
	assert.Equal(t, "Octavia", attrs.Model)
	assert.Equal(t, []string{"tow hook"}, attrs.Features)
	assert.Nil(t, attrs.CoordinatesID)
}

func TestRehydrateCar(t *testing.T) {
	createdAt := time.Now().Add(-time.Hour)
	updatedAt := time.Now()

	car := RehydrateCar(42, CarAttributes{
		Make:  "Audi",
		Model: "A4",
	}, createdAt, updatedAt)

	assert.Equal(t, int64(42), car.ID())
	assert.True(t, car.IsPersisted())
	assert.Equal(t, "Audi", car.Make())
	assert.Equal(t, createdAt, car.CreatedAt())
	assert.Equal(t, updatedAt, car.UpdatedAt())
	assert.Empty(t, car.DomainEvents(), "rehydration must not record events")
}

func TestNewCarDeleted(t *testing.T) {
	event := NewCarDeleted(42)

	assert.Equal(t, int64(42), event.AggregateID())
	assert.Equal(t, RoutingKeyCarDeleted, event.RoutingKey())
}
