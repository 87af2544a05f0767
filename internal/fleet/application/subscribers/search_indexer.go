// Package subscribers contains the fleet event consumers.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/eventbus"
)

// SearchIndexer applies fleet events to the search mirrors: created and
// updated events become index upserts, deleted events become index deletes.
// Handling is idempotent by entity ID, so at-least-once delivery is safe.
type SearchIndexer struct {
	carSearch         domain.CarSearchRepository
	coordinatesSearch domain.CoordinatesSearchRepository
	logger            *slog.Logger
}

// NewSearchIndexer creates a new search indexer.
func NewSearchIndexer(
	carSearch domain.CarSearchRepository,
	coordinatesSearch domain.CoordinatesSearchRepository,
	logger *slog.Logger,
) *SearchIndexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchIndexer{
		carSearch:         carSearch,
		coordinatesSearch: coordinatesSearch,
		logger:            logger,
	}
}

// EventTypes returns the routing keys this consumer handles.
func (s *SearchIndexer) EventTypes() []string {
	return []string{
		domain.RoutingKeyCarCreated,
		domain.RoutingKeyCarUpdated,
		domain.RoutingKeyCarDeleted,
		domain.RoutingKeyCoordinatesCreated,
		domain.RoutingKeyCoordinatesUpdated,
		domain.RoutingKeyCoordinatesDeleted,
	}
}

// Handle applies one consumed event to the mirror. Errors are returned so the
// transport can redeliver.
func (s *SearchIndexer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	switch event.RoutingKey {
	case domain.RoutingKeyCarCreated, domain.RoutingKeyCarUpdated:
		return s.indexCar(ctx, event)
	case domain.RoutingKeyCarDeleted:
		return s.carSearch.Delete(ctx, event.AggregateID)
	case domain.RoutingKeyCoordinatesCreated, domain.RoutingKeyCoordinatesUpdated:
		return s.indexCoordinates(ctx, event)
	case domain.RoutingKeyCoordinatesDeleted:
		return s.coordinatesSearch.Delete(ctx, event.AggregateID)
	default:
		s.logger.Warn("unknown event type",
			"routing_key", event.RoutingKey,
		)
		return nil
	}
}

// CarEventPayload is the payload shared by car created and updated events.
type CarEventPayload struct {
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	LicensePlate  string   `json:"license_plate"`
	Color         string   `json:"color"`
	Year          int      `json:"year"`
	Parked        bool     `json:"parked"`
	Features      []string `json:"features"`
	Notes         string   `json:"notes"`
	CoordinatesID *int64   `json:"coordinates_id"`
}

func (s *SearchIndexer) indexCar(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload CarEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode car event payload: %w", err)
	}

	car := domain.RehydrateCar(event.AggregateID, domain.CarAttributes{
		Make:          payload.Make,
		Model:         payload.Model,
		LicensePlate:  payload.LicensePlate,
		Color:         payload.Color,
		Year:          payload.Year,
		Parked:        payload.Parked,
		Features:      payload.Features,
		Notes:         payload.Notes,
		CoordinatesID: payload.CoordinatesID,
	}, event.OccurredAt, event.OccurredAt)

	if err := s.carSearch.Index(ctx, car); err != nil {
		return fmt.Errorf("index car %d: %w", event.AggregateID, err)
	}

	s.logger.Debug("car document indexed",
		"car_id", event.AggregateID,
		"routing_key", event.RoutingKey,
	)
	return nil
}

// CoordinatesEventPayload is the payload shared by position created and
// updated events.
type CoordinatesEventPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *SearchIndexer) indexCoordinates(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload CoordinatesEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode coordinates event payload: %w", err)
	}

	coordinates := domain.RehydrateCoordinates(
		event.AggregateID, payload.Latitude, payload.Longitude, event.OccurredAt, event.OccurredAt,
	)

	if err := s.coordinatesSearch.Index(ctx, coordinates); err != nil {
		return fmt.Errorf("index coordinates %d: %w", event.AggregateID, err)
	}

	s.logger.Debug("coordinates document indexed",
		"coordinates_id", event.AggregateID,
		"routing_key", event.RoutingKey,
	)
	return nil
}
