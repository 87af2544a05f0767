package application

import (
	"github.com/carsonrent/rentals/internal/shared/domain"
	"github.com/google/uuid"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

type aggregateIDSetter interface {
	SetAggregateID(id int64)
}

// NewEventMetadata creates request-scoped metadata for domain events.
func NewEventMetadata() domain.EventMetadata {
	return domain.EventMetadata{
		CorrelationID: uuid.New(),
		CausationID:   uuid.New(),
	}
}

// ApplyEventMetadata sets metadata on all events that support it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
	}
}

// BindAggregateID stamps the store-assigned ID onto events recorded before
// the aggregate's first insert.
func BindAggregateID(events []domain.DomainEvent, id int64) {
	for _, event := range events {
		if setter, ok := event.(aggregateIDSetter); ok {
			setter.SetAggregateID(id)
		}
	}
}
