package application

import (
	"context"

	sharedApplication "github.com/carsonrent/rentals/internal/shared/application"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/outbox"
)

// enqueueEvents stores the aggregate's recorded events as outbox messages in
// the current transaction. The store-assigned ID is bound first: create events
// are recorded before the first insert, when the aggregate still has ID zero.
func enqueueEvents(ctx context.Context, outboxRepo outbox.Repository, aggregate sharedDomain.AggregateRoot) error {
	events := aggregate.DomainEvents()
	if len(events) == 0 {
		return nil
	}

	sharedApplication.BindAggregateID(events, aggregate.ID())
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata())

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}

	aggregate.ClearDomainEvents()
	return nil
}

// enqueueEvent stores a single event that is not tied to a live aggregate,
// such as a deletion.
func enqueueEvent(ctx context.Context, outboxRepo outbox.Repository, event sharedDomain.DomainEvent) error {
	sharedApplication.ApplyEventMetadata([]sharedDomain.DomainEvent{event}, sharedApplication.NewEventMetadata())

	msg, err := outbox.NewMessage(event)
	if err != nil {
		return err
	}
	return outboxRepo.Save(ctx, msg)
}
