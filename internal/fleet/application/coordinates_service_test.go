package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/outbox"
)

func TestCoordinatesService_Save_Create(t *testing.T) {
	t.Run("persists the position and enqueues the created event", func(t *testing.T) {
		coordinates := new(mockCoordinatesRepo)
		search := new(mockCoordinatesSearchRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		service := NewCoordinatesService(coordinates, search, outboxRepo, uow)

		ctx := context.Background()
		txCtx := txContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		coordinates.On("Save", txCtx, mock.AnythingOfType("*domain.Coordinates")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Coordinates).AssignID(3)
		}).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.MatchedBy(func(msgs []*outbox.Message) bool {
			return len(msgs) == 1 &&
				msgs[0].RoutingKey == domain.RoutingKeyCoordinatesCreated &&
				msgs[0].AggregateID == int64(3)
		})).Return(nil)

		position, err := service.Save(ctx, 0, 52.37, 4.89)

		require.NoError(t, err)
		assert.Equal(t, int64(3), position.ID())
		assert.Empty(t, position.DomainEvents())

		uow.AssertExpectations(t)
		coordinates.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("rejects an out of range latitude before opening a transaction", func(t *testing.T) {
		coordinates := new(mockCoordinatesRepo)
		search := new(mockCoordinatesSearchRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		service := NewCoordinatesService(coordinates, search, outboxRepo, uow)

		position, err := service.Save(context.Background(), 0, 91, 4.89)

		assert.ErrorIs(t, err, domain.ErrLatitudeOutOfRange)
		assert.Nil(t, position)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})
}

func TestCoordinatesService_Save_Update(t *testing.T) {
	t.Run("moves the position and enqueues the updated event", func(t *testing.T) {
		coordinates := new(mockCoordinatesRepo)
		search := new(mockCoordinatesSearchRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		service := NewCoordinatesService(coordinates, search, outboxRepo, uow)

		ctx := context.Background()
		txCtx := txContext(ctx)
		existing := domain.RehydrateCoordinates(3, 52.37, 4.89, time.Now(), time.Now())

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		coordinates.On("FindByID", txCtx, int64(3)).Return(existing, nil)
		coordinates.On("Save", txCtx, existing).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.MatchedBy(func(msgs []*outbox.Message) bool {
			return len(msgs) == 1 &&
				msgs[0].RoutingKey == domain.RoutingKeyCoordinatesUpdated &&
				msgs[0].AggregateID == int64(3)
		})).Return(nil)

		position, err := service.Save(ctx, 3, 48.85, 2.35)

		require.NoError(t, err)
		assert.InDelta(t, 48.85, position.Latitude(), 1e-9)
		assert.InDelta(t, 2.35, position.Longitude(), 1e-9)

		uow.AssertExpectations(t)
		coordinates.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("returns not found for a missing position", func(t *testing.T) {
		coordinates := new(mockCoordinatesRepo)
		search := new(mockCoordinatesSearchRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		service := NewCoordinatesService(coordinates, search, outboxRepo, uow)

		ctx := context.Background()
		txCtx := txContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		coordinates.On("FindByID", txCtx, int64(404)).Return(nil, domain.ErrCoordinatesNotFound)

		_, err := service.Save(ctx, 404, 52.37, 4.89)

		assert.ErrorIs(t, err, domain.ErrCoordinatesNotFound)
		uow.AssertExpectations(t)
	})
}

func TestCoordinatesService_Delete(t *testing.T) {
	coordinates := new(mockCoordinatesRepo)
	search := new(mockCoordinatesSearchRepo)
	outboxRepo := new(mockOutboxRepo)
	uow := new(mockUnitOfWork)
	service := NewCoordinatesService(coordinates, search, outboxRepo, uow)

	ctx := context.Background()
	txCtx := txContext(ctx)

	uow.On("Begin", ctx).Return(txCtx, nil)
	uow.On("Commit", txCtx).Return(nil)
	coordinates.On("Delete", txCtx, int64(5)).Return(nil)
	outboxRepo.On("Save", txCtx, mock.MatchedBy(func(msg *outbox.Message) bool {
		return msg.RoutingKey == domain.RoutingKeyCoordinatesDeleted && msg.AggregateID == int64(5)
	})).Return(nil)

	err := service.Delete(ctx, 5)

	require.NoError(t, err)
	uow.AssertExpectations(t)
	coordinates.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
}

func TestCoordinatesService_Search(t *testing.T) {
	coordinates := new(mockCoordinatesRepo)
	search := new(mockCoordinatesSearchRepo)
	outboxRepo := new(mockOutboxRepo)
	uow := new(mockUnitOfWork)
	service := NewCoordinatesService(coordinates, search, outboxRepo, uow)

	ctx := context.Background()
	page := sharedDomain.DefaultPageRequest()
	expected := &domain.CoordinatesPage{Items: []*domain.Coordinates{}, TotalCount: 2}
	search.On("Search", ctx, "52.37", page).Return(expected, nil)

	result, err := service.Search(ctx, "52.37", page)

	require.NoError(t, err)
	assert.Equal(t, expected, result)
	search.AssertExpectations(t)
}
