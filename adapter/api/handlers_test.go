package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carsonrent/rentals/internal/fleet/application"
	"github.com/carsonrent/rentals/internal/fleet/application/subscribers"
	fleetPersistence "github.com/carsonrent/rentals/internal/fleet/infrastructure/persistence"
	"github.com/carsonrent/rentals/internal/fleet/infrastructure/search"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/database"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/eventbus"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/carsonrent/rentals/internal/shared/infrastructure/persistence"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/outbox"
	"github.com/carsonrent/rentals/internal/shared/infrastructure/searchindex"
)

// handlerFixture wires the handlers over a real SQLite store, memory search
// indexes, and an in-memory outbox drained through the in-process bus. That
// exercises the full write path including the search mirror catch-up.
type handlerFixture struct {
	cars        *CarHandler
	coordinates *CoordinatesHandler
	processor   *outbox.Processor
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "api_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(ctx, db))

	carRepo := fleetPersistence.NewSQLiteCarRepository(db)
	coordinatesRepo := fleetPersistence.NewSQLiteCoordinatesRepository(db)
	carSearch := search.NewCarSearchRepository(searchindex.NewMemoryIndex())
	coordinatesSearch := search.NewCoordinatesSearchRepository(searchindex.NewMemoryIndex())
	outboxRepo := outbox.NewInMemoryRepository()
	uow := sharedPersistence.NewSQLiteUnitOfWork(db)

	bus := eventbus.NewInProcessEventBus(nil)
	bus.RegisterConsumer(subscribers.NewSearchIndexer(carSearch, coordinatesSearch, nil))
	processor := outbox.NewProcessor(outboxRepo, bus, outbox.ProcessorConfig{
		PollInterval: time.Second,
		BatchSize:    100,
		MaxRetries:   3,
	}, nil)

	carService := application.NewCarService(carRepo, carSearch, outboxRepo, uow)
	coordinatesService := application.NewCoordinatesService(coordinatesRepo, coordinatesSearch, outboxRepo, uow)

	return &handlerFixture{
		cars:        NewCarHandler(CarHandlerConfig{Service: carService}),
		coordinates: NewCoordinatesHandler(CoordinatesHandlerConfig{Service: coordinatesService}),
		processor:   processor,
	}
}

// drainOutbox relays pending outbox messages so the search mirror catches up.
func (f *handlerFixture) drainOutbox(t *testing.T) {
	t.Helper()
	require.NoError(t, f.processor.ProcessOnce(context.Background()))
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}
