package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	sharedPersistence "github.com/carsonrent/rentals/internal/shared/infrastructure/persistence"
)

// PostgresCoordinatesRepository implements domain.CoordinatesRepository using PostgreSQL.
type PostgresCoordinatesRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCoordinatesRepository creates a new PostgreSQL coordinates repository.
func NewPostgresCoordinatesRepository(pool *pgxpool.Pool) *PostgresCoordinatesRepository {
	return &PostgresCoordinatesRepository{pool: pool}
}

// coordinatesRow represents a database row for coordinates.
type coordinatesRow struct {
	ID        int64
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (row coordinatesRow) toCoordinates() *domain.Coordinates {
	return domain.RehydrateCoordinates(row.ID, row.Latitude, row.Longitude, row.CreatedAt, row.UpdatedAt)
}

// Save persists a position. New positions receive their store-assigned ID;
// updates to a position that no longer exists return domain.ErrCoordinatesNotFound.
func (r *PostgresCoordinatesRepository) Save(ctx context.Context, coordinates *domain.Coordinates) error {
	if coordinates.IsPersisted() {
		return r.update(ctx, coordinates)
	}
	return r.insert(ctx, coordinates)
}

func (r *PostgresCoordinatesRepository) insert(ctx context.Context, coordinates *domain.Coordinates) error {
	query := `
		INSERT INTO coordinates (latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query,
		coordinates.Latitude(),
		coordinates.Longitude(),
		coordinates.CreatedAt(),
		coordinates.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return err
	}

	coordinates.AssignID(id)
	return nil
}

func (r *PostgresCoordinatesRepository) update(ctx context.Context, coordinates *domain.Coordinates) error {
	query := `
		UPDATE coordinates
		SET latitude = $2, longitude = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query,
		coordinates.ID(),
		coordinates.Latitude(),
		coordinates.Longitude(),
		coordinates.UpdatedAt(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCoordinatesNotFound
	}
	return nil
}

// FindByID retrieves a position by its ID.
func (r *PostgresCoordinatesRepository) FindByID(ctx context.Context, id int64) (*domain.Coordinates, error) {
	query := `
		SELECT id, latitude, longitude, created_at, updated_at
		FROM coordinates
		WHERE id = $1
	`

	var row coordinatesRow
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.Latitude,
		&row.Longitude,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCoordinatesNotFound
		}
		return nil, err
	}

	return row.toCoordinates(), nil
}

// FindAll returns one page of positions in ascending ID order plus the total count.
func (r *PostgresCoordinatesRepository) FindAll(ctx context.Context, page sharedDomain.PageRequest) (*domain.CoordinatesPage, error) {
	page = page.Normalize()
	execer := sharedPersistence.Executor(ctx, r.pool)

	var total int64
	if err := execer.QueryRow(ctx, `SELECT COUNT(*) FROM coordinates`).Scan(&total); err != nil {
		return nil, err
	}

	query := `
		SELECT id, latitude, longitude, created_at, updated_at
		FROM coordinates
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := execer.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.Coordinates, 0)
	for rows.Next() {
		var row coordinatesRow
		err := rows.Scan(
			&row.ID,
			&row.Latitude,
			&row.Longitude,
			&row.CreatedAt,
			&row.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, row.toCoordinates())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.CoordinatesPage{Items: items, TotalCount: total}, nil
}

// Delete removes a position. Deleting an absent position is not an error.
// Cars pointing at it keep no stale reference; the schema clears the link.
func (r *PostgresCoordinatesRepository) Delete(ctx context.Context, id int64) error {
	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, `DELETE FROM coordinates WHERE id = $1`, id)
	return err
}
