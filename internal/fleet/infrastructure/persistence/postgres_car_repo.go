package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	sharedPersistence "github.com/carsonrent/rentals/internal/shared/infrastructure/persistence"
)

// PostgresCarRepository implements domain.CarRepository using PostgreSQL.
type PostgresCarRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCarRepository creates a new PostgreSQL car repository.
func NewPostgresCarRepository(pool *pgxpool.Pool) *PostgresCarRepository {
	return &PostgresCarRepository{pool: pool}
}

// carRow represents a database row for cars.
type carRow struct {
	ID            int64
	Make          string
	Model         string
	LicensePlate  string
	Color         string
	Year          int
	Parked        bool
	Features      []string
	Notes         string
	CoordinatesID sql.NullInt64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (row carRow) toCar() *domain.Car {
	attrs := domain.CarAttributes{
		Make:         row.Make,
		Model:        row.Model,
		LicensePlate: row.LicensePlate,
		Color:        row.Color,
		Year:         row.Year,
		Parked:       row.Parked,
		Features:     row.Features,
		Notes:        row.Notes,
	}
	if row.CoordinatesID.Valid {
		coordinatesID := row.CoordinatesID.Int64
		attrs.CoordinatesID = &coordinatesID
	}
	return domain.RehydrateCar(row.ID, attrs, row.CreatedAt, row.UpdatedAt)
}

// Save persists a car. New cars receive their store-assigned ID; updates to a
// car that no longer exists return domain.ErrCarNotFound. Queries join the
// context transaction when a unit of work is open.
func (r *PostgresCarRepository) Save(ctx context.Context, car *domain.Car) error {
	if car.IsPersisted() {
		return r.update(ctx, car)
	}
	return r.insert(ctx, car)
}

func (r *PostgresCarRepository) insert(ctx context.Context, car *domain.Car) error {
	query := `
		INSERT INTO cars (
			make, model, license_plate, color, year, parked,
			features, notes, coordinates_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	attrs := car.Attributes()
	var id int64
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query,
		attrs.Make,
		attrs.Model,
		attrs.LicensePlate,
		attrs.Color,
		attrs.Year,
		attrs.Parked,
		pq.Array(attrs.Features),
		attrs.Notes,
		attrs.CoordinatesID,
		car.CreatedAt(),
		car.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return err
	}

	car.AssignID(id)
	return nil
}

func (r *PostgresCarRepository) update(ctx context.Context, car *domain.Car) error {
	query := `
		UPDATE cars SET
			make = $2, model = $3, license_plate = $4, color = $5, year = $6,
			parked = $7, features = $8, notes = $9, coordinates_id = $10,
			updated_at = $11
		WHERE id = $1
	`

	attrs := car.Attributes()
	tag, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query,
		car.ID(),
		attrs.Make,
		attrs.Model,
		attrs.LicensePlate,
		attrs.Color,
		attrs.Year,
		attrs.Parked,
		pq.Array(attrs.Features),
		attrs.Notes,
		attrs.CoordinatesID,
		car.UpdatedAt(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

// FindByID retrieves a car by its ID.
func (r *PostgresCarRepository) FindByID(ctx context.Context, id int64) (*domain.Car, error) {
	query := `
		SELECT id, make, model, license_plate, color, year, parked,
		       features, notes, coordinates_id, created_at, updated_at
		FROM cars
		WHERE id = $1
	`

	var row carRow
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.Make,
		&row.Model,
		&row.LicensePlate,
		&row.Color,
		&row.Year,
		&row.Parked,
		pq.Array(&row.Features),
		&row.Notes,
		&row.CoordinatesID,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCarNotFound
		}
		return nil, err
	}

	return row.toCar(), nil
}

// FindAll returns one page of cars in ascending ID order plus the total count.
func (r *PostgresCarRepository) FindAll(ctx context.Context, page sharedDomain.PageRequest) (*domain.CarPage, error) {
	page = page.Normalize()
	execer := sharedPersistence.Executor(ctx, r.pool)

	var total int64
	if err := execer.QueryRow(ctx, `SELECT COUNT(*) FROM cars`).Scan(&total); err != nil {
		return nil, err
	}

	query := `
		SELECT id, make, model, license_plate, color, year, parked,
		       features, notes, coordinates_id, created_at, updated_at
		FROM cars
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := execer.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]*domain.Car, 0)
	for rows.Next() {
		var row carRow
		err := rows.Scan(
			&row.ID,
			&row.Make,
			&row.Model,
			&row.LicensePlate,
			&row.Color,
			&row.Year,
			&row.Parked,
			pq.Array(&row.Features),
			&row.Notes,
			&row.CoordinatesID,
			&row.CreatedAt,
			&row.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		cars = append(cars, row.toCar())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.CarPage{Items: cars, TotalCount: total}, nil
}

// Delete removes a car. Deleting an absent car is not an error.
func (r *PostgresCarRepository) Delete(ctx context.Context, id int64) error {
	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	return err
}
