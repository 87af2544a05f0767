package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	sharedPersistence "github.com/carsonrent/rentals/internal/shared/infrastructure/persistence"
)

const sqliteCarColumns = `
	SELECT id, make, model, license_plate, color, year, parked,
	       features, notes, coordinates_id, created_at, updated_at
	FROM cars
`

// SQLiteCarRepository implements domain.CarRepository using SQLite. Timestamps
// are stored as RFC 3339 strings and features as a JSON array.
type SQLiteCarRepository struct {
	db *sql.DB
}

// NewSQLiteCarRepository creates a new SQLite car repository.
func NewSQLiteCarRepository(db *sql.DB) *SQLiteCarRepository {
	return &SQLiteCarRepository{db: db}
}

// Save persists a car. New cars receive their store-assigned ID; updates to a
// car that no longer exists return domain.ErrCarNotFound. Queries join the
// context transaction when a unit of work is open.
func (r *SQLiteCarRepository) Save(ctx context.Context, car *domain.Car) error {
	if car.IsPersisted() {
		return r.update(ctx, car)
	}
	return r.insert(ctx, car)
}

func (r *SQLiteCarRepository) insert(ctx context.Context, car *domain.Car) error {
	query := `
		INSERT INTO cars (
			make, model, license_plate, color, year, parked,
			features, notes, coordinates_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	attrs := car.Attributes()
	features, err := json.Marshal(attrs.Features)
	if err != nil {
		return err
	}

	result, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, query,
		attrs.Make,
		attrs.Model,
		attrs.LicensePlate,
		attrs.Color,
		attrs.Year,
		boolToInt64(attrs.Parked),
		string(features),
		attrs.Notes,
		nullInt64(attrs.CoordinatesID),
		formatTime(car.CreatedAt()),
		formatTime(car.UpdatedAt()),
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	car.AssignID(id)
	return nil
}

func (r *SQLiteCarRepository) update(ctx context.Context, car *domain.Car) error {
	query := `
		UPDATE cars SET
			make = ?, model = ?, license_plate = ?, color = ?, year = ?,
			parked = ?, features = ?, notes = ?, coordinates_id = ?,
			updated_at = ?
		WHERE id = ?
	`

	attrs := car.Attributes()
	features, err := json.Marshal(attrs.Features)
	if err != nil {
		return err
	}

	result, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, query,
		attrs.Make,
		attrs.Model,
		attrs.LicensePlate,
		attrs.Color,
		attrs.Year,
		boolToInt64(attrs.Parked),
		string(features),
		attrs.Notes,
		nullInt64(attrs.CoordinatesID),
		formatTime(car.UpdatedAt()),
		car.ID(),
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

// FindByID retrieves a car by its ID.
func (r *SQLiteCarRepository) FindByID(ctx context.Context, id int64) (*domain.Car, error) {
	query := sqliteCarColumns + `WHERE id = ?`

	car, err := scanSQLiteCar(sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCarNotFound
		}
		return nil, err
	}
	return car, nil
}

// FindAll returns one page of cars in ascending ID order plus the total count.
func (r *SQLiteCarRepository) FindAll(ctx context.Context, page sharedDomain.PageRequest) (*domain.CarPage, error) {
	page = page.Normalize()
	execer := sharedPersistence.SQLiteExecutor(ctx, r.db)

	var total int64
	if err := execer.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`).Scan(&total); err != nil {
		return nil, err
	}

	query := sqliteCarColumns + `
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	rows, err := execer.QueryContext(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]*domain.Car, 0)
	for rows.Next() {
		car, err := scanSQLiteCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.CarPage{Items: cars, TotalCount: total}, nil
}

// Delete removes a car. Deleting an absent car is not an error.
func (r *SQLiteCarRepository) Delete(ctx context.Context, id int64) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	return err
}

type sqliteScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteCar(s sqliteScanner) (*domain.Car, error) {
	var (
		id            int64
		carMake       string
		model         string
		licensePlate  string
		color         string
		year          int
		parked        int64
		features      string
		notes         string
		coordinatesID sql.NullInt64
		createdAt     string
		updatedAt     string
	)

	err := s.Scan(&id, &carMake, &model, &licensePlate, &color, &year, &parked,
		&features, &notes, &coordinatesID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	attrs := domain.CarAttributes{
		Make:         carMake,
		Model:        model,
		LicensePlate: licensePlate,
		Color:        color,
		Year:         year,
		Parked:       parked != 0,
		Features:     featuresFromJSON(features),
		Notes:        notes,
	}
	if coordinatesID.Valid {
		cid := coordinatesID.Int64
		attrs.CoordinatesID = &cid
	}

	return domain.RehydrateCar(id, attrs, parseTime(createdAt), parseTime(updatedAt)), nil
}

func featuresFromJSON(s string) []string {
	var features []string
	if err := json.Unmarshal([]byte(s), &features); err != nil {
		return []string{}
	}
	return features
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
