package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/carsonrent/rentals/internal/fleet/domain"
	sharedDomain "github.com/carsonrent/rentals/internal/shared/domain"
	sharedPersistence "github.com/carsonrent/rentals/internal/shared/infrastructure/persistence"
)

const sqliteCoordinatesColumns = `
	SELECT id, latitude, longitude, created_at, updated_at
	FROM coordinates
`

// SQLiteCoordinatesRepository implements domain.CoordinatesRepository using SQLite.
type SQLiteCoordinatesRepository struct {
	db *sql.DB
}

// NewSQLiteCoordinatesRepository creates a new SQLite coordinates repository.
func NewSQLiteCoordinatesRepository(db *sql.DB) *SQLiteCoordinatesRepository {
	return &SQLiteCoordinatesRepository{db: db}
}

// Save persists a position. New positions receive their store-assigned ID;
// updates to a position that no longer exists return domain.ErrCoordinatesNotFound.
func (r *SQLiteCoordinatesRepository) Save(ctx context.Context, coordinates *domain.Coordinates) error {
	if coordinates.IsPersisted() {
		return r.update(ctx, coordinates)
	}
	return r.insert(ctx, coordinates)
}

func (r *SQLiteCoordinatesRepository) insert(ctx context.Context, coordinates *domain.Coordinates) error {
	query := `
		INSERT INTO coordinates (latitude, longitude, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, query,
		coordinates.Latitude(),
		coordinates.Longitude(),
		formatTime(coordinates.CreatedAt()),
		formatTime(coordinates.UpdatedAt()),
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	coordinates.AssignID(id)
	return nil
}

func (r *SQLiteCoordinatesRepository) update(ctx context.Context, coordinates *domain.Coordinates) error {
	query := `
		UPDATE coordinates
		SET latitude = ?, longitude = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, query,
		coordinates.Latitude(),
		coordinates.Longitude(),
		formatTime(coordinates.UpdatedAt()),
		coordinates.ID(),
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrCoordinatesNotFound
	}
	return nil
}

// FindByID retrieves a position by its ID.
func (r *SQLiteCoordinatesRepository) FindByID(ctx context.Context, id int64) (*domain.Coordinates, error) {
	query := sqliteCoordinatesColumns + `WHERE id = ?`

	coordinates, err := scanSQLiteCoordinates(sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCoordinatesNotFound
		}
		return nil, err
	}
	return coordinates, nil
}

// FindAll returns one page of positions in ascending ID order plus the total count.
func (r *SQLiteCoordinatesRepository) FindAll(ctx context.Context, page sharedDomain.PageRequest) (*domain.CoordinatesPage, error) {
	page = page.Normalize()
	execer := sharedPersistence.SQLiteExecutor(ctx, r.db)

	var total int64
	if err := execer.QueryRowContext(ctx, `SELECT COUNT(*) FROM coordinates`).Scan(&total); err != nil {
		return nil, err
	}

	query := sqliteCoordinatesColumns + `
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	rows, err := execer.QueryContext(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.Coordinates, 0)
	for rows.Next() {
		coordinates, err := scanSQLiteCoordinates(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, coordinates)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.CoordinatesPage{Items: items, TotalCount: total}, nil
}

// Delete removes a position. Deleting an absent position is not an error.
// Cars pointing at it keep no stale reference; the schema clears the link.
func (r *SQLiteCoordinatesRepository) Delete(ctx context.Context, id int64) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM coordinates WHERE id = ?`, id)
	return err
}

func scanSQLiteCoordinates(s sqliteScanner) (*domain.Coordinates, error) {
	var (
		id        int64
		latitude  float64
		longitude float64
		createdAt string
		updatedAt string
	)

	if err := s.Scan(&id, &latitude, &longitude, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return domain.RehydrateCoordinates(id, latitude, longitude, parseTime(createdAt), parseTime(updatedAt)), nil
}
