package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/location"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
)

type locationRepositoryImpl struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.LocationRepository {
	return &locationRepositoryImpl{db: db}
}

// GetByID implements location.LocationRepository.
func (r *locationRepositoryImpl) GetByID(ctx context.Context, id string) (location.WorkLocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, address, latitude, longitude, radius_meters, is_active,
			   created_at, updated_at
		FROM work_locations
		WHERE id = $1
	`

	var loc location.WorkLocation
	err := q.QueryRow(ctx, query, id).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Address,
		&loc.Latitude,
		&loc.Longitude,
		&loc.RadiusMeters,
		&loc.IsActive,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.WorkLocation{}, location.ErrLocationNotFound
		}
		return location.WorkLocation{}, err
	}

	return loc, nil
}

// List implements location.LocationRepository.
func (r *locationRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]location.WorkLocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, address, latitude, longitude, radius_meters, is_active,
			   created_at, updated_at
		FROM work_locations
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name ASC"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []location.WorkLocation
	for rows.Next() {
		var loc location.WorkLocation
		err := rows.Scan(
			&loc.ID,
			&loc.Name,
			&loc.Address,
			&loc.Latitude,
			&loc.Longitude,
			&loc.RadiusMeters,
			&loc.IsActive,
			&loc.CreatedAt,
			&loc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}

// Create implements location.LocationRepository.
func (r *locationRepositoryImpl) Create(ctx context.Context, loc location.WorkLocation) (location.WorkLocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_locations (id, name, address, latitude, longitude, radius_meters, is_active)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		loc.Name,
		loc.Address,
		loc.Latitude,
		loc.Longitude,
		loc.RadiusMeters,
		loc.IsActive,
	).Scan(&loc.ID, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		return location.WorkLocation{}, err
	}

	return loc, nil
}

// Update implements location.LocationRepository.
func (r *locationRepositoryImpl) Update(ctx context.Context, id string, req location.UpdateLocationRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if req.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.Address != nil {
		updates = append(updates, fmt.Sprintf("address = $%d", argIdx))
		args = append(args, *req.Address)
		argIdx++
	}
	if req.Latitude != nil {
		updates = append(updates, fmt.Sprintf("latitude = $%d", argIdx))
		args = append(args, *req.Latitude)
		argIdx++
	}
	if req.Longitude != nil {
		updates = append(updates, fmt.Sprintf("longitude = $%d", argIdx))
		args = append(args, *req.Longitude)
		argIdx++
	}
	if req.RadiusMeters != nil {
		updates = append(updates, fmt.Sprintf("radius_meters = $%d", argIdx))
		args = append(args, *req.RadiusMeters)
		argIdx++
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for work location update")
	}

	updates = append(updates, "updated_at = NOW()")
	args = append(args, id)

	sql := "UPDATE work_locations SET " + strings.Join(updates, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", argIdx)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.ErrLocationNotFound
		}
		return err
	}
	return nil
}

// SetActive implements location.LocationRepository.
func (r *locationRepositoryImpl) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_locations
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, active, id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.ErrLocationNotFound
		}
		return err
	}
	return nil
}
