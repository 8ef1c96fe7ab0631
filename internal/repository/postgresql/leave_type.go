package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/schoolworks/staff-backend-go/internal/domain/leave"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, default_days_per_year, is_paid, exclude_weekends,
			   is_active, created_at, updated_at
		FROM leave_types
		WHERE id = $1
	`

	var lt leave.LeaveType
	err := q.QueryRow(ctx, query, id).Scan(
		&lt.ID,
		&lt.Code,
		&lt.Name,
		&lt.DefaultDaysPerYear,
		&lt.IsPaid,
		&lt.ExcludeWeekends,
		&lt.IsActive,
		&lt.CreatedAt,
		&lt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, err
	}

	return lt, nil
}

// GetByCode implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByCode(ctx context.Context, code string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, default_days_per_year, is_paid, exclude_weekends,
			   is_active, created_at, updated_at
		FROM leave_types
		WHERE code = $1
	`

	var lt leave.LeaveType
	err := q.QueryRow(ctx, query, code).Scan(
		&lt.ID,
		&lt.Code,
		&lt.Name,
		&lt.DefaultDaysPerYear,
		&lt.IsPaid,
		&lt.ExcludeWeekends,
		&lt.IsActive,
		&lt.CreatedAt,
		&lt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, err
	}

	return lt, nil
}

// List implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, default_days_per_year, is_paid, exclude_weekends,
			   is_active, created_at, updated_at
		FROM leave_types
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY code ASC"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		var lt leave.LeaveType
		err := rows.Scan(
			&lt.ID,
			&lt.Code,
			&lt.Name,
			&lt.DefaultDaysPerYear,
			&lt.IsPaid,
			&lt.ExcludeWeekends,
			&lt.IsActive,
			&lt.CreatedAt,
			&lt.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}

	return types, rows.Err()
}

// Create implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_types (id, code, name, default_days_per_year, is_paid, exclude_weekends, is_active)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		lt.Code,
		lt.Name,
		lt.DefaultDaysPerYear,
		lt.IsPaid,
		lt.ExcludeWeekends,
		lt.IsActive,
	).Scan(&lt.ID, &lt.CreatedAt, &lt.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
		return leave.LeaveType{}, err
	}

	return lt, nil
}

// Update implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Update(ctx context.Context, id string, req leave.UpdateLeaveTypeRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if req.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.DefaultDaysPerYear != nil {
		updates = append(updates, fmt.Sprintf("default_days_per_year = $%d", argIdx))
		args = append(args, *req.DefaultDaysPerYear)
		argIdx++
	}
	if req.IsPaid != nil {
		updates = append(updates, fmt.Sprintf("is_paid = $%d", argIdx))
		args = append(args, *req.IsPaid)
		argIdx++
	}
	if req.ExcludeWeekends != nil {
		updates = append(updates, fmt.Sprintf("exclude_weekends = $%d", argIdx))
		args = append(args, *req.ExcludeWeekends)
		argIdx++
	}
	if req.IsActive != nil {
		updates = append(updates, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *req.IsActive)
		argIdx++
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for leave type update")
	}

	updates = append(updates, "updated_at = NOW()")
	args = append(args, id)

	sql := "UPDATE leave_types SET " + strings.Join(updates, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", argIdx)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrLeaveTypeNotFound
		}
		return err
	}
	return nil
}
