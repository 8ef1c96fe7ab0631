package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/leave"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestSelectColumns = `
	lr.id, lr.employee_id, lr.leave_type_id,
	lr.start_date, lr.end_date, lr.days_count, lr.reason, lr.status,
	lr.emergency_override, lr.override_reason,
	lr.reviewed_by, lr.reviewed_at, lr.review_note,
	lr.created_at, lr.updated_at,
	e.full_name AS employee_name, e.staff_code,
	lt.name AS leave_type_name, lt.code AS leave_type_code
`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	err := row.Scan(
		&req.ID,
		&req.EmployeeID,
		&req.LeaveTypeID,
		&req.StartDate,
		&req.EndDate,
		&req.DaysCount,
		&req.Reason,
		&req.Status,
		&req.EmergencyOverride,
		&req.OverrideReason,
		&req.ReviewedBy,
		&req.ReviewedAt,
		&req.ReviewNote,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.EmployeeName,
		&req.StaffCode,
		&req.LeaveTypeName,
		&req.LeaveTypeCode,
	)
	return req, err
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id,
			start_date, end_date, days_count, reason, status,
			emergency_override, override_reason
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4, $5, $6, $7,
			$8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.DaysCount, request.Reason, request.Status,
		request.EmergencyOverride, request.OverrideReason,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.Request{}, err
	}

	return request, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.id = $1
	`, leaveRequestSelectColumns)

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, err
	}

	return req, nil
}

// Update implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3, review_note = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		request.Status,
		request.ReviewedBy,
		request.ReviewedAt,
		request.ReviewNote,
		request.ID,
	).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrLeaveRequestNotFound
		}
		return err
	}
	return nil
}

// List implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.LeaveTypeID != nil && *filter.LeaveTypeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.leave_type_id = $%d", argIdx))
		args = append(args, *filter.LeaveTypeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.start_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.end_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM leave_requests lr %s`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		%s
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, leaveRequestSelectColumns, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// ListByEmployee implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter leave.MyRequestFilter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"lr.employee_id = $1"}
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Year != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("EXTRACT(YEAR FROM lr.start_date) = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM leave_requests lr %s`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		%s
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, leaveRequestSelectColumns, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// HasOverlapping implements leave.RequestRepository. Pending and approved
// requests block the [start, end] range, bounds inclusive.
func (r *leaveRequestRepositoryImpl) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			AND status IN ('pending', 'approved')
			AND start_date <= $3
			AND end_date >= $2
	`
	args := []interface{}{employeeID, start, end}

	if excludeID != nil {
		query += " AND id <> $4"
		args = append(args, *excludeID)
	}
	query += ")"

	var exists bool
	err := q.QueryRow(ctx, query, args...).Scan(&exists)
	return exists, err
}

// GetEmployeeIDsOnLeave implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetEmployeeIDsOnLeave(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT employee_id
		FROM leave_requests
		WHERE status = 'approved'
		AND start_date <= $1
		AND end_date >= $1
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
