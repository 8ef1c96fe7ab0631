package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/schoolworks/staff-backend-go/internal/domain/attendance"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceSelectColumns = `
	a.id, a.employee_id, a.date,
	a.check_in_time, a.check_out_time, a.status,
	a.check_in_latitude, a.check_in_longitude, a.check_in_distance,
	a.check_out_latitude, a.check_out_longitude,
	a.location_verified, a.face_verified, a.face_similarity,
	a.working_minutes, a.overtime_minutes, a.late_minutes, a.early_departure_minutes,
	a.is_manual, a.manual_reason, a.approved_by, a.notes,
	a.created_at, a.updated_at,
	e.full_name AS employee_name, e.staff_code
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.CheckInTime,
		&a.CheckOutTime,
		&a.Status,
		&a.CheckInLatitude,
		&a.CheckInLongitude,
		&a.CheckInDistance,
		&a.CheckOutLatitude,
		&a.CheckOutLongitude,
		&a.LocationVerified,
		&a.FaceVerified,
		&a.FaceSimilarity,
		&a.WorkingMinutes,
		&a.OvertimeMinutes,
		&a.LateMinutes,
		&a.EarlyDepartureMinutes,
		&a.IsManual,
		&a.ManualReason,
		&a.ApprovedBy,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.EmployeeName,
		&a.StaffCode,
	)
	return a, err
}

// Create implements attendance.AttendanceRepository. The attendances table
// carries a unique (employee_id, date) constraint.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, date,
			check_in_time, check_out_time, status,
			check_in_latitude, check_in_longitude, check_in_distance,
			check_out_latitude, check_out_longitude,
			location_verified, face_verified, face_similarity, risk_level,
			working_minutes, overtime_minutes, late_minutes, early_departure_minutes,
			is_manual, manual_reason, approved_by, notes
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4, $5,
			$6, $7, $8,
			$9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18,
			$19, $20, $21, $22
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID, record.Date,
		record.CheckInTime, record.CheckOutTime, record.Status,
		record.CheckInLatitude, record.CheckInLongitude, record.CheckInDistance,
		record.CheckOutLatitude, record.CheckOutLongitude,
		record.LocationVerified, record.FaceVerified, record.FaceSimilarity, record.RiskLevel(),
		record.WorkingMinutes, record.OvertimeMinutes, record.LateMinutes, record.EarlyDepartureMinutes,
		record.IsManual, record.ManualReason, record.ApprovedBy, record.Notes,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, err
	}

	return record, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE a.id = $1
	`, attendanceSelectColumns)

	record, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}

	return record, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE a.employee_id = $1 AND a.date = $2
	`, attendanceSelectColumns)

	record, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, record attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_in_time = $1, check_out_time = $2, status = $3,
			check_out_latitude = $4, check_out_longitude = $5,
			working_minutes = $6, overtime_minutes = $7,
			late_minutes = $8, early_departure_minutes = $9,
			notes = $10, risk_level = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		record.CheckInTime, record.CheckOutTime, record.Status,
		record.CheckOutLatitude, record.CheckOutLongitude,
		record.WorkingMinutes, record.OvertimeMinutes,
		record.LateMinutes, record.EarlyDepartureMinutes,
		record.Notes, record.RiskLevel(), record.ID,
	).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAttendanceNotFound
		}
		return err
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("a.date = $%d", argIdx))
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.RiskLevel != nil && *filter.RiskLevel != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("a.risk_level = $%d", argIdx))
		args = append(args, *filter.RiskLevel)
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM attendances a %s`, whereClause)

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
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		%s
		ORDER BY a.date DESC, e.staff_code ASC
		LIMIT $%d OFFSET $%d
	`, attendanceSelectColumns, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}

	return records, total, rows.Err()
}

// GetMyAttendance implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	listFilter := attendance.AttendanceFilter{
		EmployeeID: &employeeID,
		Date:       filter.Date,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		Status:     filter.Status,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	return r.List(ctx, listFilter)
}

// GetPeriodSummary implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetPeriodSummary(ctx context.Context, employeeID string, start, end time.Time) (attendance.PeriodSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('present', 'late', 'early_departure')) AS days_present,
			COUNT(*) FILTER (WHERE status = 'late') AS days_late,
			COUNT(*) FILTER (WHERE status = 'absent') AS days_absent,
			COUNT(*) FILTER (WHERE status = 'on_leave') AS days_on_leave,
			COUNT(*) FILTER (WHERE check_in_time IS NOT NULL AND check_out_time IS NULL) AS incomplete_count,
			COALESCE(SUM(working_minutes), 0) AS working_minutes,
			COALESCE(SUM(overtime_minutes), 0) AS overtime_minutes,
			COALESCE(SUM(late_minutes), 0) AS late_minutes
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
	`

	var summary attendance.PeriodSummary
	err := q.QueryRow(ctx, query, employeeID, start, end).Scan(
		&summary.DaysPresent,
		&summary.DaysLate,
		&summary.DaysAbsent,
		&summary.DaysOnLeave,
		&summary.IncompleteCount,
		&summary.WorkingMinutes,
		&summary.OvertimeMinutes,
		&summary.LateMinutes,
	)
	if err != nil {
		return attendance.PeriodSummary{}, err
	}

	return summary, nil
}

// GetForPeriod implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetForPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date ASC
	`, attendanceSelectColumns)

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// BulkCreateAbsences implements attendance.AttendanceRepository. Employees
// that already have a record for the date are skipped via ON CONFLICT.
func (r *attendanceRepositoryImpl) BulkCreateAbsences(ctx context.Context, absences []attendance.Attendance) error {
	if len(absences) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, employee_id, date, status, risk_level, is_manual)
		VALUES (uuidv7(), $1, $2, $3, $4, FALSE)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	for _, a := range absences {
		if _, err := q.Exec(ctx, query, a.EmployeeID, a.Date, a.Status, attendance.RiskLow); err != nil {
			return fmt.Errorf("failed to insert absence for employee %s: %w", a.EmployeeID, err)
		}
	}

	return nil
}

// GetIncompleteForDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetIncompleteForDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE a.date = $1 AND a.check_in_time IS NOT NULL AND a.check_out_time IS NULL
	`, attendanceSelectColumns)

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
