package attendance

import (
	"context"
	"time"
)

// PeriodSummary aggregates one employee's attendance over a payroll period.
type PeriodSummary struct {
	DaysPresent     int
	DaysLate        int
	DaysAbsent      int
	DaysOnLeave     int
	IncompleteCount int
	WorkingMinutes  int
	OvertimeMinutes int
	LateMinutes     int
}

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create creates a new attendance record. The storage layer enforces a
	// unique (employee_id, date) constraint; a violation surfaces as
	// ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate retrieves attendance for specific employee on a
	// specific date. Returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update updates an existing attendance record
	Update(ctx context.Context, attendance Attendance) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// GetMyAttendance retrieves attendance records for a specific employee
	GetMyAttendance(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, int64, error)

	// GetPeriodSummary aggregates an employee's records within [start, end]
	GetPeriodSummary(ctx context.Context, employeeID string, start, end time.Time) (PeriodSummary, error)

	// GetForPeriod returns an employee's records within [start, end]
	GetForPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)

	// BulkCreateAbsences inserts absent records, skipping employees that
	// already have a record for the date
	BulkCreateAbsences(ctx context.Context, absences []Attendance) error

	// GetIncompleteForDate returns records with a check-in but no check-out
	// on the given date
	GetIncompleteForDate(ctx context.Context, date time.Time) ([]Attendance, error)
}
