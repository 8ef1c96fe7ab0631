package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn processes employee check-in with geofence and face verification
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut processes employee check-out and computes worked hours
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// ManualEntry records a completed attendance on behalf of an employee
	// (manager+ only, reason required)
	ManualEntry(ctx context.Context, req ManualEntryRequest) (AttendanceResponse, error)

	// GetMyAttendance retrieves attendance records for authenticated employee
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin/manager)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// MarkAbsentees records absent entries for active employees without a
	// record on the given date, skipping weekends and approved leave
	MarkAbsentees(ctx context.Context, date string) (int, error)
}
