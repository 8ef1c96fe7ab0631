package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn     = errors.New("already checked in today")
	ErrNoWorkLocation       = errors.New("no work location assigned")
	ErrLivenessCheckFailed  = errors.New("liveness check failed")
	ErrLowCaptureConfidence = errors.New("face capture confidence too low")

	// Check-out errors
	ErrNoCheckInRecord   = errors.New("no check-in record for today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")

	// Manual entry errors
	ErrManualReasonRequired  = errors.New("manual entry reason is required")
	ErrCheckOutBeforeCheckIn = errors.New("check-out time must not precede check-in time")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)
