package leave

import "errors"

var (
	ErrLeaveTypeNotFound     = errors.New("leave type not found")
	ErrLeaveTypeCodeExists   = errors.New("leave type code already exists")
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrBalanceNotFound       = errors.New("leave balance not found")
	ErrOverlappingLeave      = errors.New("leave request overlaps an existing request")
	ErrInsufficientBalance   = errors.New("insufficient leave balance")
	ErrLeaveAlreadyProcessed = errors.New("leave request already processed")
	ErrLeaveAlreadyStarted   = errors.New("leave request has already started")
	ErrInvalidDateRange      = errors.New("end date must not precede start date")
	ErrUnauthorized          = errors.New("unauthorized to access this leave request")
)
