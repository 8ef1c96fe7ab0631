package leave

import (
	"context"
	"time"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByCode(ctx context.Context, code string) (LeaveType, error)
	List(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	Create(ctx context.Context, lt LeaveType) (LeaveType, error)
	Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) error
}

// BalanceRepository - interface for leave_balances table
type BalanceRepository interface {
	Get(ctx context.Context, employeeID, leaveTypeID string, year int) (Balance, error)
	GetForEmployee(ctx context.Context, employeeID string, year int) ([]Balance, error)
	Upsert(ctx context.Context, b Balance) (Balance, error)
	// AddUsedDays adjusts used/remaining by delta days (negative to
	// refund). Unless allowNegative is set it fails with
	// ErrInsufficientBalance instead of driving remaining below zero.
	AddUsedDays(ctx context.Context, employeeID, leaveTypeID string, year, delta int, allowNegative bool) error
}

// RequestRepository - interface for leave_requests table
type RequestRepository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	Update(ctx context.Context, r Request) error
	List(ctx context.Context, filter RequestFilter) ([]Request, int64, error)
	ListByEmployee(ctx context.Context, employeeID string, filter MyRequestFilter) ([]Request, int64, error)
	// HasOverlapping checks pending/approved requests intersecting [start, end]
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (bool, error)
	// GetEmployeeIDsOnLeave returns employees with an approved request
	// covering the given date
	GetEmployeeIDsOnLeave(ctx context.Context, date time.Time) ([]string, error)
}
