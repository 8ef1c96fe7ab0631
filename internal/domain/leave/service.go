package leave

import (
	"context"
)

type LeaveService interface {
	// Types
	ListTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	CreateType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	UpdateType(ctx context.Context, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)

	// Balances
	GetMyBalances(ctx context.Context, year int) ([]BalanceResponse, error)
	GetEmployeeBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
	InitializeBalances(ctx context.Context, employeeID string, year int) error

	// Requests
	CreateRequest(ctx context.Context, req CreateRequest) (RequestResponse, error)
	GetMyRequests(ctx context.Context, filter MyRequestFilter) (ListRequestResponse, error)
	ListRequests(ctx context.Context, filter RequestFilter) (ListRequestResponse, error)
	GetRequest(ctx context.Context, id string) (RequestResponse, error)
	ApproveRequest(ctx context.Context, req DecideRequest) (RequestResponse, error)
	RejectRequest(ctx context.Context, req DecideRequest) (RequestResponse, error)
	CancelRequest(ctx context.Context, id string) (RequestResponse, error)
}
