package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// GetEmployee retrieves a single employee by ID (with role-based access control)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// GetMyProfile retrieves the employee record of the authenticated user
	GetMyProfile(ctx context.Context) (EmployeeResponse, error)

	// CreateEmployee creates a new employee (manager+ only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee updates an existing employee (manager+ OR same employee)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee soft deletes an employee (admin only)
	DeleteEmployee(ctx context.Context, id string) error

	// ListEmployees lists employees with filters (manager+ only)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// DeactivateEmployee sets resignation_date and employment status (manager+ only)
	DeactivateEmployee(ctx context.Context, req DeactivateEmployeeRequest) (EmployeeResponse, error)
}
