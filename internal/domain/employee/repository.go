package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	GetByStaffCode(ctx context.Context, staffCode string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	ExistsByCodeOrEmail(ctx context.Context, staffCode, email *string) (bool, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	GetActive(ctx context.Context) ([]Employee, error)
	SetEmploymentStatus(ctx context.Context, id string, status EmploymentStatus, resignationDate *string) error
}
