package payroll

import "context"

// PayrollRepository defines data access methods for payroll tables.
type PayrollRepository interface {
	// Components
	CreateComponent(ctx context.Context, component Component) (Component, error)
	GetComponentByID(ctx context.Context, id string) (Component, error)
	ListComponents(ctx context.Context, activeOnly bool) ([]Component, error)
	UpdateComponent(ctx context.Context, req UpdateComponentRequest) error
	DeleteComponent(ctx context.Context, id string) error

	// Employee components
	AssignComponent(ctx context.Context, assignment EmployeeComponent) (EmployeeComponent, error)
	GetEmployeeComponents(ctx context.Context, employeeID string, activeOnly bool) ([]EmployeeComponent, error)
	RemoveEmployeeComponent(ctx context.Context, id string) error

	// Records
	CreateRecord(ctx context.Context, record Record) (Record, error)
	GetRecordByID(ctx context.Context, id string) (Record, error)
	// GetRecordByEmployeePeriod ignores voided records
	GetRecordByEmployeePeriod(ctx context.Context, employeeID, period string) (Record, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]Record, int64, error)
	UpdateRecord(ctx context.Context, record Record) error
	MarkRecordsPaid(ctx context.Context, ids []string, paidBy string) error
	DeleteRecord(ctx context.Context, id string) error

	// Aggregations
	GetPeriodTotals(ctx context.Context, period string) (PeriodTotals, error)
}
