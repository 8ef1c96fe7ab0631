package payroll

import "context"

type PayrollService interface {
	// Components
	CreateComponent(ctx context.Context, req CreateComponentRequest) (ComponentResponse, error)
	ListComponents(ctx context.Context, activeOnly bool) ([]ComponentResponse, error)
	UpdateComponent(ctx context.Context, req UpdateComponentRequest) (ComponentResponse, error)
	AssignComponent(ctx context.Context, req AssignComponentRequest) (EmployeeComponentResponse, error)
	GetEmployeeComponents(ctx context.Context, employeeID string) ([]EmployeeComponentResponse, error)
	RemoveEmployeeComponent(ctx context.Context, id string) error

	// Records
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	GetRecord(ctx context.Context, id string) (RecordResponse, error)
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordResponse, error)
	GetMyPayslips(ctx context.Context, filter RecordFilter) (ListRecordResponse, error)
	MarkPaid(ctx context.Context, req MarkPaidRequest) error
	DeleteDraft(ctx context.Context, id string) error
	// Correct voids a paid record and issues a draft replacement
	// recalculated from current attendance and components.
	Correct(ctx context.Context, req CorrectRequest) (RecordResponse, error)
	GetPeriodTotals(ctx context.Context, period string) (PeriodTotals, error)
}
