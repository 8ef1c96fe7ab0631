package report

import "context"

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	GetMonthlyAttendanceReport(ctx context.Context, period string) ([]MonthlyAttendanceEmployee, error)
	GetPayrollSummaryReport(ctx context.Context, period string) ([]PayrollSummaryRow, error)
	GetLeaveBalanceReport(ctx context.Context, year int) ([]LeaveBalanceRow, error)
}
