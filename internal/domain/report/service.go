package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	GenerateMonthlyAttendanceReport(ctx context.Context, req MonthlyAttendanceReportRequest) (MonthlyAttendanceReport, error)
	GeneratePayrollSummaryReport(ctx context.Context, req PayrollSummaryReportRequest) (PayrollSummaryReport, error)
	GenerateLeaveBalanceReport(ctx context.Context, req LeaveBalanceReportRequest) (LeaveBalanceReport, error)

	// ExportPayrollSummaryXLSX renders the payroll summary as a spreadsheet.
	ExportPayrollSummaryXLSX(ctx context.Context, req PayrollSummaryReportRequest) (FileResult, error)

	// GeneratePayslipPDF renders one payroll record as a payslip document.
	// Requesters may only fetch their own payslip unless they hold the
	// payroll management permission.
	GeneratePayslipPDF(ctx context.Context, req PayslipRequest, requesterEmployeeID *string, canManage bool) (FileResult, error)
}
