package report

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/domain/payroll"
	"github.com/schoolworks/staff-backend-go/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ReportServiceImpl struct {
	report.ReportRepository
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
}

func NewReportService(
	reportRepo report.ReportRepository,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository: reportRepo,
		payrollRepo:      payrollRepo,
		employeeRepo:     employeeRepo,
	}
}

// GenerateMonthlyAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateMonthlyAttendanceReport(ctx context.Context, req report.MonthlyAttendanceReportRequest) (report.MonthlyAttendanceReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	periodStart, err := time.Parse("2006-01", req.Period)
	if err != nil {
		return report.MonthlyAttendanceReport{}, report.ErrInvalidPeriod
	}
	periodEnd := periodStart.AddDate(0, 1, -1)

	employees, err := s.ReportRepository.GetMonthlyAttendanceReport(ctx, req.Period)
	if err != nil {
		return report.MonthlyAttendanceReport{}, fmt.Errorf("failed to get attendance data: %w", err)
	}

	return report.MonthlyAttendanceReport{
		Period:      req.Period,
		PeriodStart: periodStart.Format("2006-01-02"),
		PeriodEnd:   periodEnd.Format("2006-01-02"),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Employees:   employees,
	}, nil
}

// GeneratePayrollSummaryReport implements report.ReportService.
func (s *ReportServiceImpl) GeneratePayrollSummaryReport(ctx context.Context, req report.PayrollSummaryReportRequest) (report.PayrollSummaryReport, error) {
	if err := req.Validate(); err != nil {
		return report.PayrollSummaryReport{}, err
	}

	rows, err := s.ReportRepository.GetPayrollSummaryReport(ctx, req.Period)
	if err != nil {
		return report.PayrollSummaryReport{}, fmt.Errorf("failed to get payroll data: %w", err)
	}

	totalGross := decimal.Zero
	totalTax := decimal.Zero
	totalNet := decimal.Zero
	for _, row := range rows {
		totalGross = totalGross.Add(row.GrossPay)
		totalTax = totalTax.Add(row.IncomeTax)
		totalNet = totalNet.Add(row.NetPay)
	}

	return report.PayrollSummaryReport{
		Period:           req.Period,
		GeneratedAt:      time.Now().Format(time.RFC3339),
		TotalGrossPayout: totalGross,
		TotalTaxWithheld: totalTax,
		TotalNetPayout:   totalNet,
		TotalEmployees:   len(rows),
		Rows:             rows,
	}, nil
}

// GenerateLeaveBalanceReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateLeaveBalanceReport(ctx context.Context, req report.LeaveBalanceReportRequest) (report.LeaveBalanceReport, error) {
	if err := req.Validate(); err != nil {
		return report.LeaveBalanceReport{}, err
	}

	rows, err := s.ReportRepository.GetLeaveBalanceReport(ctx, req.Year)
	if err != nil {
		return report.LeaveBalanceReport{}, fmt.Errorf("failed to get leave balance data: %w", err)
	}

	return report.LeaveBalanceReport{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Year:        req.Year,
		Rows:        rows,
	}, nil
}

var payrollSummaryHeaders = []string{
	"Staff Code", "Employee", "Department", "Position",
	"Base Salary", "Prorated Salary", "Overtime Pay", "Attendance Bonus",
	"Allowances", "Gross Pay", "Statutory", "Income Tax", "Other Deductions",
	"Net Pay", "Status",
}

// ExportPayrollSummaryXLSX implements report.ReportService.
func (s *ReportServiceImpl) ExportPayrollSummaryXLSX(ctx context.Context, req report.PayrollSummaryReportRequest) (report.FileResult, error) {
	summary, err := s.GeneratePayrollSummaryReport(ctx, req)
	if err != nil {
		return report.FileResult{}, err
	}
	if len(summary.Rows) == 0 {
		return report.FileResult{}, report.ErrNoDataFound
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, h := range payrollSummaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return report.FileResult{}, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, row := range summary.Rows {
		values := []interface{}{
			row.StaffCode, row.EmployeeName, row.Department, row.Position,
			toFloat(row.BaseSalary), toFloat(row.ProratedSalary), toFloat(row.OvertimePay), toFloat(row.AttendanceBonus),
			toFloat(row.TotalAllowances), toFloat(row.GrossPay), toFloat(row.TotalStatutory), toFloat(row.IncomeTax), toFloat(row.OtherDeductions),
			toFloat(row.NetPay), row.Status,
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return report.FileResult{}, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	totalsRow := len(summary.Rows) + 2
	totals := map[int]interface{}{
		1:  "TOTAL",
		10: toFloat(summary.TotalGrossPayout),
		12: toFloat(summary.TotalTaxWithheld),
		14: toFloat(summary.TotalNetPayout),
	}
	for col, val := range totals {
		cell, _ := excelize.CoordinatesToCellName(col, totalsRow)
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return report.FileResult{}, fmt.Errorf("failed to write totals: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return report.FileResult{}, fmt.Errorf("failed to render spreadsheet: %w", err)
	}

	return report.FileResult{
		FileName:    fmt.Sprintf("payroll-summary-%s.xlsx", req.Period),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
	}, nil
}

// GeneratePayslipPDF implements report.ReportService.
func (s *ReportServiceImpl) GeneratePayslipPDF(ctx context.Context, req report.PayslipRequest, requesterEmployeeID *string, canManage bool) (report.FileResult, error) {
	if err := req.Validate(); err != nil {
		return report.FileResult{}, err
	}

	record, err := s.payrollRepo.GetRecordByID(ctx, req.RecordID)
	if err != nil {
		return report.FileResult{}, err
	}

	if !canManage {
		if requesterEmployeeID == nil || record.EmployeeID != *requesterEmployeeID {
			return report.FileResult{}, report.ErrUnauthorized
		}
	}

	emp, err := s.employeeRepo.GetByID(ctx, record.EmployeeID)
	if err != nil {
		return report.FileResult{}, err
	}

	content, err := renderPayslip(record, emp)
	if err != nil {
		return report.FileResult{}, fmt.Errorf("failed to render payslip: %w", err)
	}

	return report.FileResult{
		FileName:    fmt.Sprintf("payslip-%s-%s.pdf", emp.StaffCode, record.Period),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func renderPayslip(record payroll.Record, emp employee.Employee) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", emp.FullName, emp.StaffCode))
	pdf.Ln(6)
	if emp.Department != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Department: %s", *emp.Department))
		pdf.Ln(6)
	}
	if emp.Position != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Position: %s", *emp.Position))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", record.Period))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Status: %s", record.Status))
	pdf.Ln(10)

	line := func(label string, amount decimal.Decimal) {
		pdf.Cell(110, 7, label)
		pdf.CellFormat(50, 7, amount.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	line("Base salary", record.BaseSalary)
	line("Prorated salary", record.ProratedSalary)
	line("Overtime pay", record.OvertimePay)
	if !record.AttendanceBonus.IsZero() {
		line("Attendance bonus", record.AttendanceBonus)
	}
	for _, name := range sortedKeys(record.AllowancesDetail) {
		line(name, record.AllowancesDetail[name])
	}
	pdf.SetFont("Helvetica", "B", 11)
	line("Gross pay", record.GrossPay)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, name := range sortedKeys(record.StatutoryDetail) {
		line(name, record.StatutoryDetail[name])
	}
	line("Income tax", record.IncomeTax)
	for _, name := range sortedKeys(record.DeductionsDetail) {
		line(name, record.DeductionsDetail[name])
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	line("Net pay", record.NetPay)

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Attendance: %d days present, %d days absent, %d minutes late, %d minutes overtime",
		record.DaysPresent, record.DaysAbsent, record.LateMinutes, record.OvertimeMinutes))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated at %s", time.Now().Format("2006-01-02 15:04")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
