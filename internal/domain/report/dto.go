package report

import (
	"github.com/schoolworks/staff-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

type MonthlyAttendanceReportRequest struct {
	Period string `json:"period"` // "YYYY-MM"
}

func (r *MonthlyAttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidPeriod(r.Period); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be in YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyAttendanceReport struct {
	Period      string `json:"period"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Employees []MonthlyAttendanceEmployee `json:"employees"`
}

type MonthlyAttendanceEmployee struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	StaffCode    string `json:"staff_code"`
	Department   string `json:"department"`
	Position     string `json:"position"`

	Summary   AttendanceSummary    `json:"summary"`
	DailyLogs []AttendanceDailyLog `json:"daily_logs"`
}

type AttendanceSummary struct {
	DaysPresent     int     `json:"days_present"`
	DaysLate        int     `json:"days_late"`
	DaysAbsent      int     `json:"days_absent"`
	DaysOnLeave     int     `json:"days_on_leave"`
	TotalWorkHours  float64 `json:"total_work_hours"`
	LateMinutes     int     `json:"late_minutes"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	HighRiskCount   int     `json:"high_risk_count"`
}

type AttendanceDailyLog struct {
	Date                  string  `json:"date"`
	DayOfWeek             string  `json:"day_of_week"`
	CheckIn               *string `json:"check_in"`
	CheckOut              *string `json:"check_out"`
	Status                string  `json:"status"`
	LateMinutes           int     `json:"late_minutes"`
	EarlyDepartureMinutes int     `json:"early_departure_minutes"`
	RiskLevel             string  `json:"risk_level"`
	IsManual              bool    `json:"is_manual"`
}

// ========================================
// PAYROLL SUMMARY REPORT
// ========================================

type PayrollSummaryReportRequest struct {
	Period string `json:"period"`
}

func (r *PayrollSummaryReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidPeriod(r.Period); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be in YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollSummaryReport struct {
	Period           string          `json:"period"`
	GeneratedAt      string          `json:"generated_at"`
	TotalGrossPayout decimal.Decimal `json:"total_gross_payout"`
	TotalTaxWithheld decimal.Decimal `json:"total_tax_withheld"`
	TotalNetPayout   decimal.Decimal `json:"total_net_payout"`
	TotalEmployees   int             `json:"total_employees"`

	Rows []PayrollSummaryRow `json:"rows"`
}

type PayrollSummaryRow struct {
	EmployeeName string `json:"employee_name"`
	StaffCode    string `json:"staff_code"`
	Department   string `json:"department"`
	Position     string `json:"position"`

	// Earnings
	BaseSalary      decimal.Decimal `json:"base_salary"`
	ProratedSalary  decimal.Decimal `json:"prorated_salary"`
	OvertimePay     decimal.Decimal `json:"overtime_pay"`
	AttendanceBonus decimal.Decimal `json:"attendance_bonus"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	GrossPay        decimal.Decimal `json:"gross_pay"`

	// Deductions
	TotalStatutory  decimal.Decimal `json:"total_statutory"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`

	// Final
	NetPay decimal.Decimal `json:"net_pay"`
	Status string          `json:"status"`
}

// ========================================
// LEAVE BALANCE REPORT
// ========================================

type LeaveBalanceReportRequest struct {
	Year int `json:"year"`
}

func (r *LeaveBalanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a valid year",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveBalanceReport struct {
	GeneratedAt string `json:"generated_at"`
	Year        int    `json:"year"`

	Rows []LeaveBalanceRow `json:"rows"`
}

type LeaveBalanceRow struct {
	EmployeeID string `json:"employee_id"`
	StaffCode  string `json:"staff_code"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	HireDate   string `json:"hire_date"`

	Balances []LeaveTypeBalance `json:"balances"`
}

type LeaveTypeBalance struct {
	LeaveTypeName string `json:"leave_type_name"`
	LeaveTypeCode string `json:"leave_type_code"`
	EntitledDays  int    `json:"entitled_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
}

// ========================================
// PAYSLIP
// ========================================

type PayslipRequest struct {
	RecordID string `json:"-"`
}

func (r *PayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// FileResult carries a generated document ready to stream to the client.
type FileResult struct {
	FileName    string
	ContentType string
	Content     []byte
}
