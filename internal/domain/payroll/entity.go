package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeAllowance ComponentType = "allowance"
	ComponentTypeDeduction ComponentType = "deduction"
)

// Component - Master recurring payroll component (transport allowance,
// canteen deduction, ...). Statutory deductions and income tax are
// computed from configuration, not stored as components.
type Component struct {
	ID          string
	Name        string
	Type        ComponentType
	Description *string
	IsTaxable   bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EmployeeComponent - Component assignment to an employee with an amount
// and an effective window.
type EmployeeComponent struct {
	ID            string
	EmployeeID    string
	ComponentID   string
	Amount        decimal.Decimal
	EffectiveDate time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	ComponentName *string
	ComponentType *ComponentType
	IsTaxable     *bool
}

// ActiveIn reports whether the assignment applies during the given period.
func (c *EmployeeComponent) ActiveIn(periodStart, periodEnd time.Time) bool {
	if c.EffectiveDate.After(periodEnd) {
		return false
	}
	if c.EndDate != nil && c.EndDate.Before(periodStart) {
		return false
	}
	return true
}

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft PayrollStatus = "draft"
	PayrollStatusPaid  PayrollStatus = "paid"
	PayrollStatusVoid  PayrollStatus = "void"
)

// Record - Generated payroll result for one employee and period.
// Paid records are immutable; a correction voids the paid record and
// issues a replacement that points back via CorrectionOfID.
type Record struct {
	ID              string
	EmployeeID      string
	Period          string // "YYYY-MM"
	BaseSalary      decimal.Decimal
	ProratedSalary  decimal.Decimal
	OvertimePay     decimal.Decimal
	AttendanceBonus decimal.Decimal

	TotalAllowances  decimal.Decimal
	AllowancesDetail map[string]decimal.Decimal

	GrossPay decimal.Decimal

	StatutoryDetail map[string]decimal.Decimal
	TotalStatutory  decimal.Decimal
	IncomeTax       decimal.Decimal

	TotalDeductions  decimal.Decimal
	DeductionsDetail map[string]decimal.Decimal

	NetPay decimal.Decimal

	DaysPresent     int
	DaysAbsent      int
	LateMinutes     int
	OvertimeMinutes int

	Status         PayrollStatus
	PaidAt         *time.Time
	PaidBy         *string
	VoidedAt       *time.Time
	VoidedBy       *string
	VoidReason     *string
	CorrectionOfID *string
	GeneratedBy    string
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined fields
	EmployeeName *string
	StaffCode    *string
	Department   *string
	Position     *string
}

// IsMutable reports whether the record may still be edited or deleted.
func (r *Record) IsMutable() bool {
	return r.Status == PayrollStatusDraft
}

// AttendanceSummary - Aggregate of an employee's attendance over a period,
// the input for payroll calculation.
type AttendanceSummary struct {
	EmployeeID      string
	DaysPresent     int
	DaysLate        int
	DaysAbsent      int
	DaysOnLeave     int
	LateMinutes     int
	WorkingMinutes  int
	OvertimeMinutes int
	IncompleteCount int
}

// PerfectAttendance reports whether the summary qualifies for the perfect
// attendance bonus: at least one day worked, no absences, no late
// arrivals and no incomplete records.
func (s *AttendanceSummary) PerfectAttendance() bool {
	return s.DaysPresent > 0 && s.DaysAbsent == 0 && s.DaysLate == 0 && s.IncompleteCount == 0
}

// PeriodBounds returns the first and last day of a "YYYY-MM" period.
func PeriodBounds(period string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}
