package payroll

import (
	"github.com/schoolworks/staff-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== COMPONENT DTOs ==========

type CreateComponentRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"` // "allowance" or "deduction"
	Description *string `json:"description,omitempty"`
	IsTaxable   *bool   `json:"is_taxable,omitempty"`
}

func (r *CreateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if r.Type != string(ComponentTypeAllowance) && r.Type != string(ComponentTypeDeduction) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be 'allowance' or 'deduction'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateComponentRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsTaxable   *bool   `json:"is_taxable,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *UpdateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ComponentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`
	IsTaxable   bool    `json:"is_taxable"`
	IsActive    bool    `json:"is_active"`
}

// ========== EMPLOYEE COMPONENT DTOs ==========

type AssignComponentRequest struct {
	EmployeeID    string          `json:"-"`
	ComponentID   string          `json:"component_id"`
	Amount        decimal.Decimal `json:"amount"`
	EffectiveDate *string         `json:"effective_date,omitempty"`
	EndDate       *string         `json:"end_date,omitempty"`
}

func (r *AssignComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ComponentID) {
		errs = append(errs, validator.ValidationError{Field: "component_id", Message: "component_id is required"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must not be negative"})
	}
	if r.EffectiveDate != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "effective_date must be in YYYY-MM-DD format"})
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeComponentResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	ComponentID   string          `json:"component_id"`
	ComponentName *string         `json:"component_name,omitempty"`
	ComponentType *string         `json:"component_type,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	EffectiveDate string          `json:"effective_date"`
	EndDate       *string         `json:"end_date,omitempty"`
}

// ========== RECORD DTOs ==========

type GenerateRequest struct {
	Period      string   `json:"period"` // "YYYY-MM"
	EmployeeIDs []string `json:"employee_ids,omitempty"`
	// Force generates even when the employee has incomplete attendance
	// records in the period.
	Force       bool   `json:"force,omitempty"`
	GeneratedBy string `json:"-"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidPeriod(r.Period); !ok {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "period must be in YYYY-MM format"})
	}
	for _, id := range r.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "employee_ids must contain valid ids"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkPaidRequest struct {
	RecordIDs []string `json:"record_ids"`
	PaidBy    string   `json:"-"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.RecordIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "record_ids", Message: "record_ids is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CorrectRequest struct {
	RecordID    string `json:"-"`
	Reason      string `json:"reason"`
	CorrectedBy string `json:"-"`
}

func (r *CorrectRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordFilter struct {
	Period     *string
	EmployeeID *string
	Status     *string
	Department *string
	Page       int
	Limit      int
}

type RecordResponse struct {
	ID               string                     `json:"id"`
	EmployeeID       string                     `json:"employee_id"`
	EmployeeName     *string                    `json:"employee_name,omitempty"`
	StaffCode        *string                    `json:"staff_code,omitempty"`
	Department       *string                    `json:"department,omitempty"`
	Position         *string                    `json:"position,omitempty"`
	Period           string                     `json:"period"`
	BaseSalary       decimal.Decimal            `json:"base_salary"`
	ProratedSalary   decimal.Decimal            `json:"prorated_salary"`
	OvertimePay      decimal.Decimal            `json:"overtime_pay"`
	AttendanceBonus  decimal.Decimal            `json:"attendance_bonus"`
	TotalAllowances  decimal.Decimal            `json:"total_allowances"`
	AllowancesDetail map[string]decimal.Decimal `json:"allowances_detail,omitempty"`
	GrossPay         decimal.Decimal            `json:"gross_pay"`
	StatutoryDetail  map[string]decimal.Decimal `json:"statutory_detail,omitempty"`
	TotalStatutory   decimal.Decimal            `json:"total_statutory"`
	IncomeTax        decimal.Decimal            `json:"income_tax"`
	TotalDeductions  decimal.Decimal            `json:"total_deductions"`
	DeductionsDetail map[string]decimal.Decimal `json:"deductions_detail,omitempty"`
	NetPay           decimal.Decimal            `json:"net_pay"`
	DaysPresent      int                        `json:"days_present"`
	DaysAbsent       int                        `json:"days_absent"`
	LateMinutes      int                        `json:"late_minutes"`
	OvertimeMinutes  int                        `json:"overtime_minutes"`
	Status           string                     `json:"status"`
	PaidAt           *string                    `json:"paid_at,omitempty"`
	VoidReason       *string                    `json:"void_reason,omitempty"`
	CorrectionOfID   *string                    `json:"correction_of_id,omitempty"`
	Notes            *string                    `json:"notes,omitempty"`
	CreatedAt        string                     `json:"created_at"`
}

type ListRecordResponse struct {
	Records    []RecordResponse `json:"records"`
	TotalItems int64            `json:"total_items"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

// GenerateFailure describes one employee skipped during batch generation.
type GenerateFailure struct {
	EmployeeID string `json:"employee_id"`
	StaffCode  string `json:"staff_code,omitempty"`
	Reason     string `json:"reason"`
}

type GenerateResponse struct {
	Period    string            `json:"period"`
	Generated int               `json:"generated"`
	Skipped   int               `json:"skipped"`
	Failures  []GenerateFailure `json:"failures,omitempty"`
}

// PeriodTotals aggregates non-void records for one period.
type PeriodTotals struct {
	Period        string          `json:"period"`
	EmployeeCount int             `json:"employee_count"`
	TotalGross    decimal.Decimal `json:"total_gross"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	TotalNet      decimal.Decimal `json:"total_net"`
	DraftCount    int             `json:"draft_count"`
	PaidCount     int             `json:"paid_count"`
}
