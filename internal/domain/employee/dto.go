package employee

import (
	"time"

	"github.com/schoolworks/staff-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	StaffCode      string  `json:"staff_code"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	Department     *string `json:"department,omitempty"`
	Position       *string `json:"position,omitempty"`
	WorkLocationID *string `json:"work_location_id,omitempty"`
	HireDate       string  `json:"hire_date"`
	SalaryType     string  `json:"salary_type"`
	BaseSalary     string  `json:"base_salary"`
	ScheduledStart string  `json:"scheduled_start"`
	ScheduledEnd   string  `json:"scheduled_end"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_code",
			Message: "staff_code is required",
		})
	} else if !validator.IsValidStaffCode(r.StaffCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_code",
			Message: "staff_code must match EMP followed by 3-6 digits",
		})
	}

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	} else if len(r.FullName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.HireDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date must be in YYYY-MM-DD format",
		})
	}

	validSalaryTypes := []string{string(SalaryTypeMonthly), string(SalaryTypeHourly)}
	if !validator.IsInSlice(r.SalaryType, validSalaryTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "salary_type",
			Message: "salary_type must be monthly or hourly",
		})
	}

	if validator.IsEmpty(r.BaseSalary) {
		errs = append(errs, validator.ValidationError{
			Field:   "base_salary",
			Message: "base_salary is required",
		})
	} else if salary, err := decimal.NewFromString(r.BaseSalary); err != nil || salary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "base_salary",
			Message: "base_salary must be a non-negative number",
		})
	}

	if !isValidClock(r.ScheduledStart) {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_start",
			Message: "scheduled_start must be in HH:MM format",
		})
	}
	if !isValidClock(r.ScheduledEnd) {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_end",
			Message: "scheduled_end must be in HH:MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func isValidClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

type UpdateEmployeeRequest struct {
	ID             string  `json:"-"`
	FullName       *string `json:"full_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	Department     *string `json:"department,omitempty"`
	Position       *string `json:"position,omitempty"`
	WorkLocationID *string `json:"work_location_id,omitempty"`
	SalaryType     *string `json:"salary_type,omitempty"`
	BaseSalary     *string `json:"base_salary,omitempty"`
	ScheduledStart *string `json:"scheduled_start,omitempty"`
	ScheduledEnd   *string `json:"scheduled_end,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be empty",
		})
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if r.SalaryType != nil {
		validSalaryTypes := []string{string(SalaryTypeMonthly), string(SalaryTypeHourly)}
		if !validator.IsInSlice(*r.SalaryType, validSalaryTypes) {
			errs = append(errs, validator.ValidationError{
				Field:   "salary_type",
				Message: "salary_type must be monthly or hourly",
			})
		}
	}

	if r.BaseSalary != nil {
		if salary, err := decimal.NewFromString(*r.BaseSalary); err != nil || salary.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "base_salary",
				Message: "base_salary must be a non-negative number",
			})
		}
	}

	if r.ScheduledStart != nil && !isValidClock(*r.ScheduledStart) {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_start",
			Message: "scheduled_start must be in HH:MM format",
		})
	}
	if r.ScheduledEnd != nil && !isValidClock(*r.ScheduledEnd) {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_end",
			Message: "scheduled_end must be in HH:MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DeactivateEmployeeRequest struct {
	ID              string `json:"-"`
	Status          string `json:"status"`
	ResignationDate string `json:"resignation_date"`
}

func (r *DeactivateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	validStatuses := []string{string(EmploymentStatusResigned), string(EmploymentStatusTerminated)}
	if !validator.IsInSlice(r.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be resigned or terminated",
		})
	}

	if validator.IsEmpty(r.ResignationDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "resignation_date",
			Message: "resignation_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.ResignationDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "resignation_date",
			Message: "resignation_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeFilter struct {
	Search     *string
	Department *string
	Status     *string
	Page       int
	Limit      int
}

type EmployeeResponse struct {
	ID               string  `json:"id"`
	StaffCode        string  `json:"staff_code"`
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	PhoneNumber      *string `json:"phone_number,omitempty"`
	Department       *string `json:"department,omitempty"`
	Position         *string `json:"position,omitempty"`
	WorkLocationID   *string `json:"work_location_id,omitempty"`
	WorkLocationName *string `json:"work_location_name,omitempty"`
	HireDate         string  `json:"hire_date"`
	ResignationDate  *string `json:"resignation_date,omitempty"`
	EmploymentStatus string  `json:"employment_status"`
	SalaryType       string  `json:"salary_type"`
	BaseSalary       string  `json:"base_salary"`
	ScheduledStart   string  `json:"scheduled_start"`
	ScheduledEnd     string  `json:"scheduled_end"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalItems int64              `json:"total_items"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}
