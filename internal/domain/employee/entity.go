package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	UserID           *string
	WorkLocationID   *string
	StaffCode        string
	FullName         string
	Email            string
	PhoneNumber      *string
	Department       *string
	Position         *string
	HireDate         time.Time
	ResignationDate  *time.Time
	EmploymentStatus EmploymentStatus
	SalaryType       SalaryType
	BaseSalary       decimal.Decimal

	// Daily work schedule, "HH:MM" in local time
	ScheduledStart string
	ScheduledEnd   string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	// DTO / Join
	WorkLocationName *string
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

type SalaryType string

const (
	SalaryTypeMonthly SalaryType = "monthly"
	SalaryTypeHourly  SalaryType = "hourly"
)

// IsActive reports whether the employee is currently employed.
func (e *Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive && e.DeletedAt == nil
}
