package leave

import "github.com/schoolworks/staff-backend-go/internal/pkg/validator"

type CreateLeaveTypeRequest struct {
	Code               string `json:"code"`
	Name               string `json:"name"`
	DefaultDaysPerYear int    `json:"default_days_per_year"`
	IsPaid             bool   `json:"is_paid"`
	ExcludeWeekends    bool   `json:"exclude_weekends"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if len(r.Code) > 50 {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must not exceed 50 characters",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.DefaultDaysPerYear < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "default_days_per_year",
			Message: "default_days_per_year must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLeaveTypeRequest struct {
	ID                 string  `json:"-"`
	Name               *string `json:"name,omitempty"`
	DefaultDaysPerYear *int    `json:"default_days_per_year,omitempty"`
	IsPaid             *bool   `json:"is_paid,omitempty"`
	ExcludeWeekends    *bool   `json:"exclude_weekends,omitempty"`
	IsActive           *bool   `json:"is_active,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.DefaultDaysPerYear != nil && *r.DefaultDaysPerYear < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "default_days_per_year",
			Message: "default_days_per_year must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateRequest struct {
	EmployeeID        string  `json:"-"`
	LeaveTypeID       string  `json:"leave_type_id"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	Reason            string  `json:"reason"`
	EmergencyOverride bool    `json:"emergency_override"`
	OverrideReason    *string `json:"override_reason,omitempty"`

	// Minimum reason length comes from configuration
	MinReasonLength int `json:"-"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	startDate, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	endDate, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not precede start_date",
		})
	}

	minReason := r.MinReasonLength
	if minReason <= 0 {
		minReason = 10
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) < minReason {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must be at least " + validator.Itoa(minReason) + " characters",
		})
	} else if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if r.EmergencyOverride && (r.OverrideReason == nil || validator.IsEmpty(*r.OverrideReason)) {
		errs = append(errs, validator.ValidationError{
			Field:   "override_reason",
			Message: "override_reason is required when emergency_override is set",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DecideRequest struct {
	ID         string  `json:"-"`
	ReviewerID string  `json:"-"`
	Note       *string `json:"note,omitempty"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Note != nil && len(*r.Note) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RequestFilter struct {
	EmployeeID  *string
	LeaveTypeID *string
	Status      *string
	StartDate   *string
	EndDate     *string
	Page        int
	Limit       int
}

type MyRequestFilter struct {
	Status *string
	Year   *int
	Page   int
	Limit  int
}

type LeaveTypeResponse struct {
	ID                 string `json:"id"`
	Code               string `json:"code"`
	Name               string `json:"name"`
	DefaultDaysPerYear int    `json:"default_days_per_year"`
	IsPaid             bool   `json:"is_paid"`
	ExcludeWeekends    bool   `json:"exclude_weekends"`
	IsActive           bool   `json:"is_active"`
}

type BalanceResponse struct {
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeCode string `json:"leave_type_code"`
	LeaveTypeName string `json:"leave_type_name"`
	Year          int    `json:"year"`
	EntitledDays  int    `json:"entitled_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
}

type RequestResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	EmployeeName      *string `json:"employee_name,omitempty"`
	StaffCode         *string `json:"staff_code,omitempty"`
	LeaveTypeID       string  `json:"leave_type_id"`
	LeaveTypeCode     *string `json:"leave_type_code,omitempty"`
	LeaveTypeName     *string `json:"leave_type_name,omitempty"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	DaysCount         int     `json:"days_count"`
	Reason            string  `json:"reason"`
	Status            string  `json:"status"`
	EmergencyOverride bool    `json:"emergency_override"`
	OverrideReason    *string `json:"override_reason,omitempty"`
	ReviewedBy        *string `json:"reviewed_by,omitempty"`
	ReviewedAt        *string `json:"reviewed_at,omitempty"`
	ReviewNote        *string `json:"review_note,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type ListRequestResponse struct {
	Requests   []RequestResponse `json:"requests"`
	TotalItems int64             `json:"total_items"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
