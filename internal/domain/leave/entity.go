package leave

import "time"

// LeaveType is a category of leave with its yearly entitlement policy.
type LeaveType struct {
	ID                 string
	Code               string
	Name               string
	DefaultDaysPerYear int
	IsPaid             bool
	ExcludeWeekends    bool
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Balance tracks one employee's entitlement for one leave type and year.
// RemainingDays may go negative only through an emergency override.
type Balance struct {
	ID            string
	EmployeeID    string
	LeaveTypeID   string
	Year          int
	EntitledDays  int
	UsedDays      int
	RemainingDays int
	UpdatedAt     time.Time

	// DTO / Join
	LeaveTypeName *string
	LeaveTypeCode *string
}

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

type Request struct {
	ID                string
	EmployeeID        string
	LeaveTypeID       string
	StartDate         time.Time
	EndDate           time.Time
	DaysCount         int
	Reason            string
	Status            RequestStatus
	EmergencyOverride bool
	OverrideReason    *string
	ReviewedBy        *string
	ReviewedAt        *time.Time
	ReviewNote        *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO / Join
	EmployeeName  *string
	StaffCode     *string
	LeaveTypeName *string
	LeaveTypeCode *string
}

// Overlaps reports whether the request's range intersects [start, end],
// bounds inclusive.
func (r *Request) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}

// CountDays returns the inclusive day count between start and end,
// optionally skipping Saturdays and Sundays.
func CountDays(start, end time.Time, excludeWeekends bool) int {
	if end.Before(start) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if excludeWeekends {
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
		}
		days++
	}
	return days
}
