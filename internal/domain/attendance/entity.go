package attendance

import "time"

type Status string

const (
	StatusPresent        Status = "present"
	StatusLate           Status = "late"
	StatusEarlyDeparture Status = "early_departure"
	StatusAbsent         Status = "absent"
	StatusOnLeave        Status = "on_leave"
)

// RiskLevel classifies how trustworthy a check-in is based on how many
// verification signals passed.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"    // location and face both verified
	RiskMedium RiskLevel = "medium" // one of the two verified
	RiskHigh   RiskLevel = "high"   // neither verified
)

// ClassifyRisk derives the risk level from the verification flags.
func ClassifyRisk(locationVerified, faceVerified bool) RiskLevel {
	switch {
	case locationVerified && faceVerified:
		return RiskLow
	case locationVerified || faceVerified:
		return RiskMedium
	default:
		return RiskHigh
	}
}

type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time // local calendar date, midnight

	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       Status

	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckInDistance   *float64 // meters from the work site
	CheckOutLatitude  *float64
	CheckOutLongitude *float64

	LocationVerified bool
	FaceVerified     bool
	FaceSimilarity   *float64

	WorkingMinutes        *int
	OvertimeMinutes       *int
	LateMinutes           *int
	EarlyDepartureMinutes *int

	IsManual     bool
	ManualReason *string
	ApprovedBy   *string
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / Join
	EmployeeName *string
	StaffCode    *string
}

// IsComplete reports whether both check-in and check-out are recorded.
func (a *Attendance) IsComplete() bool {
	if a.Status == StatusAbsent || a.Status == StatusOnLeave {
		return true
	}
	return a.CheckInTime != nil && a.CheckOutTime != nil
}

// RiskLevel returns the risk classification of this record's check-in.
// Manual entries bypass verification and are always high risk.
func (a *Attendance) RiskLevel() RiskLevel {
	if a.IsManual {
		return RiskHigh
	}
	return ClassifyRisk(a.LocationVerified, a.FaceVerified)
}
