package attendance

import (
	"github.com/schoolworks/staff-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID     string  `json:"-"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`

	// Face verification payload captured on the client
	FaceDescriptor  []float64 `json:"face_descriptor"`
	LivenessScore   float64   `json:"liveness_score"`
	ConfidenceScore float64   `json:"confidence_score"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(r.FaceDescriptor) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "face_descriptor",
			Message: "face_descriptor is required",
		})
	}

	if r.LivenessScore < 0 || r.LivenessScore > 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "liveness_score",
			Message: "liveness_score must be between 0 and 1",
		})
	}

	if r.ConfidenceScore < 0 || r.ConfidenceScore > 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "confidence_score",
			Message: "confidence_score must be between 0 and 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	EmployeeID     string  `json:"-"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
	Notes          *string `json:"notes,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.Notes != nil && len(*r.Notes) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ManualEntryRequest struct {
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	CheckInTime  string  `json:"check_in_time"`  // HH:MM
	CheckOutTime string  `json:"check_out_time"` // HH:MM
	Reason       string  `json:"reason"`
	Notes        *string `json:"notes,omitempty"`

	// Set from JWT claims, not the request body
	ApprovedBy string `json:"-"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.CheckInTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_time",
			Message: "check_in_time is required",
		})
	}
	if validator.IsEmpty(r.CheckOutTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: "check_out_time is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required for manual entries",
		})
	} else if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceFilter struct {
	EmployeeID *string
	Date       *string
	StartDate  *string
	EndDate    *string
	Status     *string
	RiskLevel  *string
	Page       int
	Limit      int
}

type MyAttendanceFilter struct {
	Date      *string
	StartDate *string
	EndDate   *string
	Status    *string
	Page      int
	Limit     int
}

// VerificationDetail summarizes the verification signals of a check-in.
type VerificationDetail struct {
	LocationVerified bool     `json:"location_verified"`
	FaceVerified     bool     `json:"face_verified"`
	FaceSimilarity   *float64 `json:"face_similarity,omitempty"`
	DistanceMeters   *float64 `json:"distance_meters,omitempty"`
	RiskLevel        string   `json:"risk_level"`
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	StaffCode    *string `json:"staff_code,omitempty"`
	Date         string  `json:"date"`

	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Status       string  `json:"status"`

	Verification VerificationDetail `json:"verification"`

	WorkingMinutes        *int `json:"working_minutes,omitempty"`
	OvertimeMinutes       *int `json:"overtime_minutes,omitempty"`
	LateMinutes           *int `json:"late_minutes,omitempty"`
	EarlyDepartureMinutes *int `json:"early_departure_minutes,omitempty"`

	IsManual     bool    `json:"is_manual"`
	ManualReason *string `json:"manual_reason,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ListAttendanceResponse struct {
	Attendances []AttendanceResponse `json:"attendances"`
	TotalItems  int64                `json:"total_items"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}
