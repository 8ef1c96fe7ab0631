package face

import (
	"github.com/schoolworks/staff-backend-go/internal/pkg/validator"
)

type EnrollRequest struct {
	EmployeeID   string    `json:"employee_id"`
	Embedding    []float64 `json:"embedding"`
	QualityScore *float64  `json:"quality_score,omitempty"`

	// Set from JWT claims
	EnrolledBy string `json:"-"`
}

func (r *EnrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(r.Embedding) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "embedding",
			Message: "embedding is required",
		})
	}

	if r.QualityScore != nil && (*r.QualityScore < 0 || *r.QualityScore > 1) {
		errs = append(errs, validator.ValidationError{
			Field:   "quality_score",
			Message: "quality_score must be between 0 and 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EnrollmentResponse deliberately omits the raw embedding.
type EnrollmentResponse struct {
	EmployeeID   string   `json:"employee_id"`
	Enrolled     bool     `json:"enrolled"`
	QualityScore *float64 `json:"quality_score,omitempty"`
	UpdatedAt    string   `json:"updated_at,omitempty"`
}

type VerificationLogResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Similarity      float64 `json:"similarity"`
	LivenessScore   float64 `json:"liveness_score"`
	ConfidenceScore float64 `json:"confidence_score"`
	Matched         bool    `json:"matched"`
	LivenessPassed  bool    `json:"liveness_passed"`
	CreatedAt       string  `json:"created_at"`
}
