package audit

import (
	"time"

	"github.com/schoolworks/staff-backend-go/internal/pkg/validator"
)

type Filter struct {
	ActorID     *string
	EventType   *string
	SubjectType *string
	SubjectID   *string
	RiskLevel   *string
	StartDate   *string // "YYYY-MM-DD"
	EndDate     *string
	Page        int
	Limit       int
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.RiskLevel != nil && !validator.IsInSlice(*f.RiskLevel, []string{string(RiskLow), string(RiskMedium), string(RiskHigh)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "risk_level",
			Message: "risk_level must be one of: low, medium, high",
		})
	}
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EventResponse struct {
	ID          string                 `json:"id"`
	ActorID     *string                `json:"actor_id,omitempty"`
	EventType   string                 `json:"event_type"`
	SubjectType string                 `json:"subject_type"`
	SubjectID   string                 `json:"subject_id"`
	RiskLevel   string                 `json:"risk_level"`
	IPAddress   *string                `json:"ip_address,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

type ListEventResponse struct {
	Events     []EventResponse `json:"events"`
	TotalItems int64           `json:"total_items"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}
