package face

import "context"

// FaceService manages face enrollment and verification.
type FaceService interface {
	// Enroll registers or replaces an employee's face descriptor (manager+ only)
	Enroll(ctx context.Context, req EnrollRequest) (EnrollmentResponse, error)

	// Remove deletes an employee's enrolled descriptor (manager+ only)
	Remove(ctx context.Context, employeeID string) error

	// Status reports whether an employee has an enrolled descriptor
	Status(ctx context.Context, employeeID string) (EnrollmentResponse, error)

	// Verify matches a probe descriptor and liveness signals against the
	// enrolled descriptor and records a verification log entry
	Verify(ctx context.Context, employeeID string, probe []float64, livenessScore, confidenceScore float64) (VerifyResult, error)

	// VerificationHistory lists recent verification attempts for an employee
	VerificationHistory(ctx context.Context, employeeID string, limit int) ([]VerificationLogResponse, error)
}
