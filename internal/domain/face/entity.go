package face

import "time"

// Descriptor is an enrolled face embedding for one employee. One active
// descriptor per employee; re-enrolling replaces it.
type Descriptor struct {
	ID           string
	EmployeeID   string
	Embedding    []float64
	QualityScore *float64
	EnrolledBy   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// VerificationLog records the outcome of one verification attempt.
// Raw embeddings are never stored here.
type VerificationLog struct {
	ID              string
	EmployeeID      string
	Similarity      float64
	LivenessScore   float64
	ConfidenceScore float64
	Matched         bool
	LivenessPassed  bool
	CreatedAt       time.Time
}

// VerifyResult is the outcome of matching a probe descriptor against the
// enrolled one.
type VerifyResult struct {
	Matched        bool
	Similarity     float64
	LivenessPassed bool
}
