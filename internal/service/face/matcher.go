package face

import (
	"math"

	"github.com/schoolworks/staff-backend-go/internal/domain/face"
)

// Matcher compares face descriptors by cosine similarity. Descriptors are
// fixed-length embeddings with values in [-1, 1], as produced by the
// client-side face model.
type Matcher struct {
	DescriptorLength    int
	SimilarityThreshold float64
}

// ValidateDescriptor rejects descriptors with the wrong length, values
// outside [-1, 1], or an all-zero vector.
func (m Matcher) ValidateDescriptor(d []float64) error {
	if len(d) != m.DescriptorLength {
		return face.ErrInvalidDescriptorLength
	}

	allZero := true
	for _, v := range d {
		if math.IsNaN(v) || v < -1 || v > 1 {
			return face.ErrDescriptorOutOfRange
		}
		if v != 0 {
			allZero = false
		}
	}
	if allZero {
		return face.ErrZeroDescriptor
	}

	return nil
}

// Match computes the cosine similarity between the enrolled and probe
// descriptors and applies the configured threshold.
func (m Matcher) Match(enrolled, probe []float64) (similarity float64, matched bool) {
	similarity = CosineSimilarity(enrolled, probe)
	return similarity, similarity >= m.SimilarityThreshold
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched lengths or zero-magnitude vectors yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	// rounding can push the quotient a few ulps outside the valid cosine
	// range, which breaks inclusive threshold checks at the boundary
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim))
}
