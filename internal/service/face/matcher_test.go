package face

import (
	"math"
	"testing"

	"github.com/schoolworks/staff-backend-go/internal/domain/face"
	"github.com/stretchr/testify/assert"
)

func testMatcher() Matcher {
	return Matcher{DescriptorLength: 128, SimilarityThreshold: 0.6}
}

// descriptor builds a 128-dim vector from a short prefix, padding with a
// small constant so the vector is never all zeros.
func descriptor(prefix ...float64) []float64 {
	d := make([]float64, 128)
	copy(d, prefix)
	for i := len(prefix); i < len(d); i++ {
		d[i] = 0.01
	}
	return d
}

func TestValidateDescriptor(t *testing.T) {
	m := testMatcher()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, m.ValidateDescriptor(descriptor(0.5, -0.3)))
	})

	t.Run("wrong length", func(t *testing.T) {
		assert.ErrorIs(t, m.ValidateDescriptor(make([]float64, 64)), face.ErrInvalidDescriptorLength)
		assert.ErrorIs(t, m.ValidateDescriptor(nil), face.ErrInvalidDescriptorLength)
	})

	t.Run("out of range", func(t *testing.T) {
		d := descriptor()
		d[3] = 1.5
		assert.ErrorIs(t, m.ValidateDescriptor(d), face.ErrDescriptorOutOfRange)

		d[3] = -2
		assert.ErrorIs(t, m.ValidateDescriptor(d), face.ErrDescriptorOutOfRange)

		d[3] = math.NaN()
		assert.ErrorIs(t, m.ValidateDescriptor(d), face.ErrDescriptorOutOfRange)
	})

	t.Run("all zeros", func(t *testing.T) {
		assert.ErrorIs(t, m.ValidateDescriptor(make([]float64, 128)), face.ErrZeroDescriptor)
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		d := descriptor(0.4, -0.2, 0.9)
		assert.InDelta(t, 1.0, CosineSimilarity(d, d), 1e-9)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		a := []float64{0.5, -0.5, 0.25}
		b := []float64{-0.5, 0.5, -0.25}
		assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		a := []float64{1, 0}
		b := []float64{0, 1}
		assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 2}, []float64{1}))
	})

	t.Run("zero magnitude", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))
	})
}

func TestMatch(t *testing.T) {
	m := testMatcher()

	t.Run("same descriptor matches", func(t *testing.T) {
		d := descriptor(0.7, 0.1, -0.4)
		similarity, matched := m.Match(d, d)
		assert.True(t, matched)
		assert.InDelta(t, 1.0, similarity, 1e-9)
	})

	t.Run("dissimilar descriptor does not match", func(t *testing.T) {
		a := descriptor(1, 0, 0, 0)
		b := make([]float64, 128)
		// Mostly negated relative to a.
		for i := range b {
			b[i] = -a[i]
		}
		similarity, matched := m.Match(a, b)
		assert.False(t, matched)
		assert.Less(t, similarity, 0.6)
	})

	t.Run("threshold boundary is inclusive", func(t *testing.T) {
		m := Matcher{DescriptorLength: 2, SimilarityThreshold: 1.0}
		similarity, matched := m.Match([]float64{0.5, 0.5}, []float64{0.5, 0.5})
		assert.True(t, matched)
		assert.InDelta(t, 1.0, similarity, 1e-9)
	})
}
