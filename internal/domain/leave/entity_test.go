package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountDays(t *testing.T) {
	tests := []struct {
		name            string
		start, end      time.Time
		excludeWeekends bool
		want            int
	}{
		{
			name:  "single day",
			start: day(2026, 3, 2), end: day(2026, 3, 2),
			want: 1,
		},
		{
			name:  "full week inclusive",
			start: day(2026, 3, 2), end: day(2026, 3, 8),
			want: 7,
		},
		{
			name:  "full week excluding weekends",
			start: day(2026, 3, 2), end: day(2026, 3, 8),
			excludeWeekends: true,
			want:            5,
		},
		{
			name:  "weekend only excluding weekends",
			start: day(2026, 3, 7), end: day(2026, 3, 8),
			excludeWeekends: true,
			want:            0,
		},
		{
			name:  "end before start",
			start: day(2026, 3, 5), end: day(2026, 3, 4),
			want: 0,
		},
		{
			name:  "two working weeks",
			start: day(2026, 3, 2), end: day(2026, 3, 13),
			excludeWeekends: true,
			want:            10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountDays(tt.start, tt.end, tt.excludeWeekends))
		})
	}
}

func TestRequestOverlaps(t *testing.T) {
	r := Request{StartDate: day(2026, 3, 10), EndDate: day(2026, 3, 14)}

	assert.True(t, r.Overlaps(day(2026, 3, 12), day(2026, 3, 12)))
	assert.True(t, r.Overlaps(day(2026, 3, 1), day(2026, 3, 10)), "touching start is an overlap")
	assert.True(t, r.Overlaps(day(2026, 3, 14), day(2026, 3, 20)), "touching end is an overlap")
	assert.True(t, r.Overlaps(day(2026, 3, 1), day(2026, 3, 31)), "containing range overlaps")

	assert.False(t, r.Overlaps(day(2026, 3, 1), day(2026, 3, 9)))
	assert.False(t, r.Overlaps(day(2026, 3, 15), day(2026, 3, 20)))
}
