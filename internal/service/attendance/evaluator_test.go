package attendance

import (
	"testing"
	"time"

	"github.com/schoolworks/staff-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestEvaluateCheckIn(t *testing.T) {
	t.Run("on time", func(t *testing.T) {
		eval := EvaluateCheckIn(at(7, 55), "08:00", 15)
		assert.Equal(t, attendance.StatusPresent, eval.Status)
		assert.Equal(t, 0, eval.LateMinutes)
	})

	t.Run("within grace window", func(t *testing.T) {
		eval := EvaluateCheckIn(at(8, 10), "08:00", 15)
		assert.Equal(t, attendance.StatusPresent, eval.Status)
		assert.Equal(t, 0, eval.LateMinutes)
	})

	t.Run("exactly at grace limit", func(t *testing.T) {
		eval := EvaluateCheckIn(at(8, 15), "08:00", 15)
		assert.Equal(t, attendance.StatusPresent, eval.Status)
	})

	t.Run("past grace counts from scheduled start", func(t *testing.T) {
		eval := EvaluateCheckIn(at(8, 16), "08:00", 15)
		assert.Equal(t, attendance.StatusLate, eval.Status)
		assert.Equal(t, 16, eval.LateMinutes)
	})

	t.Run("very late", func(t *testing.T) {
		eval := EvaluateCheckIn(at(10, 0), "08:00", 15)
		assert.Equal(t, attendance.StatusLate, eval.Status)
		assert.Equal(t, 120, eval.LateMinutes)
	})
}

func TestEvaluateCheckOut(t *testing.T) {
	t.Run("nine and a half hours yields ninety minutes overtime", func(t *testing.T) {
		eval := EvaluateCheckOut(at(8, 0), at(17, 30), attendance.StatusPresent, "17:00", 15, 8)
		assert.Equal(t, attendance.StatusPresent, eval.Status)
		assert.Equal(t, 570, eval.WorkingMinutes)
		assert.Equal(t, 90, eval.OvertimeMinutes)
		assert.Equal(t, 0, eval.EarlyDepartureMinutes)
	})

	t.Run("no overtime within standard day", func(t *testing.T) {
		eval := EvaluateCheckOut(at(9, 0), at(16, 0), attendance.StatusPresent, "17:00", 15, 8)
		assert.Equal(t, 420, eval.WorkingMinutes)
		assert.Equal(t, 0, eval.OvertimeMinutes)
	})

	t.Run("early departure past grace window", func(t *testing.T) {
		eval := EvaluateCheckOut(at(8, 0), at(16, 0), attendance.StatusPresent, "17:00", 15, 8)
		assert.Equal(t, attendance.StatusEarlyDeparture, eval.Status)
		assert.Equal(t, 60, eval.EarlyDepartureMinutes)
	})

	t.Run("check-out within grace keeps status", func(t *testing.T) {
		eval := EvaluateCheckOut(at(8, 0), at(16, 50), attendance.StatusPresent, "17:00", 15, 8)
		assert.Equal(t, attendance.StatusPresent, eval.Status)
		assert.Equal(t, 0, eval.EarlyDepartureMinutes)
	})

	t.Run("late status survives a normal check-out", func(t *testing.T) {
		eval := EvaluateCheckOut(at(8, 30), at(17, 0), attendance.StatusLate, "17:00", 15, 8)
		assert.Equal(t, attendance.StatusLate, eval.Status)
	})

	t.Run("late status downgraded by early departure", func(t *testing.T) {
		eval := EvaluateCheckOut(at(8, 30), at(15, 0), attendance.StatusLate, "17:00", 15, 8)
		assert.Equal(t, attendance.StatusEarlyDeparture, eval.Status)
		assert.Equal(t, 120, eval.EarlyDepartureMinutes)
	})
}
