package attendance

import (
	"time"

	"github.com/schoolworks/staff-backend-go/internal/domain/attendance"
)

// CheckInEvaluation is the outcome of evaluating a check-in time against
// the employee's scheduled start.
type CheckInEvaluation struct {
	Status      attendance.Status
	LateMinutes int
}

// CheckOutEvaluation is the outcome of evaluating a check-out time.
type CheckOutEvaluation struct {
	Status                attendance.Status
	WorkingMinutes        int
	OvertimeMinutes       int
	EarlyDepartureMinutes int
}

// clockOn combines a "HH:MM" clock string with the calendar date. A
// malformed clock falls back to midnight.
func clockOn(date time.Time, clock string) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

// EvaluateCheckIn classifies a check-in as present or late. The check-in
// is late iff it falls after scheduled start plus the grace window;
// lateness minutes are counted from the scheduled start, not the window.
func EvaluateCheckIn(checkIn time.Time, scheduledStart string, graceMinutes int) CheckInEvaluation {
	scheduled := clockOn(checkIn, scheduledStart)
	graceLimit := scheduled.Add(time.Duration(graceMinutes) * time.Minute)

	if !checkIn.After(graceLimit) {
		return CheckInEvaluation{Status: attendance.StatusPresent}
	}

	late := int(checkIn.Sub(scheduled).Minutes())
	if late < 0 {
		late = 0
	}
	return CheckInEvaluation{Status: attendance.StatusLate, LateMinutes: late}
}

// EvaluateCheckOut computes worked and overtime minutes and downgrades
// the status to early_departure when the check-out precedes the scheduled
// end by more than the grace window. Overtime counts minutes beyond the
// standard working day.
func EvaluateCheckOut(checkIn, checkOut time.Time, currentStatus attendance.Status, scheduledEnd string, graceMinutes, standardHoursPerDay int) CheckOutEvaluation {
	eval := CheckOutEvaluation{Status: currentStatus}

	working := int(checkOut.Sub(checkIn).Minutes())
	if working < 0 {
		working = 0
	}
	eval.WorkingMinutes = working

	if overtime := working - standardHoursPerDay*60; overtime > 0 {
		eval.OvertimeMinutes = overtime
	}

	scheduled := clockOn(checkOut, scheduledEnd)
	graceLimit := scheduled.Add(-time.Duration(graceMinutes) * time.Minute)
	if checkOut.Before(graceLimit) {
		eval.Status = attendance.StatusEarlyDeparture
		eval.EarlyDepartureMinutes = int(scheduled.Sub(checkOut).Minutes())
	}

	return eval
}
