package audit

import "time"

// RiskLevel mirrors the verification risk attached to attendance events.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// EventType enumerates auditable actions.
type EventType string

const (
	EventCheckIn          EventType = "attendance.check_in"
	EventCheckOut         EventType = "attendance.check_out"
	EventManualEntry      EventType = "attendance.manual_entry"
	EventMarkedAbsent     EventType = "attendance.marked_absent"
	EventFaceEnrolled     EventType = "face.enrolled"
	EventFaceRemoved      EventType = "face.removed"
	EventFaceVerifyFailed EventType = "face.verify_failed"
	EventLeaveSubmitted   EventType = "leave.submitted"
	EventLeaveApproved    EventType = "leave.approved"
	EventLeaveRejected    EventType = "leave.rejected"
	EventLeaveCancelled   EventType = "leave.cancelled"
	EventPayrollGenerated EventType = "payroll.generated"
	EventPayrollPaid      EventType = "payroll.paid"
	EventPayrollCorrected EventType = "payroll.corrected"
	EventUserLogin        EventType = "user.login"
	EventUserLoginFailed  EventType = "user.login_failed"
	EventEmployeeCreated  EventType = "employee.created"
	EventEmployeeUpdated  EventType = "employee.updated"
	EventEmployeeResigned EventType = "employee.resigned"
)

// Event is one immutable audit log entry. Events are append only and are
// never updated or deleted through the application.
type Event struct {
	ID          string
	ActorID     *string // nil for system generated events
	EventType   EventType
	SubjectType string
	SubjectID   string
	RiskLevel   RiskLevel
	IPAddress   *string
	Metadata    map[string]interface{}
	OccurredAt  time.Time
}
