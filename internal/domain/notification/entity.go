package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeCheckInCompleted NotificationType = "check_in_completed"
	TypeCheckOutReminder NotificationType = "check_out_reminder"
	TypeMarkedAbsent     NotificationType = "marked_absent"
	TypeLeaveSubmitted   NotificationType = "leave_submitted"
	TypeLeaveApproved    NotificationType = "leave_approved"
	TypeLeaveRejected    NotificationType = "leave_rejected"
	TypeLeaveCancelled   NotificationType = "leave_cancelled"
	TypePayslipReady     NotificationType = "payslip_ready"
	TypePayrollCorrected NotificationType = "payroll_corrected"
	TypeSecurityAlert    NotificationType = "security_alert"
	TypeFaceEnrolled     NotificationType = "face_enrolled"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeCheckInCompleted,
		TypeCheckOutReminder,
		TypeMarkedAbsent,
		TypeLeaveSubmitted,
		TypeLeaveApproved,
		TypeLeaveRejected,
		TypeLeaveCancelled,
		TypePayslipReady,
		TypePayrollCorrected,
		TypeSecurityAlert,
		TypeFaceEnrolled,
	}
}

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// NotificationPreference represents user preference for a notification type
type NotificationPreference struct {
	ID               string
	UserID           string
	NotificationType NotificationType
	EmailEnabled     bool
	PushEnabled      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
