package response

import (
	"errors"
	"net/http"

	"github.com/schoolworks/staff-backend-go/internal/domain/attendance"
	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/domain/auth"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/domain/face"
	"github.com/schoolworks/staff-backend-go/internal/domain/leave"
	"github.com/schoolworks/staff-backend-go/internal/domain/location"
	"github.com/schoolworks/staff-backend-go/internal/domain/notification"
	"github.com/schoolworks/staff-backend-go/internal/domain/payroll"
	"github.com/schoolworks/staff-backend-go/internal/domain/report"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"github.com/schoolworks/staff-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountDeactivated):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrStaffCodeExists),
		errors.Is(err, employee.ErrEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrFutureDateNotAllowed),
		errors.Is(err, employee.ErrInvalidStaffCode),
		errors.Is(err, employee.ErrInvalidSalaryType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive),
		errors.Is(err, employee.ErrEmployeeAlreadyActive),
		errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Work location errors
	case errors.Is(err, location.ErrLocationNotFound):
		NotFound(w, "Work location not found")
	case errors.Is(err, location.ErrLocationNameUsed):
		Conflict(w, err.Error())
	case errors.Is(err, location.ErrLocationInactive):
		BadRequest(w, err.Error(), nil)

	// Attendance errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNoWorkLocation),
		errors.Is(err, attendance.ErrLivenessCheckFailed),
		errors.Is(err, attendance.ErrLowCaptureConfidence),
		errors.Is(err, attendance.ErrNoCheckInRecord),
		errors.Is(err, attendance.ErrManualReasonRequired),
		errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Face verification errors
	case errors.Is(err, face.ErrDescriptorNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, face.ErrInvalidDescriptorLength),
		errors.Is(err, face.ErrDescriptorOutOfRange),
		errors.Is(err, face.ErrZeroDescriptor):
		BadRequest(w, err.Error(), nil)

	// Leave errors
	case errors.Is(err, leave.ErrLeaveTypeNotFound),
		errors.Is(err, leave.ErrLeaveRequestNotFound),
		errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, leave.ErrLeaveTypeCodeExists),
		errors.Is(err, leave.ErrOverlappingLeave),
		errors.Is(err, leave.ErrLeaveAlreadyProcessed),
		errors.Is(err, leave.ErrLeaveAlreadyStarted):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Payroll errors
	case errors.Is(err, payroll.ErrComponentNotFound),
		errors.Is(err, payroll.ErrEmployeeComponentNotFound),
		errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, payroll.ErrComponentNameExists),
		errors.Is(err, payroll.ErrRecordAlreadyExists),
		errors.Is(err, payroll.ErrRecordAlreadyPaid),
		errors.Is(err, payroll.ErrRecordNotDraft),
		errors.Is(err, payroll.ErrRecordNotPaid),
		errors.Is(err, payroll.ErrRecordVoided):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrInvalidComponentType),
		errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrIncompleteAttendance),
		errors.Is(err, payroll.ErrEmployeeHasNoBaseSalary):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Notification errors
	case errors.Is(err, notification.ErrNotificationNotFound),
		errors.Is(err, notification.ErrPreferenceNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, notification.ErrInvalidNotificationType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, notification.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Audit errors
	case errors.Is(err, audit.ErrEventNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, audit.ErrInvalidRiskLevel):
		BadRequest(w, err.Error(), nil)

	// Report errors
	case errors.Is(err, report.ErrInvalidPeriod),
		errors.Is(err, report.ErrInvalidYear):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrNoDataFound):
		NotFound(w, err.Error())
	case errors.Is(err, report.ErrUnauthorized):
		Forbidden(w, err.Error())

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
