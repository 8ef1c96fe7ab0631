package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolworks/staff-backend-go/internal/config"
	"github.com/schoolworks/staff-backend-go/internal/domain/attendance"
	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/domain/face"
	"github.com/schoolworks/staff-backend-go/internal/domain/leave"
	"github.com/schoolworks/staff-backend-go/internal/domain/location"
	"github.com/schoolworks/staff-backend-go/internal/domain/notification"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"github.com/schoolworks/staff-backend-go/internal/pkg/geo"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	location.LocationRepository
	leaveRequestRepo leave.RequestRepository
	faceSvc          face.FaceService
	notificationSvc  notification.Service
	auditSvc         audit.Service
	geoValidator     geo.Validator
	cfg              config.AttendanceConfig
	faceCfg          config.FaceConfig

	// From payroll config; overtime starts past this many hours.
	standardHoursPerDay int
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	locationRepo location.LocationRepository,
	leaveRequestRepo leave.RequestRepository,
	faceSvc face.FaceService,
	notificationSvc notification.Service,
	auditSvc audit.Service,
	cfg config.AttendanceConfig,
	faceCfg config.FaceConfig,
	standardHoursPerDay int,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		LocationRepository:   locationRepo,
		leaveRequestRepo:     leaveRequestRepo,
		faceSvc:              faceSvc,
		notificationSvc:      notificationSvc,
		auditSvc:             auditSvc,
		geoValidator:         geo.Validator{MaxAccuracyMeters: cfg.MaxAccuracyMeters},
		cfg:                  cfg,
		faceCfg:              faceCfg,
		standardHoursPerDay:  standardHoursPerDay,
	}
}

func claimsFromContext(ctx context.Context) (userID, employeeID, role string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, _ = claims["user_id"].(string)
	employeeID, _ = claims["employee_id"].(string)
	role, _ = claims["role"].(string)

	if userID == "" {
		return "", "", "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, employeeID, role, nil
}

// timePtrToClock formats a *time.Time as "HH:MM".
func timePtrToClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04")
	return &s
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	userID, employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if employeeID == "" {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	if emp.WorkLocationID == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoWorkLocation
	}
	site, err := a.LocationRepository.GetByID(ctx, *emp.WorkLocationID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	radius := site.RadiusMeters
	if radius <= 0 {
		radius = a.cfg.DefaultRadiusMeters
	}
	geoResult := a.geoValidator.Validate(req.Latitude, req.Longitude, req.AccuracyMeters, site.Latitude, site.Longitude, radius)

	// A blurry or cropped capture must be retried by the client; it never
	// counts as a failed match.
	if req.ConfidenceScore < a.faceCfg.MinConfidenceScore {
		return attendance.AttendanceResponse{}, attendance.ErrLowCaptureConfidence
	}

	faceVerified := false
	var faceSimilarity *float64
	verifyResult, err := a.faceSvc.Verify(ctx, employeeID, req.FaceDescriptor, req.LivenessScore, req.ConfidenceScore)
	switch {
	case err == nil:
		if !verifyResult.LivenessPassed {
			return attendance.AttendanceResponse{}, attendance.ErrLivenessCheckFailed
		}
		faceVerified = verifyResult.Matched
		faceSimilarity = &verifyResult.Similarity
	case errors.Is(err, face.ErrDescriptorNotFound):
		// Check-in proceeds unverified; risk classification covers it.
	default:
		return attendance.AttendanceResponse{}, err
	}

	eval := EvaluateCheckIn(now, emp.ScheduledStart, a.cfg.GraceMinutes)

	record := attendance.Attendance{
		EmployeeID:       employeeID,
		Date:             today,
		CheckInTime:      &now,
		Status:           eval.Status,
		CheckInLatitude:  &req.Latitude,
		CheckInLongitude: &req.Longitude,
		CheckInDistance:  &geoResult.DistanceMeters,
		LocationVerified: geoResult.Verified,
		FaceVerified:     faceVerified,
		FaceSimilarity:   faceSimilarity,
		LateMinutes:      &eval.LateMinutes,
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	risk := created.RiskLevel()
	a.auditSvc.Record(ctx, audit.Event{
		ActorID:     &userID,
		EventType:   audit.EventCheckIn,
		SubjectType: "attendance",
		SubjectID:   created.ID,
		RiskLevel:   audit.RiskLevel(risk),
		Metadata: map[string]interface{}{
			"employee_id":       employeeID,
			"date":              today.Format("2006-01-02"),
			"status":            string(eval.Status),
			"distance_meters":   geoResult.DistanceMeters,
			"location_verified": geoResult.Verified,
			"face_verified":     faceVerified,
		},
	})

	if emp.UserID != nil {
		err := a.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: *emp.UserID,
			Type:        notification.TypeCheckInCompleted,
			Title:       "Checked in",
			Message:     fmt.Sprintf("Check-in recorded at %s (%s).", now.Format("15:04"), eval.Status),
			Data:        map[string]interface{}{"attendance_id": created.ID, "risk_level": string(risk)},
		})
		if err != nil {
			slog.Warn("failed to queue check-in notification", "attendance_id", created.ID, "error", err)
		}
	}

	return mapAttendanceToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	userID, employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if employeeID == "" {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil || record.CheckInTime == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoCheckInRecord
	}
	if record.CheckOutTime != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	eval := EvaluateCheckOut(*record.CheckInTime, now, record.Status, emp.ScheduledEnd, a.cfg.GraceMinutes, a.standardHoursPerDay)

	record.CheckOutTime = &now
	record.CheckOutLatitude = &req.Latitude
	record.CheckOutLongitude = &req.Longitude
	record.Status = eval.Status
	record.WorkingMinutes = &eval.WorkingMinutes
	record.OvertimeMinutes = &eval.OvertimeMinutes
	record.EarlyDepartureMinutes = &eval.EarlyDepartureMinutes
	if req.Notes != nil {
		record.Notes = req.Notes
	}

	if err := a.AttendanceRepository.Update(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	a.auditSvc.Record(ctx, audit.Event{
		ActorID:     &userID,
		EventType:   audit.EventCheckOut,
		SubjectType: "attendance",
		SubjectID:   record.ID,
		RiskLevel:   audit.RiskLevel(record.RiskLevel()),
		Metadata: map[string]interface{}{
			"employee_id":      employeeID,
			"date":             today.Format("2006-01-02"),
			"status":           string(eval.Status),
			"working_minutes":  eval.WorkingMinutes,
			"overtime_minutes": eval.OvertimeMinutes,
		},
	})

	return mapAttendanceToResponse(*record), nil
}

// ManualEntry implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ManualEntry(ctx context.Context, req attendance.ManualEntryRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("invalid date: %w", err)
	}
	checkIn := clockOn(date, req.CheckInTime)
	checkOut := clockOn(date, req.CheckOutTime)
	if checkOut.Before(checkIn) {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeCheckIn
	}

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	inEval := EvaluateCheckIn(checkIn, emp.ScheduledStart, a.cfg.GraceMinutes)
	outEval := EvaluateCheckOut(checkIn, checkOut, inEval.Status, emp.ScheduledEnd, a.cfg.GraceMinutes, a.standardHoursPerDay)

	record := attendance.Attendance{
		EmployeeID:            req.EmployeeID,
		Date:                  date,
		CheckInTime:           &checkIn,
		CheckOutTime:          &checkOut,
		Status:                outEval.Status,
		WorkingMinutes:        &outEval.WorkingMinutes,
		OvertimeMinutes:       &outEval.OvertimeMinutes,
		LateMinutes:           &inEval.LateMinutes,
		EarlyDepartureMinutes: &outEval.EarlyDepartureMinutes,
		IsManual:              true,
		ManualReason:          &req.Reason,
		ApprovedBy:            &req.ApprovedBy,
		Notes:                 req.Notes,
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create manual attendance: %w", err)
	}

	a.auditSvc.Record(ctx, audit.Event{
		ActorID:     &req.ApprovedBy,
		EventType:   audit.EventManualEntry,
		SubjectType: "attendance",
		SubjectID:   created.ID,
		RiskLevel:   audit.RiskHigh,
		Metadata: map[string]interface{}{
			"employee_id": req.EmployeeID,
			"date":        req.Date,
			"reason":      req.Reason,
		},
	})

	return mapAttendanceToResponse(created), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	_, employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if employeeID == "" {
		return attendance.ListAttendanceResponse{}, attendance.ErrUnauthorized
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}

	records, total, err := a.AttendanceRepository.GetMyAttendance(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get my attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapAttendanceToResponse(record))
	}

	return attendance.ListAttendanceResponse{
		Attendances: responses,
		TotalItems:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
	}, nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapAttendanceToResponse(record))
	}

	return attendance.ListAttendanceResponse{
		Attendances: responses,
		TotalItems:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
	}, nil
}

// GetAttendance implements attendance.AttendanceService. Staff may only
// read their own records; managers and admins may read any.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	_, employeeID, role, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if role != string(user.RoleAdmin) && role != string(user.RoleManager) && record.EmployeeID != employeeID {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}

	return mapAttendanceToResponse(record), nil
}

// MarkAbsentees implements attendance.AttendanceService. Weekends are
// skipped entirely; employees with an approved leave covering the date
// get an on_leave record instead of absent.
func (a *AttendanceServiceImpl) MarkAbsentees(ctx context.Context, date string) (int, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return 0, nil
	}

	employees, err := a.EmployeeRepository.GetActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get active employees: %w", err)
	}

	onLeaveIDs, err := a.leaveRequestRepo.GetEmployeeIDsOnLeave(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to get employees on leave: %w", err)
	}
	onLeave := make(map[string]bool, len(onLeaveIDs))
	for _, id := range onLeaveIDs {
		onLeave[id] = true
	}

	var absences []attendance.Attendance
	for _, emp := range employees {
		if emp.HireDate.After(day) {
			continue
		}

		status := attendance.StatusAbsent
		if onLeave[emp.ID] {
			status = attendance.StatusOnLeave
		}
		absences = append(absences, attendance.Attendance{
			EmployeeID: emp.ID,
			Date:       day,
			Status:     status,
		})
	}

	if err := a.AttendanceRepository.BulkCreateAbsences(ctx, absences); err != nil {
		return 0, fmt.Errorf("failed to create absence records: %w", err)
	}

	a.auditSvc.Record(ctx, audit.Event{
		EventType:   audit.EventMarkedAbsent,
		SubjectType: "attendance",
		SubjectID:   date,
		RiskLevel:   audit.RiskLow,
		Metadata: map[string]interface{}{
			"date":      date,
			"processed": len(absences),
		},
	})

	return len(absences), nil
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           att.ID,
		EmployeeID:   att.EmployeeID,
		EmployeeName: att.EmployeeName,
		StaffCode:    att.StaffCode,
		Date:         att.Date.Format("2006-01-02"),
		CheckInTime:  timePtrToClock(att.CheckInTime),
		CheckOutTime: timePtrToClock(att.CheckOutTime),
		Status:       string(att.Status),
		Verification: attendance.VerificationDetail{
			LocationVerified: att.LocationVerified,
			FaceVerified:     att.FaceVerified,
			FaceSimilarity:   att.FaceSimilarity,
			DistanceMeters:   att.CheckInDistance,
			RiskLevel:        string(att.RiskLevel()),
		},
		WorkingMinutes:        att.WorkingMinutes,
		OvertimeMinutes:       att.OvertimeMinutes,
		LateMinutes:           att.LateMinutes,
		EarlyDepartureMinutes: att.EarlyDepartureMinutes,
		IsManual:              att.IsManual,
		ManualReason:          att.ManualReason,
		Notes:                 att.Notes,
		CreatedAt:             att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             att.UpdatedAt.Format(time.RFC3339),
	}
}
