package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/schoolworks/staff-backend-go/internal/config"
	"github.com/schoolworks/staff-backend-go/internal/domain/attendance"
	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/domain/notification"
	"github.com/schoolworks/staff-backend-go/internal/domain/payroll"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
	"github.com/schoolworks/staff-backend-go/internal/pkg/email"
	"github.com/schoolworks/staff-backend-go/internal/repository/postgresql"
)

type PayrollServiceImpl struct {
	db *database.DB
	payroll.PayrollRepository
	employee.EmployeeRepository
	attendanceRepo  attendance.AttendanceRepository
	notificationSvc notification.Service
	auditSvc        audit.Service
	emailSvc        email.EmailService
	calc            Calculator
	cfg             config.PayrollConfig
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	notificationSvc notification.Service,
	auditSvc audit.Service,
	emailSvc email.EmailService,
	cfg config.PayrollConfig,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:                 db,
		PayrollRepository:  payrollRepo,
		EmployeeRepository: employeeRepo,
		attendanceRepo:     attendanceRepo,
		notificationSvc:    notificationSvc,
		auditSvc:           auditSvc,
		emailSvc:           emailSvc,
		calc:               NewCalculator(cfg),
		cfg:                cfg,
	}
}

func getClaimsFromContext(ctx context.Context) (userID, employeeID, role string, err error) {
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

// ========== COMPONENTS ==========

// CreateComponent implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreateComponent(ctx context.Context, req payroll.CreateComponentRequest) (payroll.ComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ComponentResponse{}, err
	}

	isTaxable := true
	if req.IsTaxable != nil {
		isTaxable = *req.IsTaxable
	}

	created, err := s.PayrollRepository.CreateComponent(ctx, payroll.Component{
		Name:        req.Name,
		Type:        payroll.ComponentType(req.Type),
		Description: req.Description,
		IsTaxable:   isTaxable,
		IsActive:    true,
	})
	if err != nil {
		return payroll.ComponentResponse{}, err
	}

	return mapComponentToResponse(created), nil
}

// ListComponents implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListComponents(ctx context.Context, activeOnly bool) ([]payroll.ComponentResponse, error) {
	components, err := s.PayrollRepository.ListComponents(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll components: %w", err)
	}

	responses := make([]payroll.ComponentResponse, 0, len(components))
	for _, c := range components {
		responses = append(responses, mapComponentToResponse(c))
	}
	return responses, nil
}

// UpdateComponent implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateComponent(ctx context.Context, req payroll.UpdateComponentRequest) (payroll.ComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ComponentResponse{}, err
	}

	if _, err := s.PayrollRepository.GetComponentByID(ctx, req.ID); err != nil {
		return payroll.ComponentResponse{}, err
	}

	if err := s.PayrollRepository.UpdateComponent(ctx, req); err != nil {
		return payroll.ComponentResponse{}, fmt.Errorf("failed to update payroll component: %w", err)
	}

	updated, err := s.PayrollRepository.GetComponentByID(ctx, req.ID)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}
	return mapComponentToResponse(updated), nil
}

// AssignComponent implements payroll.PayrollService.
func (s *PayrollServiceImpl) AssignComponent(ctx context.Context, req payroll.AssignComponentRequest) (payroll.EmployeeComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.EmployeeComponentResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.EmployeeComponentResponse{}, err
	}
	component, err := s.PayrollRepository.GetComponentByID(ctx, req.ComponentID)
	if err != nil {
		return payroll.EmployeeComponentResponse{}, err
	}
	if !component.IsActive {
		return payroll.EmployeeComponentResponse{}, payroll.ErrComponentNotFound
	}

	effectiveDate := time.Now()
	if req.EffectiveDate != nil {
		effectiveDate, _ = time.Parse("2006-01-02", *req.EffectiveDate)
	}
	var endDate *time.Time
	if req.EndDate != nil {
		parsed, _ := time.Parse("2006-01-02", *req.EndDate)
		endDate = &parsed
	}

	created, err := s.PayrollRepository.AssignComponent(ctx, payroll.EmployeeComponent{
		EmployeeID:    req.EmployeeID,
		ComponentID:   req.ComponentID,
		Amount:        req.Amount,
		EffectiveDate: effectiveDate,
		EndDate:       endDate,
	})
	if err != nil {
		return payroll.EmployeeComponentResponse{}, fmt.Errorf("failed to assign payroll component: %w", err)
	}

	return mapEmployeeComponentToResponse(created), nil
}

// GetEmployeeComponents implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetEmployeeComponents(ctx context.Context, employeeID string) ([]payroll.EmployeeComponentResponse, error) {
	components, err := s.PayrollRepository.GetEmployeeComponents(ctx, employeeID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee components: %w", err)
	}

	responses := make([]payroll.EmployeeComponentResponse, 0, len(components))
	for _, c := range components {
		responses = append(responses, mapEmployeeComponentToResponse(c))
	}
	return responses, nil
}

// RemoveEmployeeComponent implements payroll.PayrollService.
func (s *PayrollServiceImpl) RemoveEmployeeComponent(ctx context.Context, id string) error {
	return s.PayrollRepository.RemoveEmployeeComponent(ctx, id)
}

// ========== RECORDS ==========

// Generate implements payroll.PayrollService. Each employee is processed
// independently; one failure never aborts the batch.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GenerateRequest) (payroll.GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerateResponse{}, err
	}

	periodStart, periodEnd, err := payroll.PeriodBounds(req.Period)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}
	workingDays := WorkingDaysInPeriod(periodStart, periodEnd)

	var employees []employee.Employee
	if len(req.EmployeeIDs) > 0 {
		for _, id := range req.EmployeeIDs {
			emp, err := s.EmployeeRepository.GetByID(ctx, id)
			if err != nil {
				return payroll.GenerateResponse{}, err
			}
			employees = append(employees, emp)
		}
	} else {
		employees, err = s.EmployeeRepository.GetActive(ctx)
		if err != nil {
			return payroll.GenerateResponse{}, fmt.Errorf("failed to get active employees: %w", err)
		}
	}

	resp := payroll.GenerateResponse{Period: req.Period}
	for _, emp := range employees {
		if failure := s.generateForEmployee(ctx, emp, req, periodStart, periodEnd, workingDays, &resp); failure != nil {
			resp.Failures = append(resp.Failures, *failure)
		}
	}

	s.auditSvc.Record(ctx, audit.Event{
		ActorID:     &req.GeneratedBy,
		EventType:   audit.EventPayrollGenerated,
		SubjectType: "payroll_period",
		SubjectID:   req.Period,
		RiskLevel:   audit.RiskLow,
		Metadata: map[string]interface{}{
			"generated": resp.Generated,
			"skipped":   resp.Skipped,
			"failed":    len(resp.Failures),
			"force":     req.Force,
		},
	})

	return resp, nil
}

func (s *PayrollServiceImpl) generateForEmployee(
	ctx context.Context,
	emp employee.Employee,
	req payroll.GenerateRequest,
	periodStart, periodEnd time.Time,
	workingDays int,
	resp *payroll.GenerateResponse,
) *payroll.GenerateFailure {
	fail := func(reason string) *payroll.GenerateFailure {
		return &payroll.GenerateFailure{EmployeeID: emp.ID, StaffCode: emp.StaffCode, Reason: reason}
	}

	if _, err := s.PayrollRepository.GetRecordByEmployeePeriod(ctx, emp.ID, req.Period); err == nil {
		resp.Skipped++
		return nil
	} else if !errors.Is(err, payroll.ErrRecordNotFound) {
		return fail(fmt.Sprintf("failed to check existing record: %v", err))
	}

	periodSummary, err := s.attendanceRepo.GetPeriodSummary(ctx, emp.ID, periodStart, periodEnd)
	if err != nil {
		return fail(fmt.Sprintf("failed to aggregate attendance: %v", err))
	}

	summary := payroll.AttendanceSummary{
		EmployeeID:      emp.ID,
		DaysPresent:     periodSummary.DaysPresent,
		DaysLate:        periodSummary.DaysLate,
		DaysAbsent:      periodSummary.DaysAbsent,
		DaysOnLeave:     periodSummary.DaysOnLeave,
		LateMinutes:     periodSummary.LateMinutes,
		WorkingMinutes:  periodSummary.WorkingMinutes,
		OvertimeMinutes: periodSummary.OvertimeMinutes,
		IncompleteCount: periodSummary.IncompleteCount,
	}

	if summary.IncompleteCount > 0 && !req.Force {
		return fail(payroll.ErrIncompleteAttendance.Error())
	}

	components, err := s.PayrollRepository.GetEmployeeComponents(ctx, emp.ID, true)
	if err != nil {
		return fail(fmt.Sprintf("failed to get components: %v", err))
	}
	active := components[:0]
	for _, c := range components {
		if c.ActiveIn(periodStart, periodEnd) {
			active = append(active, c)
		}
	}

	record, err := s.calc.BuildRecord(emp, req.Period, workingDays, summary, active)
	if err != nil {
		return fail(err.Error())
	}
	record.GeneratedBy = req.GeneratedBy

	if _, err := s.PayrollRepository.CreateRecord(ctx, record); err != nil {
		if errors.Is(err, payroll.ErrRecordAlreadyExists) {
			resp.Skipped++
			return nil
		}
		return fail(fmt.Sprintf("failed to create record: %v", err))
	}

	resp.Generated++
	return nil
}

// GetRecord implements payroll.PayrollService. Staff may only read their
// own records.
func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.RecordResponse, error) {
	_, employeeID, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	record, err := s.PayrollRepository.GetRecordByID(ctx, id)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	if role != string(user.RoleAdmin) && role != string(user.RoleManager) && record.EmployeeID != employeeID {
		return payroll.RecordResponse{}, payroll.ErrUnauthorized
	}

	return mapRecordToResponse(record), nil
}

// ListRecords implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.RecordFilter) (payroll.ListRecordResponse, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}

	records, total, err := s.PayrollRepository.ListRecords(ctx, filter)
	if err != nil {
		return payroll.ListRecordResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	responses := make([]payroll.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapRecordToResponse(r))
	}

	return payroll.ListRecordResponse{
		Records:    responses,
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetMyPayslips implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetMyPayslips(ctx context.Context, filter payroll.RecordFilter) (payroll.ListRecordResponse, error) {
	_, employeeID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListRecordResponse{}, err
	}
	if employeeID == "" {
		return payroll.ListRecordResponse{}, payroll.ErrUnauthorized
	}

	filter.EmployeeID = &employeeID
	return s.ListRecords(ctx, filter)
}

// MarkPaid implements payroll.PayrollService. All listed drafts flip to
// paid atomically, then each employee is notified.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, req payroll.MarkPaidRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	records := make([]payroll.Record, 0, len(req.RecordIDs))
	for _, id := range req.RecordIDs {
		record, err := s.PayrollRepository.GetRecordByID(ctx, id)
		if err != nil {
			return err
		}
		switch record.Status {
		case payroll.PayrollStatusPaid:
			return payroll.ErrRecordAlreadyPaid
		case payroll.PayrollStatusVoid:
			return payroll.ErrRecordVoided
		}
		records = append(records, record)
	}

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)
		return s.PayrollRepository.MarkRecordsPaid(txCtx, req.RecordIDs, req.PaidBy)
	})
	if err != nil {
		return fmt.Errorf("failed to mark records paid: %w", err)
	}

	s.auditSvc.Record(ctx, audit.Event{
		ActorID:     &req.PaidBy,
		EventType:   audit.EventPayrollPaid,
		SubjectType: "payroll_record",
		SubjectID:   fmt.Sprintf("%d records", len(req.RecordIDs)),
		RiskLevel:   audit.RiskLow,
		Metadata:    map[string]interface{}{"record_ids": req.RecordIDs},
	})

	for _, record := range records {
		s.notifyPayslipReady(ctx, record, req.PaidBy)
	}

	return nil
}

func (s *PayrollServiceImpl) notifyPayslipReady(ctx context.Context, record payroll.Record, paidBy string) {
	emp, err := s.EmployeeRepository.GetByID(ctx, record.EmployeeID)
	if err != nil {
		return
	}

	if emp.UserID != nil {
		err := s.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: *emp.UserID,
			SenderID:    &paidBy,
			Type:        notification.TypePayslipReady,
			Title:       "Payslip ready",
			Message:     fmt.Sprintf("Your payslip for %s is ready.", record.Period),
			Data:        map[string]interface{}{"payroll_record_id": record.ID},
		})
		if err != nil {
			slog.Warn("failed to queue payslip notification", "payroll_record_id", record.ID, "error", err)
		}
	}
	if emp.Email != "" {
		if err := s.emailSvc.SendPayslipReady(emp.Email, emp.FullName, record.Period); err != nil {
			slog.Warn("failed to send payslip email", "payroll_record_id", record.ID, "error", err)
		}
	}
}

// DeleteDraft implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeleteDraft(ctx context.Context, id string) error {
	record, err := s.PayrollRepository.GetRecordByID(ctx, id)
	if err != nil {
		return err
	}
	switch record.Status {
	case payroll.PayrollStatusPaid:
		return payroll.ErrRecordAlreadyPaid
	case payroll.PayrollStatusVoid:
		return payroll.ErrRecordVoided
	}

	return s.PayrollRepository.DeleteRecord(ctx, id)
}

// Correct implements payroll.PayrollService. The paid record is voided
// and a replacement draft is recalculated from current attendance and
// component data; both changes commit atomically.
func (s *PayrollServiceImpl) Correct(ctx context.Context, req payroll.CorrectRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	original, err := s.PayrollRepository.GetRecordByID(ctx, req.RecordID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	switch original.Status {
	case payroll.PayrollStatusVoid:
		return payroll.RecordResponse{}, payroll.ErrRecordVoided
	case payroll.PayrollStatusDraft:
		return payroll.RecordResponse{}, payroll.ErrRecordNotPaid
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, original.EmployeeID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	periodStart, periodEnd, err := payroll.PeriodBounds(original.Period)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	periodSummary, err := s.attendanceRepo.GetPeriodSummary(ctx, emp.ID, periodStart, periodEnd)
	if err != nil {
		return payroll.RecordResponse{}, fmt.Errorf("failed to aggregate attendance: %w", err)
	}
	summary := payroll.AttendanceSummary{
		EmployeeID:      emp.ID,
		DaysPresent:     periodSummary.DaysPresent,
		DaysLate:        periodSummary.DaysLate,
		DaysAbsent:      periodSummary.DaysAbsent,
		DaysOnLeave:     periodSummary.DaysOnLeave,
		LateMinutes:     periodSummary.LateMinutes,
		WorkingMinutes:  periodSummary.WorkingMinutes,
		OvertimeMinutes: periodSummary.OvertimeMinutes,
		IncompleteCount: periodSummary.IncompleteCount,
	}

	components, err := s.PayrollRepository.GetEmployeeComponents(ctx, emp.ID, true)
	if err != nil {
		return payroll.RecordResponse{}, fmt.Errorf("failed to get components: %w", err)
	}
	active := components[:0]
	for _, c := range components {
		if c.ActiveIn(periodStart, periodEnd) {
			active = append(active, c)
		}
	}

	replacement, err := s.calc.BuildRecord(emp, original.Period, WorkingDaysInPeriod(periodStart, periodEnd), summary, active)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	replacement.GeneratedBy = req.CorrectedBy
	replacement.CorrectionOfID = &original.ID

	now := time.Now()
	original.Status = payroll.PayrollStatusVoid
	original.VoidedAt = &now
	original.VoidedBy = &req.CorrectedBy
	original.VoidReason = &req.Reason

	var created payroll.Record
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)
		if err := s.PayrollRepository.UpdateRecord(txCtx, original); err != nil {
			return fmt.Errorf("failed to void original record: %w", err)
		}
		record, err := s.PayrollRepository.CreateRecord(txCtx, replacement)
		if err != nil {
			return fmt.Errorf("failed to create replacement record: %w", err)
		}
		created = record
		return nil
	})
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	s.auditSvc.Record(ctx, audit.Event{
		ActorID:     &req.CorrectedBy,
		EventType:   audit.EventPayrollCorrected,
		SubjectType: "payroll_record",
		SubjectID:   original.ID,
		RiskLevel:   audit.RiskMedium,
		Metadata: map[string]interface{}{
			"employee_id":    original.EmployeeID,
			"period":         original.Period,
			"replacement_id": created.ID,
			"reason":         req.Reason,
		},
	})

	if emp.UserID != nil {
		err := s.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: *emp.UserID,
			SenderID:    &req.CorrectedBy,
			Type:        notification.TypePayrollCorrected,
			Title:       "Payroll corrected",
			Message:     fmt.Sprintf("Your payroll for %s was corrected and reissued.", original.Period),
			Data:        map[string]interface{}{"payroll_record_id": created.ID},
		})
		if err != nil {
			slog.Warn("failed to queue payroll correction notification", "payroll_record_id", created.ID, "error", err)
		}
	}

	return mapRecordToResponse(created), nil
}

// GetPeriodTotals implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPeriodTotals(ctx context.Context, period string) (payroll.PeriodTotals, error) {
	if _, _, err := payroll.PeriodBounds(period); err != nil {
		return payroll.PeriodTotals{}, err
	}
	return s.PayrollRepository.GetPeriodTotals(ctx, period)
}

// ========== MAPPERS ==========

func mapComponentToResponse(c payroll.Component) payroll.ComponentResponse {
	return payroll.ComponentResponse{
		ID:          c.ID,
		Name:        c.Name,
		Type:        string(c.Type),
		Description: c.Description,
		IsTaxable:   c.IsTaxable,
		IsActive:    c.IsActive,
	}
}

func mapEmployeeComponentToResponse(c payroll.EmployeeComponent) payroll.EmployeeComponentResponse {
	resp := payroll.EmployeeComponentResponse{
		ID:            c.ID,
		EmployeeID:    c.EmployeeID,
		ComponentID:   c.ComponentID,
		ComponentName: c.ComponentName,
		Amount:        c.Amount,
		EffectiveDate: c.EffectiveDate.Format("2006-01-02"),
	}
	if c.ComponentType != nil {
		componentType := string(*c.ComponentType)
		resp.ComponentType = &componentType
	}
	if c.EndDate != nil {
		endDate := c.EndDate.Format("2006-01-02")
		resp.EndDate = &endDate
	}
	return resp
}

func mapRecordToResponse(r payroll.Record) payroll.RecordResponse {
	resp := payroll.RecordResponse{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		EmployeeName:     r.EmployeeName,
		StaffCode:        r.StaffCode,
		Department:       r.Department,
		Position:         r.Position,
		Period:           r.Period,
		BaseSalary:       r.BaseSalary,
		ProratedSalary:   r.ProratedSalary,
		OvertimePay:      r.OvertimePay,
		AttendanceBonus:  r.AttendanceBonus,
		TotalAllowances:  r.TotalAllowances,
		AllowancesDetail: r.AllowancesDetail,
		GrossPay:         r.GrossPay,
		StatutoryDetail:  r.StatutoryDetail,
		TotalStatutory:   r.TotalStatutory,
		IncomeTax:        r.IncomeTax,
		TotalDeductions:  r.TotalDeductions,
		DeductionsDetail: r.DeductionsDetail,
		NetPay:           r.NetPay,
		DaysPresent:      r.DaysPresent,
		DaysAbsent:       r.DaysAbsent,
		LateMinutes:      r.LateMinutes,
		OvertimeMinutes:  r.OvertimeMinutes,
		Status:           string(r.Status),
		VoidReason:       r.VoidReason,
		CorrectionOfID:   r.CorrectionOfID,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
	if r.PaidAt != nil {
		paidAt := r.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}
