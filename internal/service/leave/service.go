package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/schoolworks/staff-backend-go/internal/config"
	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/domain/leave"
	"github.com/schoolworks/staff-backend-go/internal/domain/notification"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
	"github.com/schoolworks/staff-backend-go/internal/pkg/email"
	"github.com/schoolworks/staff-backend-go/internal/repository/postgresql"
)

type LeaveServiceImpl struct {
	withTx func(ctx context.Context, fn func(tx pgx.Tx) error) error
	leave.LeaveTypeRepository
	leave.BalanceRepository
	leave.RequestRepository
	employee.EmployeeRepository
	userRepo        user.UserRepository
	notificationSvc notification.Service
	auditSvc        audit.Service
	emailSvc        email.EmailService
	cfg             config.LeaveConfig
}

func NewLeaveService(
	db *database.DB,
	leaveTypeRepo leave.LeaveTypeRepository,
	balanceRepo leave.BalanceRepository,
	requestRepo leave.RequestRepository,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	notificationSvc notification.Service,
	auditSvc audit.Service,
	emailSvc email.EmailService,
	cfg config.LeaveConfig,
) leave.LeaveService {
	return &LeaveServiceImpl{
		withTx: func(ctx context.Context, fn func(tx pgx.Tx) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
		LeaveTypeRepository: leaveTypeRepo,
		BalanceRepository:   balanceRepo,
		RequestRepository:   requestRepo,
		EmployeeRepository:  employeeRepo,
		userRepo:            userRepo,
		notificationSvc:     notificationSvc,
		auditSvc:            auditSvc,
		emailSvc:            emailSvc,
		cfg:                 cfg,
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

// ListTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := l.LeaveTypeRepository.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, lt := range types {
		responses = append(responses, mapTypeToResponse(lt))
	}
	return responses, nil
}

// CreateType implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	if _, err := l.LeaveTypeRepository.GetByCode(ctx, req.Code); err == nil {
		return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeCodeExists
	} else if !errors.Is(err, leave.ErrLeaveTypeNotFound) {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to check leave type code: %w", err)
	}

	created, err := l.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		Code:               req.Code,
		Name:               req.Name,
		DefaultDaysPerYear: req.DefaultDaysPerYear,
		IsPaid:             req.IsPaid,
		ExcludeWeekends:    req.ExcludeWeekends,
		IsActive:           true,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return mapTypeToResponse(created), nil
}

// UpdateType implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateType(ctx context.Context, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	if _, err := l.LeaveTypeRepository.GetByID(ctx, req.ID); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	if err := l.LeaveTypeRepository.Update(ctx, req.ID, req); err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to update leave type: %w", err)
	}

	updated, err := l.LeaveTypeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return mapTypeToResponse(updated), nil
}

// GetMyBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) GetMyBalances(ctx context.Context, year int) ([]leave.BalanceResponse, error) {
	_, employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if employeeID == "" {
		return nil, leave.ErrUnauthorized
	}
	return l.GetEmployeeBalances(ctx, employeeID, year)
}

// GetEmployeeBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) GetEmployeeBalances(ctx context.Context, employeeID string, year int) ([]leave.BalanceResponse, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	balances, err := l.BalanceRepository.GetForEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balances: %w", err)
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, mapBalanceToResponse(b))
	}
	return responses, nil
}

// InitializeBalances implements leave.LeaveService. It creates a balance
// row per active leave type with the type's default entitlement, leaving
// existing rows untouched.
func (l *LeaveServiceImpl) InitializeBalances(ctx context.Context, employeeID string, year int) error {
	if year == 0 {
		year = time.Now().Year()
	}

	if _, err := l.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return err
	}

	types, err := l.LeaveTypeRepository.List(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to list leave types: %w", err)
	}

	for _, lt := range types {
		if _, err := l.BalanceRepository.Get(ctx, employeeID, lt.ID, year); err == nil {
			continue
		} else if !errors.Is(err, leave.ErrBalanceNotFound) {
			return fmt.Errorf("failed to check leave balance: %w", err)
		}

		if _, err := l.BalanceRepository.Upsert(ctx, leave.Balance{
			EmployeeID:    employeeID,
			LeaveTypeID:   lt.ID,
			Year:          year,
			EntitledDays:  lt.DefaultDaysPerYear,
			RemainingDays: lt.DefaultDaysPerYear,
		}); err != nil {
			return fmt.Errorf("failed to initialize leave balance: %w", err)
		}
	}

	return nil
}

// ensureBalance returns the employee's balance for the type and year,
// creating it with the type's default entitlement when missing.
func (l *LeaveServiceImpl) ensureBalance(ctx context.Context, employeeID string, lt leave.LeaveType, year int) (leave.Balance, error) {
	balance, err := l.BalanceRepository.Get(ctx, employeeID, lt.ID, year)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, leave.ErrBalanceNotFound) {
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return l.BalanceRepository.Upsert(ctx, leave.Balance{
		EmployeeID:    employeeID,
		LeaveTypeID:   lt.ID,
		Year:          year,
		EntitledDays:  lt.DefaultDaysPerYear,
		RemainingDays: lt.DefaultDaysPerYear,
	})
}

// CreateRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateRequest(ctx context.Context, req leave.CreateRequest) (leave.RequestResponse, error) {
	req.MinReasonLength = l.cfg.MinReasonLength
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	userID, employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if employeeID == "" {
		return leave.RequestResponse{}, leave.ErrUnauthorized
	}

	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if !leaveType.IsActive {
		return leave.RequestResponse{}, leave.ErrLeaveTypeNotFound
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	days := leave.CountDays(start, end, leaveType.ExcludeWeekends)
	if days == 0 {
		return leave.RequestResponse{}, leave.ErrInvalidDateRange
	}

	overlapping, err := l.RequestRepository.HasOverlapping(ctx, employeeID, start, end, nil)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if overlapping {
		return leave.RequestResponse{}, leave.ErrOverlappingLeave
	}

	balance, err := l.ensureBalance(ctx, employeeID, leaveType, start.Year())
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if balance.RemainingDays < days && !req.EmergencyOverride {
		return leave.RequestResponse{}, leave.ErrInsufficientBalance
	}

	created, err := l.RequestRepository.Create(ctx, leave.Request{
		EmployeeID:        employeeID,
		LeaveTypeID:       req.LeaveTypeID,
		StartDate:         start,
		EndDate:           end,
		DaysCount:         days,
		Reason:            req.Reason,
		Status:            leave.StatusPending,
		EmergencyOverride: req.EmergencyOverride,
		OverrideReason:    req.OverrideReason,
	})
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	risk := audit.RiskLow
	if req.EmergencyOverride {
		risk = audit.RiskMedium
	}
	l.auditSvc.Record(ctx, audit.Event{
		ActorID:     &userID,
		EventType:   audit.EventLeaveSubmitted,
		SubjectType: "leave_request",
		SubjectID:   created.ID,
		RiskLevel:   risk,
		Metadata: map[string]interface{}{
			"employee_id":        employeeID,
			"leave_type_id":      req.LeaveTypeID,
			"days_count":         days,
			"emergency_override": req.EmergencyOverride,
		},
	})

	l.notifyApprovers(ctx, created, userID)

	return mapRequestToResponse(created), nil
}

// notifyApprovers fans a submitted request out to every admin user.
func (l *LeaveServiceImpl) notifyApprovers(ctx context.Context, request leave.Request, senderID string) {
	adminIDs, err := l.userRepo.GetAdminIDs(ctx)
	if err != nil {
		return
	}
	for _, adminID := range adminIDs {
		err := l.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: adminID,
			SenderID:    &senderID,
			Type:        notification.TypeLeaveSubmitted,
			Title:       "Leave request submitted",
			Message:     fmt.Sprintf("A leave request for %d day(s) is awaiting review.", request.DaysCount),
			Data:        map[string]interface{}{"leave_request_id": request.ID},
		})
		if err != nil {
			slog.Warn("failed to queue leave submission notification", "recipient_id", adminID, "leave_request_id", request.ID, "error", err)
		}
	}
}

// GetMyRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) GetMyRequests(ctx context.Context, filter leave.MyRequestFilter) (leave.ListRequestResponse, error) {
	_, employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return leave.ListRequestResponse{}, err
	}
	if employeeID == "" {
		return leave.ListRequestResponse{}, leave.ErrUnauthorized
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}

	requests, total, err := l.RequestRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return leave.ListRequestResponse{}, fmt.Errorf("failed to list my leave requests: %w", err)
	}

	return mapListResponse(requests, total, filter.Page, filter.Limit), nil
}

// ListRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListRequests(ctx context.Context, filter leave.RequestFilter) (leave.ListRequestResponse, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}

	requests, total, err := l.RequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return mapListResponse(requests, total, filter.Page, filter.Limit), nil
}

// GetRequest implements leave.LeaveService. Staff may only read their own
// requests.
func (l *LeaveServiceImpl) GetRequest(ctx context.Context, id string) (leave.RequestResponse, error) {
	_, employeeID, role, err := claimsFromContext(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	request, err := l.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	if role != string(user.RoleAdmin) && role != string(user.RoleManager) && request.EmployeeID != employeeID {
		return leave.RequestResponse{}, leave.ErrUnauthorized
	}

	return mapRequestToResponse(request), nil
}

// ApproveRequest implements leave.LeaveService. Balance deduction and the
// status change commit atomically.
func (l *LeaveServiceImpl) ApproveRequest(ctx context.Context, req leave.DecideRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	request, err := l.RequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.RequestResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	now := time.Now()
	request.Status = leave.StatusApproved
	request.ReviewedBy = &req.ReviewerID
	request.ReviewedAt = &now
	request.ReviewNote = req.Note

	err = l.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)

		// re-check the balance at approval time: other requests may
		// have consumed it since submission
		balance, err := l.BalanceRepository.Get(txCtx, request.EmployeeID, request.LeaveTypeID, request.StartDate.Year())
		if err != nil {
			return err
		}
		if balance.RemainingDays < request.DaysCount && !request.EmergencyOverride {
			return leave.ErrInsufficientBalance
		}

		if err := l.BalanceRepository.AddUsedDays(txCtx, request.EmployeeID, request.LeaveTypeID, request.StartDate.Year(), request.DaysCount, request.EmergencyOverride); err != nil {
			return fmt.Errorf("failed to deduct leave balance: %w", err)
		}
		if err := l.RequestRepository.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	l.auditSvc.Record(ctx, audit.Event{
		ActorID:     &req.ReviewerID,
		EventType:   audit.EventLeaveApproved,
		SubjectType: "leave_request",
		SubjectID:   request.ID,
		RiskLevel:   audit.RiskLow,
		Metadata: map[string]interface{}{
			"employee_id": request.EmployeeID,
			"days_count":  request.DaysCount,
		},
	})

	l.notifyRequester(ctx, request, req.ReviewerID, notification.TypeLeaveApproved,
		"Leave approved",
		fmt.Sprintf("Your leave request for %d day(s) was approved.", request.DaysCount))

	return mapRequestToResponse(request), nil
}

// RejectRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) RejectRequest(ctx context.Context, req leave.DecideRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	request, err := l.RequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.RequestResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	now := time.Now()
	request.Status = leave.StatusRejected
	request.ReviewedBy = &req.ReviewerID
	request.ReviewedAt = &now
	request.ReviewNote = req.Note

	if err := l.RequestRepository.Update(ctx, request); err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	l.auditSvc.Record(ctx, audit.Event{
		ActorID:     &req.ReviewerID,
		EventType:   audit.EventLeaveRejected,
		SubjectType: "leave_request",
		SubjectID:   request.ID,
		RiskLevel:   audit.RiskLow,
		Metadata:    map[string]interface{}{"employee_id": request.EmployeeID},
	})

	l.notifyRequester(ctx, request, req.ReviewerID, notification.TypeLeaveRejected,
		"Leave rejected",
		"Your leave request was rejected.")

	return mapRequestToResponse(request), nil
}

// CancelRequest implements leave.LeaveService. Pending requests cancel at
// any time; approved requests only before the start date, refunding the
// deducted balance.
func (l *LeaveServiceImpl) CancelRequest(ctx context.Context, id string) (leave.RequestResponse, error) {
	userID, employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	request, err := l.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.EmployeeID != employeeID {
		return leave.RequestResponse{}, leave.ErrUnauthorized
	}

	switch request.Status {
	case leave.StatusPending:
		request.Status = leave.StatusCancelled
		if err := l.RequestRepository.Update(ctx, request); err != nil {
			return leave.RequestResponse{}, fmt.Errorf("failed to cancel leave request: %w", err)
		}

	case leave.StatusApproved:
		// compare on the local calendar date; StartDate is a parsed
		// date at UTC midnight
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if !today.Before(request.StartDate) {
			return leave.RequestResponse{}, leave.ErrLeaveAlreadyStarted
		}

		request.Status = leave.StatusCancelled
		err = l.withTx(ctx, func(tx pgx.Tx) error {
			txCtx := postgresql.ContextWithTx(ctx, tx)
			if err := l.BalanceRepository.AddUsedDays(txCtx, request.EmployeeID, request.LeaveTypeID, request.StartDate.Year(), -request.DaysCount, true); err != nil {
				return fmt.Errorf("failed to refund leave balance: %w", err)
			}
			if err := l.RequestRepository.Update(txCtx, request); err != nil {
				return fmt.Errorf("failed to cancel leave request: %w", err)
			}
			return nil
		})
		if err != nil {
			return leave.RequestResponse{}, err
		}

	default:
		return leave.RequestResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	l.auditSvc.Record(ctx, audit.Event{
		ActorID:     &userID,
		EventType:   audit.EventLeaveCancelled,
		SubjectType: "leave_request",
		SubjectID:   request.ID,
		RiskLevel:   audit.RiskLow,
		Metadata:    map[string]interface{}{"employee_id": request.EmployeeID},
	})

	return mapRequestToResponse(request), nil
}

// notifyRequester sends a decision notification and email to the
// request's owner.
func (l *LeaveServiceImpl) notifyRequester(ctx context.Context, request leave.Request, senderID string, nType notification.NotificationType, title, message string) {
	emp, err := l.EmployeeRepository.GetByID(ctx, request.EmployeeID)
	if err != nil {
		return
	}

	if emp.UserID != nil {
		err := l.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: *emp.UserID,
			SenderID:    &senderID,
			Type:        nType,
			Title:       title,
			Message:     message,
			Data:        map[string]interface{}{"leave_request_id": request.ID},
		})
		if err != nil {
			slog.Warn("failed to queue leave decision notification", "recipient_id", *emp.UserID, "leave_request_id", request.ID, "error", err)
		}
	}

	if emp.Email != "" {
		leaveTypeName := request.LeaveTypeID
		if lt, err := l.LeaveTypeRepository.GetByID(ctx, request.LeaveTypeID); err == nil {
			leaveTypeName = lt.Name
		}
		err := l.emailSvc.SendLeaveDecision(
			emp.Email,
			emp.FullName,
			leaveTypeName,
			request.StartDate.Format("2006-01-02"),
			request.EndDate.Format("2006-01-02"),
			string(request.Status),
			request.ReviewNote,
		)
		if err != nil {
			slog.Warn("failed to send leave decision email", "leave_request_id", request.ID, "error", err)
		}
	}
}

func mapTypeToResponse(lt leave.LeaveType) leave.LeaveTypeResponse {
	return leave.LeaveTypeResponse{
		ID:                 lt.ID,
		Code:               lt.Code,
		Name:               lt.Name,
		DefaultDaysPerYear: lt.DefaultDaysPerYear,
		IsPaid:             lt.IsPaid,
		ExcludeWeekends:    lt.ExcludeWeekends,
		IsActive:           lt.IsActive,
	}
}

func mapBalanceToResponse(b leave.Balance) leave.BalanceResponse {
	resp := leave.BalanceResponse{
		LeaveTypeID:   b.LeaveTypeID,
		Year:          b.Year,
		EntitledDays:  b.EntitledDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
	}
	if b.LeaveTypeCode != nil {
		resp.LeaveTypeCode = *b.LeaveTypeCode
	}
	if b.LeaveTypeName != nil {
		resp.LeaveTypeName = *b.LeaveTypeName
	}
	return resp
}

func mapRequestToResponse(r leave.Request) leave.RequestResponse {
	resp := leave.RequestResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		EmployeeName:      r.EmployeeName,
		StaffCode:         r.StaffCode,
		LeaveTypeID:       r.LeaveTypeID,
		LeaveTypeCode:     r.LeaveTypeCode,
		LeaveTypeName:     r.LeaveTypeName,
		StartDate:         r.StartDate.Format("2006-01-02"),
		EndDate:           r.EndDate.Format("2006-01-02"),
		DaysCount:         r.DaysCount,
		Reason:            r.Reason,
		Status:            string(r.Status),
		EmergencyOverride: r.EmergencyOverride,
		OverrideReason:    r.OverrideReason,
		ReviewedBy:        r.ReviewedBy,
		ReviewNote:        r.ReviewNote,
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         r.UpdatedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		reviewedAt := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}

func mapListResponse(requests []leave.Request, total int64, page, limit int) leave.ListRequestResponse {
	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, mapRequestToResponse(r))
	}
	return leave.ListRequestResponse{
		Requests:   responses,
		TotalItems: total,
		Page:       page,
		Limit:      limit,
	}
}
