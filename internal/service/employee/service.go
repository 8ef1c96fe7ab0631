package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/domain/leave"
	"github.com/schoolworks/staff-backend-go/internal/domain/location"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	locationRepo location.LocationRepository
	leaveSvc     leave.LeaveService
	auditSvc     audit.Service
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	locationRepo location.LocationRepository,
	leaveSvc leave.LeaveService,
	auditSvc audit.Service,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepo,
		locationRepo:       locationRepo,
		leaveSvc:           leaveSvc,
		auditSvc:           auditSvc,
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

func isManagerRole(role string) bool {
	return role == string(user.RoleAdmin) || role == string(user.RoleManager)
}

// GetEmployee implements employee.EmployeeService. Staff may only read
// their own record.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	_, employeeID, role, err := claimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if !isManagerRole(role) && id != employeeID {
		return employee.EmployeeResponse{}, employee.ErrUnauthorized
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(emp), nil
}

// GetMyProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetMyProfile(ctx context.Context) (employee.EmployeeResponse, error) {
	userID, employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	var emp employee.Employee
	if employeeID != "" {
		emp, err = s.EmployeeRepository.GetByID(ctx, employeeID)
	} else {
		emp, err = s.EmployeeRepository.GetByUserID(ctx, userID)
	}
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	userID, _, _, err := claimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate, _ := time.Parse("2006-01-02", req.HireDate)
	if hireDate.After(time.Now()) {
		return employee.EmployeeResponse{}, employee.ErrFutureDateNotAllowed
	}

	exists, err := s.EmployeeRepository.ExistsByCodeOrEmail(ctx, &req.StaffCode, &req.Email)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check staff code and email: %w", err)
	}
	if exists {
		if _, err := s.EmployeeRepository.GetByStaffCode(ctx, req.StaffCode); err == nil {
			return employee.EmployeeResponse{}, employee.ErrStaffCodeExists
		}
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	}

	if req.WorkLocationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *req.WorkLocationID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	baseSalary, _ := decimal.NewFromString(req.BaseSalary)
	created, err := s.EmployeeRepository.Create(ctx, employee.Employee{
		StaffCode:        req.StaffCode,
		FullName:         req.FullName,
		Email:            req.Email,
		PhoneNumber:      req.PhoneNumber,
		Department:       req.Department,
		Position:         req.Position,
		WorkLocationID:   req.WorkLocationID,
		HireDate:         hireDate,
		EmploymentStatus: employee.EmploymentStatusActive,
		SalaryType:       employee.SalaryType(req.SalaryType),
		BaseSalary:       baseSalary,
		ScheduledStart:   req.ScheduledStart,
		ScheduledEnd:     req.ScheduledEnd,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	// Leave balances for the hire year; failure here does not undo the hire.
	if err := s.leaveSvc.InitializeBalances(ctx, created.ID, hireDate.Year()); err != nil {
		slog.Error("failed to initialize leave balances", "employee_id", created.ID, "error", err)
	}

	s.auditSvc.Record(ctx, audit.Event{
		ActorID:     &userID,
		EventType:   audit.EventEmployeeCreated,
		SubjectType: "employee",
		SubjectID:   created.ID,
		RiskLevel:   audit.RiskLow,
		Metadata:    map[string]interface{}{"staff_code": created.StaffCode},
	})

	return mapEmployeeToResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService. Staff may update
// their own contact fields; salary and schedule changes are manager only.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	userID, employeeID, role, err := claimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if !isManagerRole(role) {
		if req.ID != employeeID {
			return employee.EmployeeResponse{}, employee.ErrUnauthorized
		}
		if req.SalaryType != nil || req.BaseSalary != nil || req.ScheduledStart != nil || req.ScheduledEnd != nil || req.WorkLocationID != nil {
			return employee.EmployeeResponse{}, employee.ErrUnauthorized
		}
	}

	existing, err := s.EmployeeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Email != nil && *req.Email != existing.Email {
		exists, err := s.EmployeeRepository.ExistsByCodeOrEmail(ctx, nil, req.Email)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		}
	}

	if req.WorkLocationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *req.WorkLocationID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	if err := s.EmployeeRepository.Update(ctx, req.ID, req); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	s.auditSvc.Record(ctx, audit.Event{
		ActorID:     &userID,
		EventType:   audit.EventEmployeeUpdated,
		SubjectType: "employee",
		SubjectID:   req.ID,
		RiskLevel:   audit.RiskLow,
	})

	updated, err := s.EmployeeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	userID, _, _, err := claimsFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.EmployeeRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.auditSvc.Record(ctx, audit.Event{
		ActorID:     &userID,
		EventType:   audit.EventEmployeeUpdated,
		SubjectType: "employee",
		SubjectID:   id,
		RiskLevel:   audit.RiskMedium,
		Metadata:    map[string]interface{}{"deleted": true},
	})

	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}

	employees, total, err := s.EmployeeRepository.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}

	return employee.ListEmployeeResponse{
		Employees:  responses,
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// DeactivateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeactivateEmployee(ctx context.Context, req employee.DeactivateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	userID, _, _, err := claimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.EmployeeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !existing.IsActive() {
		return employee.EmployeeResponse{}, employee.ErrEmployeeAlreadyInactive
	}

	if err := s.EmployeeRepository.SetEmploymentStatus(ctx, req.ID, employee.EmploymentStatus(req.Status), &req.ResignationDate); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to set employment status: %w", err)
	}

	s.auditSvc.Record(ctx, audit.Event{
		ActorID:     &userID,
		EventType:   audit.EventEmployeeResigned,
		SubjectType: "employee",
		SubjectID:   req.ID,
		RiskLevel:   audit.RiskLow,
		Metadata: map[string]interface{}{
			"status":           req.Status,
			"resignation_date": req.ResignationDate,
		},
	})

	updated, err := s.EmployeeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(updated), nil
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	resp := employee.EmployeeResponse{
		ID:               emp.ID,
		StaffCode:        emp.StaffCode,
		FullName:         emp.FullName,
		Email:            emp.Email,
		PhoneNumber:      emp.PhoneNumber,
		Department:       emp.Department,
		Position:         emp.Position,
		WorkLocationID:   emp.WorkLocationID,
		WorkLocationName: emp.WorkLocationName,
		HireDate:         emp.HireDate.Format("2006-01-02"),
		EmploymentStatus: string(emp.EmploymentStatus),
		SalaryType:       string(emp.SalaryType),
		BaseSalary:       emp.BaseSalary.String(),
		ScheduledStart:   emp.ScheduledStart,
		ScheduledEnd:     emp.ScheduledEnd,
		CreatedAt:        emp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        emp.UpdatedAt.Format(time.RFC3339),
	}
	if emp.ResignationDate != nil {
		resignation := emp.ResignationDate.Format("2006-01-02")
		resp.ResignationDate = &resignation
	}
	return resp
}
