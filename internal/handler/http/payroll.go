package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/payroll"
	"github.com/schoolworks/staff-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Components
	CreateComponent(w http.ResponseWriter, r *http.Request)
	ListComponents(w http.ResponseWriter, r *http.Request)
	UpdateComponent(w http.ResponseWriter, r *http.Request)

	// Employee components
	AssignComponent(w http.ResponseWriter, r *http.Request)
	GetEmployeeComponents(w http.ResponseWriter, r *http.Request)
	RemoveEmployeeComponent(w http.ResponseWriter, r *http.Request)

	// Records
	Generate(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	GetMyPayslips(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	DeleteDraft(w http.ResponseWriter, r *http.Request)
	Correct(w http.ResponseWriter, r *http.Request)
	GetPeriodTotals(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

func actorIDFromRequest(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	userID, _ := claims["user_id"].(string)
	return userID
}

// CreateComponent implements PayrollHandler.
func (h *payrollHandlerImpl) CreateComponent(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateComponent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll component created successfully", result)
}

// ListComponents implements PayrollHandler.
func (h *payrollHandlerImpl) ListComponents(w http.ResponseWriter, r *http.Request) {
	activeOnly := getBoolQueryParam(r, "active_only", false)

	results, err := h.payrollService.ListComponents(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// UpdateComponent implements PayrollHandler.
func (h *payrollHandlerImpl) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req payroll.UpdateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.payrollService.UpdateComponent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll component updated successfully", result)
}

// AssignComponent implements PayrollHandler.
func (h *payrollHandlerImpl) AssignComponent(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	var req payroll.AssignComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.payrollService.AssignComponent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Component assigned successfully", result)
}

// GetEmployeeComponents implements PayrollHandler.
func (h *payrollHandlerImpl) GetEmployeeComponents(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	results, err := h.payrollService.GetEmployeeComponents(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// RemoveEmployeeComponent implements PayrollHandler.
func (h *payrollHandlerImpl) RemoveEmployeeComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.payrollService.RemoveEmployeeComponent(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Component assignment removed", nil)
}

// Generate implements PayrollHandler.
func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.GeneratedBy = actorIDFromRequest(r)

	result, err := h.payrollService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll generation completed", result)
}

// GetRecord implements PayrollHandler.
func (h *payrollHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.payrollService.GetRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func recordFilterFromQuery(r *http.Request) payroll.RecordFilter {
	filter := payroll.RecordFilter{}

	if period := r.URL.Query().Get("period"); period != "" {
		filter.Period = &period
	}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if department := r.URL.Query().Get("department"); department != "" {
		filter.Department = &department
	}
	filter.Page = getIntQueryParam(r, "page", 1)
	filter.Limit = getIntQueryParam(r, "limit", 20)

	return filter
}

// ListRecords implements PayrollHandler.
func (h *payrollHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	results, err := h.payrollService.ListRecords(r.Context(), recordFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetMyPayslips implements PayrollHandler.
func (h *payrollHandlerImpl) GetMyPayslips(w http.ResponseWriter, r *http.Request) {
	results, err := h.payrollService.GetMyPayslips(r.Context(), recordFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// MarkPaid implements PayrollHandler.
func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req payroll.MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.PaidBy = actorIDFromRequest(r)

	if err := h.payrollService.MarkPaid(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll records marked as paid", nil)
}

// DeleteDraft implements PayrollHandler.
func (h *payrollHandlerImpl) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.payrollService.DeleteDraft(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Draft payroll record deleted", nil)
}

// Correct implements PayrollHandler.
func (h *payrollHandlerImpl) Correct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req payroll.CorrectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.RecordID = id
	req.CorrectedBy = actorIDFromRequest(r)

	result, err := h.payrollService.Correct(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record corrected", result)
}

// GetPeriodTotals implements PayrollHandler.
func (h *payrollHandlerImpl) GetPeriodTotals(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")

	result, err := h.payrollService.GetPeriodTotals(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
