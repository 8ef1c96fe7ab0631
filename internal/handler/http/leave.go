package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/leave"
	"github.com/schoolworks/staff-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	ListTypes(w http.ResponseWriter, r *http.Request)
	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)

	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetEmployeeBalances(w http.ResponseWriter, r *http.Request)
	InitializeBalances(w http.ResponseWriter, r *http.Request)

	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
	}
}

// ListTypes implements LeaveHandler.
func (h *leaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	results, err := h.leaveService.ListTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// CreateType implements LeaveHandler.
func (h *leaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.leaveService.CreateType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created successfully", result)
}

// UpdateType implements LeaveHandler.
func (h *leaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req leave.UpdateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.leaveService.UpdateType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated successfully", result)
}

// GetMyBalances implements LeaveHandler.
func (h *leaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	year := getIntQueryParam(r, "year", time.Now().Year())

	results, err := h.leaveService.GetMyBalances(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetEmployeeBalances implements LeaveHandler.
func (h *leaveHandlerImpl) GetEmployeeBalances(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	year := getIntQueryParam(r, "year", time.Now().Year())

	results, err := h.leaveService.GetEmployeeBalances(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// InitializeBalances implements LeaveHandler.
func (h *leaveHandlerImpl) InitializeBalances(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	year := getIntQueryParam(r, "year", time.Now().Year())

	if err := h.leaveService.InitializeBalances(r.Context(), employeeID, year); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balances initialized", nil)
}

// CreateRequest implements LeaveHandler.
func (h *leaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.leaveService.CreateRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

// GetMyRequests implements LeaveHandler.
func (h *leaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	filter := leave.MyRequestFilter{}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			filter.Year = &year
		}
	}
	filter.Page = getIntQueryParam(r, "page", 1)
	filter.Limit = getIntQueryParam(r, "limit", 20)

	results, err := h.leaveService.GetMyRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListRequests implements LeaveHandler.
func (h *leaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := leave.RequestFilter{}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if leaveTypeID := r.URL.Query().Get("leave_type_id"); leaveTypeID != "" {
		filter.LeaveTypeID = &leaveTypeID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	filter.Page = getIntQueryParam(r, "page", 1)
	filter.Limit = getIntQueryParam(r, "limit", 20)

	results, err := h.leaveService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetRequest implements LeaveHandler.
func (h *leaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.leaveService.GetRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func decideRequestFromHTTP(r *http.Request) (leave.DecideRequest, error) {
	req := leave.DecideRequest{ID: chi.URLParam(r, "id")}

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return leave.DecideRequest{}, err
		}
		req.ID = chi.URLParam(r, "id")
	}

	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return leave.DecideRequest{}, err
	}
	if reviewerID, ok := claims["user_id"].(string); ok {
		req.ReviewerID = reviewerID
	}

	return req, nil
}

// ApproveRequest implements LeaveHandler.
func (h *leaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	req, err := decideRequestFromHTTP(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.leaveService.ApproveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", result)
}

// RejectRequest implements LeaveHandler.
func (h *leaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	req, err := decideRequestFromHTTP(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.leaveService.RejectRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}

// CancelRequest implements LeaveHandler.
func (h *leaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.leaveService.CancelRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", result)
}
