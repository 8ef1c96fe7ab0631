package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/report"
	"github.com/schoolworks/staff-backend-go/internal/domain/user"
	"github.com/schoolworks/staff-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request)
	GetPayrollSummaryReport(w http.ResponseWriter, r *http.Request)
	ExportPayrollSummaryXLSX(w http.ResponseWriter, r *http.Request)
	GetLeaveBalanceReport(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetMonthlyAttendanceReport handles GET /reports/attendance
func (h *reportHandlerImpl) GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request) {
	req := report.MonthlyAttendanceReportRequest{
		Period: r.URL.Query().Get("period"),
	}

	result, err := h.reportService.GenerateMonthlyAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPayrollSummaryReport handles GET /reports/payroll
func (h *reportHandlerImpl) GetPayrollSummaryReport(w http.ResponseWriter, r *http.Request) {
	req := report.PayrollSummaryReportRequest{
		Period: r.URL.Query().Get("period"),
	}

	result, err := h.reportService.GeneratePayrollSummaryReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportPayrollSummaryXLSX handles GET /reports/payroll/export
func (h *reportHandlerImpl) ExportPayrollSummaryXLSX(w http.ResponseWriter, r *http.Request) {
	req := report.PayrollSummaryReportRequest{
		Period: r.URL.Query().Get("period"),
	}

	file, err := h.reportService.ExportPayrollSummaryXLSX(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, file)
}

// GetLeaveBalanceReport handles GET /reports/leave-balance
func (h *reportHandlerImpl) GetLeaveBalanceReport(w http.ResponseWriter, r *http.Request) {
	req := report.LeaveBalanceReportRequest{
		Year: getIntQueryParam(r, "year", time.Now().Year()),
	}

	result, err := h.reportService.GenerateLeaveBalanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DownloadPayslip handles GET /payroll/records/{id}/payslip
func (h *reportHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	req := report.PayslipRequest{
		RecordID: chi.URLParam(r, "id"),
	}

	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var requesterEmployeeID *string
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		requesterEmployeeID = &employeeID
	}
	role, _ := claims["role"].(string)
	canManage := role == string(user.RoleAdmin) || role == string(user.RoleManager)

	file, err := h.reportService.GeneratePayslipPDF(r.Context(), req, requesterEmployeeID, canManage)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, file)
}

func writeFile(w http.ResponseWriter, file report.FileResult) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}
