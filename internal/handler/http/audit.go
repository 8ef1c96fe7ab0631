package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/handler/http/response"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) AuditHandler {
	return &auditHandlerImpl{
		auditService: auditService,
	}
}

// List implements AuditHandler.
func (h *auditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := audit.Filter{}

	if actorID := r.URL.Query().Get("actor_id"); actorID != "" {
		filter.ActorID = &actorID
	}
	if eventType := r.URL.Query().Get("event_type"); eventType != "" {
		filter.EventType = &eventType
	}
	if subjectType := r.URL.Query().Get("subject_type"); subjectType != "" {
		filter.SubjectType = &subjectType
	}
	if subjectID := r.URL.Query().Get("subject_id"); subjectID != "" {
		filter.SubjectID = &subjectID
	}
	if riskLevel := r.URL.Query().Get("risk_level"); riskLevel != "" {
		filter.RiskLevel = &riskLevel
	}
	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	filter.Page = getIntQueryParam(r, "page", 1)
	filter.Limit = getIntQueryParam(r, "limit", 20)

	results, err := h.auditService.ListEvents(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Get implements AuditHandler.
func (h *auditHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.auditService.GetEvent(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
