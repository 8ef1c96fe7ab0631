package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/face"
	"github.com/schoolworks/staff-backend-go/internal/handler/http/response"
)

type FaceHandler interface {
	Enroll(w http.ResponseWriter, r *http.Request)
	Remove(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	VerificationHistory(w http.ResponseWriter, r *http.Request)
}

type faceHandlerImpl struct {
	faceService face.FaceService
}

func NewFaceHandler(faceService face.FaceService) FaceHandler {
	return &faceHandlerImpl{
		faceService: faceService,
	}
}

// Enroll implements FaceHandler.
func (h *faceHandlerImpl) Enroll(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	var req face.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = employeeID

	_, claims, err := jwtauth.FromContext(r.Context())
	if err == nil {
		if userID, ok := claims["user_id"].(string); ok {
			req.EnrolledBy = userID
		}
	}

	result, err := h.faceService.Enroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Face enrolled successfully", result)
}

// Remove implements FaceHandler.
func (h *faceHandlerImpl) Remove(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	if err := h.faceService.Remove(r.Context(), employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Face enrollment removed", nil)
}

// Status implements FaceHandler.
func (h *faceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.faceService.Status(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// VerificationHistory implements FaceHandler.
func (h *faceHandlerImpl) VerificationHistory(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	limit := getIntQueryParam(r, "limit", 20)

	results, err := h.faceService.VerificationHistory(r.Context(), employeeID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
