package face

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/schoolworks/staff-backend-go/internal/config"
	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/domain/employee"
	"github.com/schoolworks/staff-backend-go/internal/domain/face"
	"github.com/schoolworks/staff-backend-go/internal/domain/notification"
)

type FaceServiceImpl struct {
	face.FaceRepository
	employee.EmployeeRepository
	notificationSvc notification.Service
	auditSvc        audit.Service
	matcher         Matcher
	cfg             config.FaceConfig
}

func NewFaceService(
	faceRepo face.FaceRepository,
	employeeRepo employee.EmployeeRepository,
	notificationSvc notification.Service,
	auditSvc audit.Service,
	cfg config.FaceConfig,
) face.FaceService {
	return &FaceServiceImpl{
		FaceRepository:     faceRepo,
		EmployeeRepository: employeeRepo,
		notificationSvc:    notificationSvc,
		auditSvc:           auditSvc,
		matcher: Matcher{
			DescriptorLength:    cfg.DescriptorLength,
			SimilarityThreshold: cfg.SimilarityThreshold,
		},
		cfg: cfg,
	}
}

// Enroll implements face.FaceService.
func (f *FaceServiceImpl) Enroll(ctx context.Context, req face.EnrollRequest) (face.EnrollmentResponse, error) {
	if err := req.Validate(); err != nil {
		return face.EnrollmentResponse{}, err
	}
	if err := f.matcher.ValidateDescriptor(req.Embedding); err != nil {
		return face.EnrollmentResponse{}, err
	}

	emp, err := f.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return face.EnrollmentResponse{}, err
	}

	descriptor, err := f.FaceRepository.Upsert(ctx, face.Descriptor{
		EmployeeID:   req.EmployeeID,
		Embedding:    req.Embedding,
		QualityScore: req.QualityScore,
		EnrolledBy:   &req.EnrolledBy,
	})
	if err != nil {
		return face.EnrollmentResponse{}, fmt.Errorf("failed to store face descriptor: %w", err)
	}

	f.auditSvc.Record(ctx, audit.Event{
		ActorID:     &req.EnrolledBy,
		EventType:   audit.EventFaceEnrolled,
		SubjectType: "employee",
		SubjectID:   req.EmployeeID,
		RiskLevel:   audit.RiskLow,
	})

	if emp.UserID != nil {
		err := f.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: *emp.UserID,
			SenderID:    &req.EnrolledBy,
			Type:        notification.TypeFaceEnrolled,
			Title:       "Face enrolled",
			Message:     "A face descriptor was registered for your attendance check-in.",
		})
		if err != nil {
			slog.Warn("failed to queue face enrollment notification", "employee_id", req.EmployeeID, "error", err)
		}
	}

	return face.EnrollmentResponse{
		EmployeeID:   descriptor.EmployeeID,
		Enrolled:     true,
		QualityScore: descriptor.QualityScore,
		UpdatedAt:    descriptor.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// Remove implements face.FaceService.
func (f *FaceServiceImpl) Remove(ctx context.Context, employeeID string) error {
	if err := f.FaceRepository.Delete(ctx, employeeID); err != nil {
		return err
	}

	f.auditSvc.Record(ctx, audit.Event{
		EventType:   audit.EventFaceRemoved,
		SubjectType: "employee",
		SubjectID:   employeeID,
		RiskLevel:   audit.RiskLow,
	})

	return nil
}

// Status implements face.FaceService.
func (f *FaceServiceImpl) Status(ctx context.Context, employeeID string) (face.EnrollmentResponse, error) {
	descriptor, err := f.FaceRepository.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, face.ErrDescriptorNotFound) {
			return face.EnrollmentResponse{EmployeeID: employeeID, Enrolled: false}, nil
		}
		return face.EnrollmentResponse{}, err
	}

	return face.EnrollmentResponse{
		EmployeeID:   descriptor.EmployeeID,
		Enrolled:     true,
		QualityScore: descriptor.QualityScore,
		UpdatedAt:    descriptor.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// Verify implements face.FaceService. The probe is matched against the
// enrolled descriptor; every attempt is logged without storing the raw
// embedding. The caller decides how an unmatched or non-live result
// affects the surrounding operation.
func (f *FaceServiceImpl) Verify(ctx context.Context, employeeID string, probe []float64, livenessScore, confidenceScore float64) (face.VerifyResult, error) {
	if err := f.matcher.ValidateDescriptor(probe); err != nil {
		return face.VerifyResult{}, err
	}

	descriptor, err := f.FaceRepository.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return face.VerifyResult{}, err
	}

	similarity, matched := f.matcher.Match(descriptor.Embedding, probe)
	livenessPassed := livenessScore >= f.cfg.LivenessThreshold

	result := face.VerifyResult{
		Matched:        matched,
		Similarity:     similarity,
		LivenessPassed: livenessPassed,
	}

	if err := f.FaceRepository.CreateVerificationLog(ctx, face.VerificationLog{
		EmployeeID:      employeeID,
		Similarity:      similarity,
		LivenessScore:   livenessScore,
		ConfidenceScore: confidenceScore,
		Matched:         matched,
		LivenessPassed:  livenessPassed,
	}); err != nil {
		return face.VerifyResult{}, fmt.Errorf("failed to log verification attempt: %w", err)
	}

	if !matched || !livenessPassed {
		f.auditSvc.Record(ctx, audit.Event{
			EventType:   audit.EventFaceVerifyFailed,
			SubjectType: "employee",
			SubjectID:   employeeID,
			RiskLevel:   audit.RiskMedium,
			Metadata: map[string]interface{}{
				"similarity":      similarity,
				"liveness_score":  livenessScore,
				"liveness_passed": livenessPassed,
			},
		})
	}

	return result, nil
}

// VerificationHistory implements face.FaceService.
func (f *FaceServiceImpl) VerificationHistory(ctx context.Context, employeeID string, limit int) ([]face.VerificationLogResponse, error) {
	logs, err := f.FaceRepository.ListVerificationLogs(ctx, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list verification logs: %w", err)
	}

	responses := make([]face.VerificationLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, face.VerificationLogResponse{
			ID:              log.ID,
			EmployeeID:      log.EmployeeID,
			Similarity:      log.Similarity,
			LivenessScore:   log.LivenessScore,
			ConfidenceScore: log.ConfidenceScore,
			Matched:         log.Matched,
			LivenessPassed:  log.LivenessPassed,
			CreatedAt:       log.CreatedAt.Format(time.RFC3339),
		})
	}

	return responses, nil
}
