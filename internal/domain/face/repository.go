package face

import "context"

type FaceRepository interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (Descriptor, error)
	Upsert(ctx context.Context, d Descriptor) (Descriptor, error)
	Delete(ctx context.Context, employeeID string) error
	CreateVerificationLog(ctx context.Context, log VerificationLog) error
	ListVerificationLogs(ctx context.Context, employeeID string, limit int) ([]VerificationLog, error)
}
