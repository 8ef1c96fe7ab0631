package audit

import "context"

// Repository defines append and query access to the audit log.
type Repository interface {
	Create(ctx context.Context, event *Event) error
	CreateBatch(ctx context.Context, events []*Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter Filter) ([]*Event, int64, error)
	CountByRiskSince(ctx context.Context, level RiskLevel, days int) (int64, error)
}
