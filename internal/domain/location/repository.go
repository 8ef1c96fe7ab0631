package location

import "context"

type LocationRepository interface {
	GetByID(ctx context.Context, id string) (WorkLocation, error)
	List(ctx context.Context, activeOnly bool) ([]WorkLocation, error)
	Create(ctx context.Context, loc WorkLocation) (WorkLocation, error)
	Update(ctx context.Context, id string, req UpdateLocationRequest) error
	SetActive(ctx context.Context, id string, active bool) error
}
