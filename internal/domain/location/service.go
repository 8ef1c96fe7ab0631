package location

import "context"

// LocationService defines business logic for work location management.
type LocationService interface {
	GetLocation(ctx context.Context, id string) (LocationResponse, error)
	ListLocations(ctx context.Context, activeOnly bool) ([]LocationResponse, error)
	CreateLocation(ctx context.Context, req CreateLocationRequest) (LocationResponse, error)
	UpdateLocation(ctx context.Context, req UpdateLocationRequest) (LocationResponse, error)
	SetLocationActive(ctx context.Context, id string, active bool) (LocationResponse, error)
}
