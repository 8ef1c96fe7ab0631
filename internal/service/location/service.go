package location

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolworks/staff-backend-go/internal/domain/location"
)

type LocationServiceImpl struct {
	location.LocationRepository
}

func NewLocationService(locationRepo location.LocationRepository) location.LocationService {
	return &LocationServiceImpl{LocationRepository: locationRepo}
}

// GetLocation implements location.LocationService.
func (s *LocationServiceImpl) GetLocation(ctx context.Context, id string) (location.LocationResponse, error) {
	loc, err := s.LocationRepository.GetByID(ctx, id)
	if err != nil {
		return location.LocationResponse{}, err
	}
	return mapLocationToResponse(loc), nil
}

// ListLocations implements location.LocationService.
func (s *LocationServiceImpl) ListLocations(ctx context.Context, activeOnly bool) ([]location.LocationResponse, error) {
	locations, err := s.LocationRepository.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list work locations: %w", err)
	}

	responses := make([]location.LocationResponse, 0, len(locations))
	for _, loc := range locations {
		responses = append(responses, mapLocationToResponse(loc))
	}
	return responses, nil
}

// CreateLocation implements location.LocationService.
func (s *LocationServiceImpl) CreateLocation(ctx context.Context, req location.CreateLocationRequest) (location.LocationResponse, error) {
	if err := req.Validate(); err != nil {
		return location.LocationResponse{}, err
	}

	created, err := s.LocationRepository.Create(ctx, location.WorkLocation{
		Name:         req.Name,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		IsActive:     true,
	})
	if err != nil {
		return location.LocationResponse{}, err
	}

	return mapLocationToResponse(created), nil
}

// UpdateLocation implements location.LocationService.
func (s *LocationServiceImpl) UpdateLocation(ctx context.Context, req location.UpdateLocationRequest) (location.LocationResponse, error) {
	if err := req.Validate(); err != nil {
		return location.LocationResponse{}, err
	}

	if _, err := s.LocationRepository.GetByID(ctx, req.ID); err != nil {
		return location.LocationResponse{}, err
	}

	if err := s.LocationRepository.Update(ctx, req.ID, req); err != nil {
		return location.LocationResponse{}, fmt.Errorf("failed to update work location: %w", err)
	}

	updated, err := s.LocationRepository.GetByID(ctx, req.ID)
	if err != nil {
		return location.LocationResponse{}, err
	}
	return mapLocationToResponse(updated), nil
}

// SetLocationActive implements location.LocationService.
func (s *LocationServiceImpl) SetLocationActive(ctx context.Context, id string, active bool) (location.LocationResponse, error) {
	if _, err := s.LocationRepository.GetByID(ctx, id); err != nil {
		return location.LocationResponse{}, err
	}

	if err := s.LocationRepository.SetActive(ctx, id, active); err != nil {
		return location.LocationResponse{}, fmt.Errorf("failed to set work location status: %w", err)
	}

	updated, err := s.LocationRepository.GetByID(ctx, id)
	if err != nil {
		return location.LocationResponse{}, err
	}
	return mapLocationToResponse(updated), nil
}

func mapLocationToResponse(loc location.WorkLocation) location.LocationResponse {
	return location.LocationResponse{
		ID:           loc.ID,
		Name:         loc.Name,
		Address:      loc.Address,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		RadiusMeters: loc.RadiusMeters,
		IsActive:     loc.IsActive,
		CreatedAt:    loc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    loc.UpdatedAt.Format(time.RFC3339),
	}
}
