package location

import "time"

// WorkLocation is a site staff may check in from, with its geofence.
type WorkLocation struct {
	ID           string
	Name         string
	Address      *string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
