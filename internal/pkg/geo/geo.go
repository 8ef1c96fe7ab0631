package geo

import "math"

const earthRadiusMeters = 6371000

// HaversineDistance returns the great-circle distance between two
// coordinates in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Result is the outcome of a geofence check.
type Result struct {
	Verified       bool
	DistanceMeters float64
}

// Validator checks reported coordinates against a site geofence.
// The effective boundary is the site radius widened by the reported GPS
// accuracy, so a device sitting on the fence line with poor accuracy is
// not rejected.
type Validator struct {
	MaxAccuracyMeters float64
}

// Validate reports whether the coordinates fall inside the geofence.
// Zero coordinates are treated as missing and fail closed.
func (v Validator) Validate(lat, lon, accuracyMeters, siteLat, siteLon, radiusMeters float64) Result {
	if lat == 0 && lon == 0 {
		return Result{Verified: false}
	}
	if siteLat == 0 && siteLon == 0 {
		return Result{Verified: false}
	}

	if accuracyMeters < 0 {
		accuracyMeters = 0
	}
	if v.MaxAccuracyMeters > 0 && accuracyMeters > v.MaxAccuracyMeters {
		accuracyMeters = v.MaxAccuracyMeters
	}

	distance := HaversineDistance(lat, lon, siteLat, siteLon)

	return Result{
		Verified:       distance <= radiusMeters+accuracyMeters,
		DistanceMeters: distance,
	}
}
