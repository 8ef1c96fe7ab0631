package geo

import (
	"math"
	"testing"
)

// Jakarta city center to Monas is roughly 700m; sanity-check the haversine
// implementation against a hand-computed reference.
func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: -6.175392, lon1: 106.827153,
			lat2: -6.175392, lon2: 106.827153,
			want: 0, tolerance: 0.01,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			want: 111195, tolerance: 50,
		},
		{
			name: "short hop",
			lat1: -6.175392, lon1: 106.827153,
			lat2: -6.176392, lon2: 106.827153,
			want: 111.2, tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineDistance() = %f, want %f (±%f)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestValidatorInsideRadius(t *testing.T) {
	v := Validator{MaxAccuracyMeters: 100}

	siteLat, siteLon := -6.175392, 106.827153

	// ~111m north of the site
	res := v.Validate(-6.176392, siteLon, 0, siteLat, siteLon, 150)
	if !res.Verified {
		t.Errorf("expected point inside 150m radius to verify, distance %f", res.DistanceMeters)
	}

	res = v.Validate(-6.176392, siteLon, 0, siteLat, siteLon, 100)
	if res.Verified {
		t.Errorf("expected point outside 100m radius to fail, distance %f", res.DistanceMeters)
	}
}

func TestValidatorAccuracyWidensBoundary(t *testing.T) {
	v := Validator{MaxAccuracyMeters: 100}

	siteLat, siteLon := -6.175392, 106.827153

	// ~111m away, 100m radius: fails with perfect accuracy, passes with 20m accuracy
	res := v.Validate(-6.176392, siteLon, 20, siteLat, siteLon, 100)
	if !res.Verified {
		t.Errorf("expected accuracy to widen boundary, distance %f", res.DistanceMeters)
	}
}

func TestValidatorClampsAccuracy(t *testing.T) {
	v := Validator{MaxAccuracyMeters: 50}

	siteLat, siteLon := -6.175392, 106.827153

	// ~222m away; a claimed 500m accuracy must be clamped to 50m, so
	// 100m radius + 50m accuracy still fails.
	res := v.Validate(-6.177392, siteLon, 500, siteLat, siteLon, 100)
	if res.Verified {
		t.Errorf("expected clamped accuracy to fail, distance %f", res.DistanceMeters)
	}

	// Negative accuracy is treated as zero, not an error
	res = v.Validate(siteLat, siteLon, -10, siteLat, siteLon, 100)
	if !res.Verified {
		t.Error("expected on-site point with negative accuracy to verify")
	}
}

func TestValidatorFailsClosedOnMissingCoordinates(t *testing.T) {
	v := Validator{MaxAccuracyMeters: 100}

	if res := v.Validate(0, 0, 10, -6.175392, 106.827153, 100); res.Verified {
		t.Error("expected zero reported coordinates to fail closed")
	}
	if res := v.Validate(-6.175392, 106.827153, 10, 0, 0, 100); res.Verified {
		t.Error("expected zero site coordinates to fail closed")
	}
}
