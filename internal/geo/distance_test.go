package geo

import (
	"math"
	"testing"
)

func TestHaversineKm_ZeroDistance(t *testing.T) {
	d := HaversineKm(23.81, 90.41, 23.81, 90.41)
	if d < 0 || d > 1e-9 {
		t.Fatalf("zero distance expected ~0, got %v", d)
	}
}

func TestHaversineKm_KnownPair(t *testing.T) {
	// One degree of latitude along a meridian is ~111.2 km.
	d := HaversineKm(0, 0, 1, 0)
	if math.Abs(d-111.19) > 0.05 {
		t.Fatalf("HaversineKm(0,0,1,0) = %v, want ~111.19", d)
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	a := HaversineKm(23.7806, 90.2794, 23.8103, 90.4125)
	b := HaversineKm(23.8103, 90.4125, 23.7806, 90.2794)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestIsWithinRadiusKm_Boundary(t *testing.T) {
	// ~0.111 km apart
	if !IsWithinRadiusKm(0, 0, 0.001, 0, 0.3) {
		t.Fatalf("expected points to be within 0.3 km")
	}
	if IsWithinRadiusKm(0, 0, 0.01, 0, 0.3) {
		t.Fatalf("expected points ~1.1 km apart to be outside 0.3 km")
	}
}

func TestValidCoordinates(t *testing.T) {
	cases := []struct {
		lat, lng float64
		want     bool
	}{
		{23.8, 90.4, true},
		{-90, 180, true},
		{91, 0, false},
		{0, -181, false},
		{math.NaN(), 0, false},
		{0, math.Inf(1), false},
	}
	for _, c := range cases {
		if got := ValidCoordinates(c.lat, c.lng); got != c.want {
			t.Errorf("ValidCoordinates(%v, %v) = %v, want %v", c.lat, c.lng, got, c.want)
		}
	}
}
