package utils

import (
	"math"
	"testing"
)

func TestHaversineMeters(t *testing.T) {
	a := Coordinate{Lat: 6.9271, Lng: 79.8612}
	b := Coordinate{Lat: 7.9271, Lng: 79.8612}

	if d := HaversineMeters(a, a); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}

	ab := HaversineMeters(a, b)
	ba := HaversineMeters(b, a)
	if ab != ba {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}

	// one degree of latitude along a meridian is ~111,195 m
	if math.Abs(ab-111195) > 50 {
		t.Errorf("1 degree latitude = %v m, want 111195 +/- 50", ab)
	}
}

func TestHaversineMetersShortRange(t *testing.T) {
	// ~7m apart, the assignment verification case
	a := Coordinate{Lat: 6.9271, Lng: 79.8612}
	b := Coordinate{Lat: 6.92715, Lng: 79.86125}

	d := HaversineMeters(a, b)
	if d < 5 || d > 10 {
		t.Errorf("distance = %v m, want roughly 7", d)
	}
}

func TestHaversineMetersNonFinite(t *testing.T) {
	a := Coordinate{Lat: math.NaN(), Lng: 79.8612}
	b := Coordinate{Lat: 6.9271, Lng: 79.8612}
	if d := HaversineMeters(a, b); !math.IsNaN(d) {
		t.Errorf("distance with NaN input = %v, want NaN", d)
	}
}

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		coord   Coordinate
		wantErr bool
	}{
		{"valid", Coordinate{6.9271, 79.8612}, false},
		{"lat too high", Coordinate{90.1, 0}, true},
		{"lat too low", Coordinate{-90.1, 0}, true},
		{"lng too high", Coordinate{0, 180.1}, true},
		{"lng too low", Coordinate{0, -180.1}, true},
		{"nan lat", Coordinate{math.NaN(), 0}, true},
		{"inf lng", Coordinate{0, math.Inf(1)}, true},
		{"boundary", Coordinate{90, -180}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.coord)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%+v) error = %v, wantErr %v", tt.coord, err, tt.wantErr)
			}
		})
	}
}
