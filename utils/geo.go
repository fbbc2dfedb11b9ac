package utils

import (
	"fmt"
	"math"
)

// Coordinate represents a geographic coordinate with latitude and longitude
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

const earthRadiusM = 6371000.0

// MapsLink builds a Google Maps link for a coordinate, used on read
// endpoints so clients can jump straight to the location.
func MapsLink(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", lat, lng)
}

// ValidateCoordinate checks that a coordinate is finite and within
// the valid latitude/longitude ranges.
func ValidateCoordinate(coord Coordinate) error {
	if math.IsNaN(coord.Lat) || math.IsInf(coord.Lat, 0) ||
		math.IsNaN(coord.Lng) || math.IsInf(coord.Lng, 0) {
		return fmt.Errorf("coordinate must be a finite number")
	}
	if coord.Lat < -90 || coord.Lat > 90 {
		return fmt.Errorf("latitude %.6f is out of valid range [-90, 90]", coord.Lat)
	}
	if coord.Lng < -180 || coord.Lng > 180 {
		return fmt.Errorf("longitude %.6f is out of valid range [-180, 180]", coord.Lng)
	}
	return nil
}

// HaversineMeters computes the great-circle distance between two
// coordinates on a spherical earth. Non-finite inputs produce NaN;
// callers are expected to validate coordinates first.
func HaversineMeters(a, b Coordinate) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}
