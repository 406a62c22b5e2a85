// Package geo provides the coordinate value type and the great-circle helpers
// shared by the commute domain.
// This is part of the platform layer and contains no business logic.
package geo

import (
	"fmt"
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/umahmood/haversine"
)

// EarthRadiusKm is the sphere radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// Coordinate is an immutable latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String renders the coordinate the way routing providers expect it ("lat,lng").
func (c Coordinate) String() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}

// Valid reports whether the coordinate lies inside the WGS84 ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Offset returns a new coordinate shifted by the given degrees.
func (c Coordinate) Offset(dLat, dLng float64) Coordinate {
	return Coordinate{Lat: c.Lat + dLat, Lng: c.Lng + dLng}
}

// DistanceKm returns the haversine distance between a and b in kilometers.
func DistanceKm(a, b Coordinate) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lng},
		haversine.Coord{Lat: b.Lat, Lon: b.Lng},
	)
	return km
}

// RoundKm rounds a distance to two decimals, half away from zero.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// Hash returns the full precision geohash of the coordinate. Two houses only
// share a hash when they are within a couple of centimeters of each other.
func Hash(c Coordinate) string {
	return geohash.Encode(c.Lat, c.Lng)
}
