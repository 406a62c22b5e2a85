package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_SelfDistanceIsZero(t *testing.T) {
	points := []Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 36.6485258, Lng: 138.1950371},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 89.9, Lng: -179.9},
	}

	for _, p := range points {
		if got := RoundKm(DistanceKm(p, p)); got != 0 {
			t.Fatalf("expected self distance 0.00 for %v, got %.2f", p, got)
		}
	}
}

func TestDistanceKm_TokyoOsaka(t *testing.T) {
	tokyo := Coordinate{Lat: 35.6762, Lng: 139.6503}
	osaka := Coordinate{Lat: 34.6937, Lng: 135.5023}

	// 6371 km sphere; the great-circle figure for these two points is 392.44 km.
	got := DistanceKm(tokyo, osaka)
	if math.Abs(got-392.44) > 1 {
		t.Fatalf("expected Tokyo-Osaka 392.44 km +/- 1, got %.2f", got)
	}
}

func TestDistanceKm_IsSymmetric(t *testing.T) {
	a := Coordinate{Lat: 52.3676, Lng: 4.9041}
	b := Coordinate{Lat: 51.9244, Lng: 4.4777}

	if DistanceKm(a, b) != DistanceKm(b, a) {
		t.Fatalf("expected symmetric distance")
	}
}

func TestDistanceKm_MatchesManualHaversine(t *testing.T) {
	a := Coordinate{Lat: 36.6485258, Lng: 138.1950371}
	b := Coordinate{Lat: 36.9, Lng: 138.5}

	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(b.Lat - a.Lat)
	dLng := rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	want := EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	if got := DistanceKm(a, b); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %.9f, got %.9f", want, got)
	}
}

func TestRoundKm(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0, want: 0},
		{in: 9.994, want: 9.99},
		{in: 9.996, want: 10},
		{in: 10.004, want: 10},
		{in: 12.345678, want: 12.35},
	}

	for _, tt := range tests {
		if got := RoundKm(tt.in); got != tt.want {
			t.Fatalf("RoundKm(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCoordinateValid(t *testing.T) {
	if !(Coordinate{Lat: 90, Lng: 180}).Valid() {
		t.Fatalf("expected boundary coordinate to be valid")
	}
	if (Coordinate{Lat: 91, Lng: 0}).Valid() {
		t.Fatalf("expected latitude 91 to be invalid")
	}
	if (Coordinate{Lat: 0, Lng: -181}).Valid() {
		t.Fatalf("expected longitude -181 to be invalid")
	}
	if (Coordinate{Lat: math.NaN(), Lng: 0}).Valid() {
		t.Fatalf("expected NaN to be invalid")
	}
}

func TestHash(t *testing.T) {
	a := Hash(Coordinate{Lat: 36.6485258, Lng: 138.1950371})
	if len(a) != 12 {
		t.Fatalf("expected 12 character geohash, got %q", a)
	}
	b := Hash(Coordinate{Lat: 36.7485258, Lng: 138.1950371})
	if a == b {
		t.Fatalf("expected distinct hashes for distinct points")
	}
	if a != Hash(Coordinate{Lat: 36.6485258, Lng: 138.1950371}) {
		t.Fatalf("expected hash to be deterministic")
	}
}
