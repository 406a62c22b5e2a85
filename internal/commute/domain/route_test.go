package domain

import "testing"

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{0, "0 m"},
		{850.4, "850 m"},
		{1000, "1.0 km"},
		{12345, "12.3 km"},
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.meters); got != tt.want {
			t.Fatalf("FormatDistance(%v) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "1 min"},
		{60, "1 min"},
		{1500, "25 mins"},
		{3600, "1 hour"},
		{3900, "1 hour 5 mins"},
		{7260, "2 hours 1 min"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestRoute_SummaryAndTotals(t *testing.T) {
	var empty Route
	if _, ok := empty.Summary(); ok {
		t.Fatalf("expected no summary without legs")
	}

	r := Route{Legs: []Leg{
		{DistanceMeters: 1000, DurationSeconds: 60, DistanceText: "1.0 km"},
		{DistanceMeters: 500, DurationSeconds: 30},
	}}
	leg, ok := r.Summary()
	if !ok || leg.DistanceText != "1.0 km" {
		t.Fatalf("expected first leg as summary, got %+v", leg)
	}
	if r.DistanceMeters() != 1500 || r.DurationSeconds() != 90 {
		t.Fatalf("unexpected totals %v m / %v s", r.DistanceMeters(), r.DurationSeconds())
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		km     float64
		radius float64
		ok     bool
	}{
		{10, 15, true},
		{15, 15, true},
		{20, 30, true},
		{44.9, 45, true},
		{50, 0, false},
	}
	for _, tt := range tests {
		b, ok := BandFor(tt.km)
		if ok != tt.ok || b.RadiusKm != tt.radius {
			t.Fatalf("BandFor(%v) = %v,%v want %v,%v", tt.km, b.RadiusKm, ok, tt.radius, tt.ok)
		}
	}
}
