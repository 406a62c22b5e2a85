package domain

import (
	"fmt"
	"math"
	"time"

	"commute_backend/platform/geo"
)

// TravelMode selects the routing profile.
type TravelMode string

const (
	TravelModeDriving TravelMode = "DRIVING"
)

// RouteRequest is one routing call, from a house to the office.
type RouteRequest struct {
	Token       uint64         `json:"token"`
	HouseID     string         `json:"houseId"`
	Origin      geo.Coordinate `json:"origin"`
	Destination geo.Coordinate `json:"destination"`
	Mode        TravelMode     `json:"mode"`
}

// Leg is one leg of a route.
type Leg struct {
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	DistanceText    string  `json:"distanceText"`
	DurationText    string  `json:"durationText"`
	StartAddress    string  `json:"startAddress,omitempty"`
	EndAddress      string  `json:"endAddress,omitempty"`
}

// Route is a provider result for one house and the office.
type Route struct {
	Token       uint64           `json:"token"`
	HouseID     string           `json:"houseId"`
	Origin      geo.Coordinate   `json:"origin"`
	Destination geo.Coordinate   `json:"destination"`
	Mode        TravelMode       `json:"mode"`
	Provider    string           `json:"provider"`
	Legs        []Leg            `json:"legs"`
	Polyline    []geo.Coordinate `json:"polyline"`
	ReceivedAt  time.Time        `json:"receivedAt"`
}

// Summary returns the first leg, which is what the page shows.
func (r Route) Summary() (Leg, bool) {
	if len(r.Legs) == 0 {
		return Leg{}, false
	}
	return r.Legs[0], true
}

// DistanceMeters sums every leg.
func (r Route) DistanceMeters() float64 {
	var total float64
	for _, l := range r.Legs {
		total += l.DistanceMeters
	}
	return total
}

// DurationSeconds sums every leg.
func (r Route) DurationSeconds() float64 {
	var total float64
	for _, l := range r.Legs {
		total += l.DurationSeconds
	}
	return total
}

// FormatDistance renders meters like the directions panel does ("850 m", "12.3 km").
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders seconds as "1 min", "25 mins" or "1 hour 5 mins".
func FormatDuration(seconds float64) string {
	minutes := int(math.Round(seconds / 60))
	if minutes < 1 {
		minutes = 1
	}
	hours, minutes := minutes/60, minutes%60

	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}

	switch {
	case hours == 0:
		return plural(minutes, "min")
	case minutes == 0:
		return plural(hours, "hour")
	default:
		return plural(hours, "hour") + " " + plural(minutes, "min")
	}
}
