package domain

import "commute_backend/platform/geo"

// BypassThresholdKm is the threshold below which the filter returns every
// candidate unchanged.
const BypassThresholdKm = 10

// Filter returns the candidates within thresholdKm of origin.
//
// A nil origin yields an empty result. With an origin and a threshold under
// BypassThresholdKm the full candidate set is returned. Otherwise a house is
// kept when its distance, rounded to two decimals, is <= thresholdKm, so a
// house up to 0.005 km past the threshold still qualifies.
//
// candidates is never modified; the result is always a fresh slice.
func Filter(origin *geo.Coordinate, candidates []House, thresholdKm float64) []House {
	if origin == nil {
		return []House{}
	}

	if thresholdKm < BypassThresholdKm {
		out := make([]House, len(candidates))
		copy(out, candidates)
		return out
	}

	out := make([]House, 0, len(candidates))
	for _, c := range candidates {
		if geo.RoundKm(geo.DistanceKm(*origin, c.Position)) <= thresholdKm {
			out = append(out, c)
		}
	}
	return out
}

// PlacedHouse is a house with its rounded straight-line distance to the office.
type PlacedHouse struct {
	House
	DistanceKm float64 `json:"distanceKm"`
}

// Place annotates houses with their distance from origin.
func Place(origin geo.Coordinate, houses []House) []PlacedHouse {
	out := make([]PlacedHouse, 0, len(houses))
	for _, h := range houses {
		out = append(out, PlacedHouse{
			House:      h,
			DistanceKm: geo.RoundKm(geo.DistanceKm(origin, h.Position)),
		})
	}
	return out
}
