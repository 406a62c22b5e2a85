// Package domain provides the core rules of the commute map: synthetic houses,
// the distance filter and the map view state.
package domain

import "commute_backend/platform/geo"

const (
	// HouseCount is the size of every generated house set.
	HouseCount = 100
	// MaxOffsetDeg bounds the per-axis offset of a house from its center.
	MaxOffsetDeg = 0.5
)

// House is a synthetic candidate residence.
type House struct {
	ID       string         `json:"id"`
	Position geo.Coordinate `json:"position"`
}

// NewHouse tags a position as a house, using its geohash as ID.
func NewHouse(pos geo.Coordinate) House {
	return House{ID: geo.Hash(pos), Position: pos}
}

// FindHouse returns the house with the given ID.
func FindHouse(houses []House, id string) (House, bool) {
	for _, h := range houses {
		if h.ID == id {
			return h, true
		}
	}
	return House{}, false
}
