package transport

import (
	"time"

	"commute_backend/internal/commute/domain"
	"commute_backend/platform/geo"

	"github.com/google/uuid"
)

// SetOfficeRequest selects the office either by coordinate or by address.
// Address wins when both are given.
type SetOfficeRequest struct {
	Lat     *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng     *float64 `json:"lng" validate:"omitempty,longitude"`
	Address string   `json:"address" validate:"omitempty,min=3,max=200"`
	Label   string   `json:"label" validate:"max=200"`
}

// SetThresholdRequest is a slider change.
type SetThresholdRequest struct {
	Km *int `json:"km" validate:"required,slider"`
}

// MapResponse is the initial map viewport.
type MapResponse struct {
	Center geo.Coordinate `json:"center"`
	Zoom   int            `json:"zoom"`
}

// SliderResponse describes the threshold control.
type SliderResponse struct {
	Min   int   `json:"min"`
	Max   int   `json:"max"`
	Step  int   `json:"step"`
	Marks []int `json:"marks"`
}

// HouseResponse is one marker. DistanceKm is omitted while no office is set.
type HouseResponse struct {
	ID         string         `json:"id"`
	Position   geo.Coordinate `json:"position"`
	DistanceKm *float64       `json:"distanceKm,omitempty"`
}

// HousesResponse lists the visible markers.
type HousesResponse struct {
	ThresholdKm int             `json:"thresholdKm"`
	Total       int             `json:"total"`
	Visible     int             `json:"visible"`
	Houses      []HouseResponse `json:"houses"`
}

// RouteResponse is the stored route with its first-leg summary.
type RouteResponse struct {
	Token           uint64            `json:"token"`
	HouseID         string            `json:"houseId"`
	Origin          geo.Coordinate    `json:"origin"`
	Destination     geo.Coordinate    `json:"destination"`
	Mode            domain.TravelMode `json:"mode"`
	Provider        string            `json:"provider"`
	DistanceMeters  float64           `json:"distanceMeters"`
	DurationSeconds float64           `json:"durationSeconds"`
	DistanceText    string            `json:"distanceText"`
	DurationText    string            `json:"durationText"`
	StartAddress    string            `json:"startAddress,omitempty"`
	EndAddress      string            `json:"endAddress,omitempty"`
	Legs            []domain.Leg      `json:"legs"`
	Polyline        []geo.Coordinate  `json:"polyline"`
	Style           domain.RouteStyle `json:"style"`
	ReceivedAt      time.Time         `json:"receivedAt"`
}

// RouteRequestedResponse is returned when a marker click issued a routing call.
type RouteRequestedResponse struct {
	Token   uint64 `json:"token"`
	HouseID string `json:"houseId"`
}

// SessionResponse is the full state of a map view.
type SessionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Map         MapResponse     `json:"map"`
	Office      *geo.Coordinate `json:"office,omitempty"`
	OfficeLabel string          `json:"officeLabel,omitempty"`
	ThresholdKm int             `json:"thresholdKm"`
	Slider      SliderResponse  `json:"slider"`
	HouseCount  int             `json:"houseCount"`
	Houses      []HouseResponse `json:"houses"`
	Bands       []domain.Band   `json:"bands"`
	Route       *RouteResponse  `json:"route,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
