package domain

import (
	"commute_backend/platform/apperr"
	"commute_backend/platform/geo"
	"commute_backend/platform/validator"
)

// DefaultZoom is the initial map zoom level.
const DefaultZoom = 15

// HouseSource produces a house set around a center.
type HouseSource interface {
	Generate(center geo.Coordinate) []House
}

// View is the state of one map view. Derived values (visible houses, bands)
// are computed on read and never stored.
type View struct {
	Center      geo.Coordinate  `json:"center"`
	Zoom        int             `json:"zoom"`
	Office      *geo.Coordinate `json:"office,omitempty"`
	OfficeLabel string          `json:"officeLabel,omitempty"`
	Houses      []House         `json:"houses"`
	ThresholdKm int             `json:"thresholdKm"`
	Route       *Route          `json:"route,omitempty"`
	RouteToken  uint64          `json:"routeToken"`
}

// NewView returns a view with houses scattered around center and no office.
func NewView(center geo.Coordinate, houses HouseSource) View {
	return View{
		Center: center,
		Zoom:   DefaultZoom,
		Houses: houses.Generate(center),
	}
}

// SetOffice moves the office and regenerates the houses around it.
// Route requests issued before the move become stale; the current route stays
// until a newer one arrives.
func (v *View) SetOffice(office geo.Coordinate, label string, houses HouseSource) error {
	if !office.Valid() {
		return apperr.Validation("office coordinate out of range")
	}
	o := office
	v.Office = &o
	v.OfficeLabel = label
	v.Center = office
	v.Houses = houses.Generate(office)
	v.RouteToken++
	return nil
}

// SetThreshold applies a slider value.
func (v *View) SetThreshold(km int) error {
	if !validator.IsSliderValue(km) {
		return apperr.Validation("threshold must be 0-50 in steps of 10").
			WithDetails(map[string]int{"min": validator.SliderMinKm, "max": validator.SliderMaxKm, "step": validator.SliderStepKm})
	}
	v.ThresholdKm = km
	return nil
}

// Visible returns the houses that pass the distance filter.
func (v View) Visible() []House {
	return Filter(v.Office, v.Houses, float64(v.ThresholdKm))
}

// ActiveBands returns the radius bands, or nil while no office is set.
func (v View) ActiveBands() []Band {
	if v.Office == nil {
		return nil
	}
	return Bands
}

// BeginRoute issues a new token and the request for a route from the house to
// the office. Only houses that pass the distance filter can be routed.
// Every earlier token becomes stale.
func (v *View) BeginRoute(houseID string) (RouteRequest, error) {
	if v.Office == nil {
		return RouteRequest{}, apperr.Conflict("office not set")
	}
	house, ok := FindHouse(v.Visible(), houseID)
	if !ok {
		if _, exists := FindHouse(v.Houses, houseID); exists {
			return RouteRequest{}, apperr.NotFound("house hidden by the distance filter")
		}
		return RouteRequest{}, apperr.NotFound("house not found")
	}

	v.RouteToken++
	return RouteRequest{
		Token:       v.RouteToken,
		HouseID:     house.ID,
		Origin:      house.Position,
		Destination: *v.Office,
		Mode:        TravelModeDriving,
	}, nil
}

// ApplyRoute stores route when token is still the latest issued one.
// It reports whether the route was stored.
func (v *View) ApplyRoute(token uint64, route Route) bool {
	if token == 0 || token != v.RouteToken {
		return false
	}
	route.Token = token
	v.Route = &route
	return true
}
