package transport

import (
	"commute_backend/internal/commute/domain"
	"commute_backend/platform/validator"
)

// Slider is the fixed description of the threshold control.
var Slider = SliderResponse{
	Min:   validator.SliderMinKm,
	Max:   validator.SliderMaxKm,
	Step:  validator.SliderStepKm,
	Marks: []int{validator.SliderMinKm, validator.SliderMaxKm},
}

// ToHouses maps the visible houses of a view.
func ToHouses(v domain.View) HousesResponse {
	visible := v.Visible()
	out := HousesResponse{
		ThresholdKm: v.ThresholdKm,
		Total:       len(v.Houses),
		Visible:     len(visible),
		Houses:      make([]HouseResponse, 0, len(visible)),
	}
	if v.Office == nil {
		return out
	}
	for _, h := range domain.Place(*v.Office, visible) {
		d := h.DistanceKm
		out.Houses = append(out.Houses, HouseResponse{ID: h.ID, Position: h.Position, DistanceKm: &d})
	}
	return out
}

// ToRoute maps a stored route, or returns nil.
func ToRoute(r *domain.Route) *RouteResponse {
	if r == nil {
		return nil
	}
	out := &RouteResponse{
		Token:           r.Token,
		HouseID:         r.HouseID,
		Origin:          r.Origin,
		Destination:     r.Destination,
		Mode:            r.Mode,
		Provider:        r.Provider,
		DistanceMeters:  r.DistanceMeters(),
		DurationSeconds: r.DurationSeconds(),
		Legs:            r.Legs,
		Polyline:        r.Polyline,
		Style:           domain.DefaultRouteStyle,
		ReceivedAt:      r.ReceivedAt,
	}
	if leg, ok := r.Summary(); ok {
		out.DistanceText = leg.DistanceText
		out.DurationText = leg.DurationText
		out.StartAddress = leg.StartAddress
		out.EndAddress = leg.EndAddress
	}
	return out
}

// ToSession maps the full state of a session.
func ToSession(s *domain.Session) SessionResponse {
	houses := ToHouses(s.View)
	bands := s.View.ActiveBands()
	if bands == nil {
		bands = []domain.Band{}
	}
	return SessionResponse{
		ID:          s.ID,
		Map:         MapResponse{Center: s.View.Center, Zoom: s.View.Zoom},
		Office:      s.View.Office,
		OfficeLabel: s.View.OfficeLabel,
		ThresholdKm: s.View.ThresholdKm,
		Slider:      Slider,
		HouseCount:  len(s.View.Houses),
		Houses:      houses.Houses,
		Bands:       bands,
		Route:       ToRoute(s.View.Route),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
