package domain

// Band is a radius ring drawn around the office.
type Band struct {
	RadiusKm      float64 `json:"radiusKm"`
	Color         string  `json:"color"`
	ZIndex        int     `json:"zIndex"`
	FillOpacity   float64 `json:"fillOpacity"`
	StrokeOpacity float64 `json:"strokeOpacity"`
	StrokeWeight  int     `json:"strokeWeight"`
}

// Bands are ordered innermost first.
var Bands = []Band{
	{RadiusKm: 15, Color: "#8BC34A", ZIndex: 3, FillOpacity: 0.05, StrokeOpacity: 0.5, StrokeWeight: 2},
	{RadiusKm: 30, Color: "#FBC02D", ZIndex: 2, FillOpacity: 0.05, StrokeOpacity: 0.5, StrokeWeight: 2},
	{RadiusKm: 45, Color: "#FF5252", ZIndex: 1, FillOpacity: 0.05, StrokeOpacity: 0.5, StrokeWeight: 2},
}

// RouteStyle is how the route polyline is drawn.
type RouteStyle struct {
	Color        string `json:"color"`
	StrokeWeight int    `json:"strokeWeight"`
	ZIndex       int    `json:"zIndex"`
}

// DefaultRouteStyle keeps the route above every band.
var DefaultRouteStyle = RouteStyle{Color: "#1976d2", StrokeWeight: 5, ZIndex: 50}

// BandFor returns the innermost band containing distanceKm.
func BandFor(distanceKm float64) (Band, bool) {
	for _, b := range Bands {
		if distanceKm <= b.RadiusKm {
			return b, true
		}
	}
	return Band{}, false
}
