package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"commute_backend/internal/commute/domain"
	"commute_backend/platform/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const providerOSRM = "osrm"

// OSRM calls an OSRM route service (project-osrm.org or self-hosted).
type OSRM struct {
	client  *http.Client
	baseURL string
}

// NewOSRM creates an OSRM client. baseURL has no trailing slash.
func NewOSRM(client *http.Client, baseURL string) *OSRM {
	return &OSRM{client: client, baseURL: baseURL}
}

func (o *OSRM) Name() string { return providerOSRM }

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64           `json:"distance"`
		Duration float64           `json:"duration"`
		Geometry *geojson.Geometry `json:"geometry"`
		Legs     []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Summary  string  `json:"summary"`
		} `json:"legs"`
	} `json:"routes"`
	Waypoints []struct {
		Name string `json:"name"`
	} `json:"waypoints"`
}

var osrmProfiles = map[domain.TravelMode]string{
	domain.TravelModeDriving: "driving",
}

func osrmProfile(mode domain.TravelMode) string {
	if profile, ok := osrmProfiles[mode]; ok {
		return profile
	}
	return "driving"
}

// Route requests a full geojson route from the house to the office.
func (o *OSRM) Route(ctx context.Context, req domain.RouteRequest) (domain.Route, error) {
	reqURL := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		o.baseURL,
		osrmProfile(req.Mode),
		req.Origin.Lng, req.Origin.Lat,
		req.Destination.Lng, req.Destination.Lat,
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Route{}, err
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return domain.Route{}, fmt.Errorf("osrm request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// OSRM reports NoRoute and friends as 400 with a JSON body.
	var payload osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if resp.StatusCode != http.StatusOK {
			return domain.Route{}, fmt.Errorf("osrm upstream error: %d", resp.StatusCode)
		}
		return domain.Route{}, fmt.Errorf("decode osrm payload: %w", err)
	}
	if payload.Code != "Ok" {
		return domain.Route{}, &StatusError{Provider: providerOSRM, Status: payload.Code, Message: payload.Message}
	}
	if len(payload.Routes) == 0 {
		return domain.Route{}, ErrNoRoute
	}

	best := payload.Routes[0]
	route := newRoute(req, providerOSRM)

	var startName, endName string
	if n := len(payload.Waypoints); n > 0 {
		startName, endName = payload.Waypoints[0].Name, payload.Waypoints[n-1].Name
	}
	for i, leg := range best.Legs {
		l := domain.Leg{
			DistanceMeters:  leg.Distance,
			DurationSeconds: leg.Duration,
			DistanceText:    domain.FormatDistance(leg.Distance),
			DurationText:    domain.FormatDuration(leg.Duration),
		}
		if i == 0 {
			l.StartAddress = startName
		}
		if i == len(best.Legs)-1 {
			l.EndAddress = endName
		}
		route.Legs = append(route.Legs, l)
	}
	if len(route.Legs) == 0 {
		route.Legs = []domain.Leg{{
			DistanceMeters:  best.Distance,
			DurationSeconds: best.Duration,
			DistanceText:    domain.FormatDistance(best.Distance),
			DurationText:    domain.FormatDuration(best.Duration),
			StartAddress:    startName,
			EndAddress:      endName,
		}}
	}

	if best.Geometry != nil {
		if line, ok := best.Geometry.Coordinates.(orb.LineString); ok {
			route.Polyline = make([]geo.Coordinate, 0, len(line))
			for _, p := range line {
				route.Polyline = append(route.Polyline, geo.Coordinate{Lat: p.Lat(), Lng: p.Lon()})
			}
		}
	}
	return route, nil
}
