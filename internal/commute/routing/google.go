package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"commute_backend/internal/commute/domain"
	"commute_backend/platform/geo"

	"github.com/twpayne/go-polyline"
)

const providerGoogle = "google"

// Google calls the Google Directions web service.
type Google struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewGoogle creates a Directions client.
func NewGoogle(client *http.Client, baseURL, apiKey string) *Google {
	return &Google{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (g *Google) Name() string { return providerGoogle }

type googleLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l googleLatLng) coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: l.Lat, Lng: l.Lng}
}

type googleTextValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type googleStep struct {
	StartLocation googleLatLng `json:"start_location"`
	EndLocation   googleLatLng `json:"end_location"`
}

type googleLeg struct {
	Distance      googleTextValue `json:"distance"`
	Duration      googleTextValue `json:"duration"`
	StartAddress  string          `json:"start_address"`
	EndAddress    string          `json:"end_address"`
	StartLocation googleLatLng    `json:"start_location"`
	EndLocation   googleLatLng    `json:"end_location"`
	Steps         []googleStep    `json:"steps"`
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs             []googleLeg `json:"legs"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
	} `json:"routes"`
}

// Route requests driving directions from the house to the office.
func (g *Google) Route(ctx context.Context, req domain.RouteRequest) (domain.Route, error) {
	params := url.Values{}
	params.Set("origin", req.Origin.String())
	params.Set("destination", req.Destination.String())
	params.Set("mode", strings.ToLower(string(req.Mode)))
	params.Set("key", g.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Route{}, err
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return domain.Route{}, fmt.Errorf("directions request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return domain.Route{}, fmt.Errorf("directions upstream error: %d", resp.StatusCode)
	}

	var payload googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Route{}, fmt.Errorf("decode directions payload: %w", err)
	}
	if payload.Status != "OK" {
		return domain.Route{}, &StatusError{Provider: providerGoogle, Status: payload.Status, Message: payload.ErrorMessage}
	}
	if len(payload.Routes) == 0 || len(payload.Routes[0].Legs) == 0 {
		return domain.Route{}, ErrNoRoute
	}

	best := payload.Routes[0]
	route := newRoute(req, providerGoogle)
	for _, leg := range best.Legs {
		route.Legs = append(route.Legs, domain.Leg{
			DistanceMeters:  leg.Distance.Value,
			DurationSeconds: leg.Duration.Value,
			DistanceText:    leg.Distance.Text,
			DurationText:    leg.Duration.Text,
			StartAddress:    leg.StartAddress,
			EndAddress:      leg.EndAddress,
		})
	}

	path, err := decodeOverview(best.OverviewPolyline.Points)
	if err != nil || len(path) < 2 {
		// Fall back to the step endpoints when the overview is missing or corrupt.
		path = nil
		for _, leg := range best.Legs {
			path = appendLegPath(path, leg)
		}
	}
	route.Polyline = path
	return route, nil
}

// decodeOverview decodes an encoded polyline (precision 1e5, lat first).
func decodeOverview(points string) ([]geo.Coordinate, error) {
	if points == "" {
		return nil, nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(points))
	if err != nil {
		return nil, fmt.Errorf("decode overview polyline: %w", err)
	}
	path := make([]geo.Coordinate, 0, len(coords))
	for _, c := range coords {
		path = append(path, geo.Coordinate{Lat: c[0], Lng: c[1]})
	}
	return path, nil
}

// appendLegPath traces a leg through its step endpoints.
func appendLegPath(path []geo.Coordinate, leg googleLeg) []geo.Coordinate {
	if len(leg.Steps) == 0 {
		return append(path, leg.StartLocation.coordinate(), leg.EndLocation.coordinate())
	}
	path = append(path, leg.Steps[0].StartLocation.coordinate())
	for _, step := range leg.Steps {
		path = append(path, step.EndLocation.coordinate())
	}
	return path
}
