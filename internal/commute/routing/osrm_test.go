package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"commute_backend/platform/config"
)

const osrmOK = `{
  "code": "Ok",
  "routes": [{
    "distance": 7900.5,
    "duration": 845.2,
    "geometry": {"type": "LineString", "coordinates": [[138.2, 36.7], [138.19, 36.68], [138.1950371, 36.6485258]]},
    "legs": [{"distance": 7900.5, "duration": 845.2, "summary": "Route 19"}]
  }],
  "waypoints": [{"name": "House St"}, {"name": "Office Ave"}]
}`

func TestOSRM_RouteParsesGeometry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/route/v1/driving/138.200000,36.700000;138.195037,36.648526" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("geometries") != "geojson" {
			t.Errorf("expected geojson geometries")
		}
		_, _ = w.Write([]byte(osrmOK))
	}))
	defer srv.Close()

	route, err := NewOSRM(srv.Client(), srv.URL).Route(context.Background(), testRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route.Polyline) != 3 || route.Polyline[0].Lat != 36.7 || route.Polyline[0].Lng != 138.2 {
		t.Fatalf("expected lat/lng swapped from geojson, got %v", route.Polyline)
	}
	leg, _ := route.Summary()
	if leg.DistanceText != "7.9 km" || leg.DurationText != "14 mins" {
		t.Fatalf("unexpected leg texts %+v", leg)
	}
	if leg.StartAddress != "House St" || leg.EndAddress != "Office Ave" {
		t.Fatalf("expected waypoint names, got %+v", leg)
	}
}

func TestOSRM_NoRouteCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"NoRoute","message":"Impossible route between points"}`))
	}))
	defer srv.Close()

	_, err := NewOSRM(srv.Client(), srv.URL).Route(context.Background(), testRequest)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != "NoRoute" {
		t.Fatalf("expected NoRoute status error, got %v", err)
	}
}

func TestOSRM_NonJSONFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	if _, err := NewOSRM(srv.Client(), srv.URL).Route(context.Background(), testRequest); err == nil {
		t.Fatalf("expected error for non-JSON 502")
	}
}

type routingConfig struct {
	provider string
}

func (c routingConfig) GetRoutingProvider() string       { return c.provider }
func (c routingConfig) GetGoogleMapsAPIKey() string      { return "k" }
func (c routingConfig) GetGoogleDirectionsURL() string   { return "http://google.invalid" }
func (c routingConfig) GetOSRMURL() string               { return "http://osrm.invalid" }
func (c routingConfig) GetRoutingTimeout() time.Duration { return time.Second }

func TestNew_SelectsProvider(t *testing.T) {
	for _, provider := range []string{config.RoutingProviderGoogle, config.RoutingProviderOSRM} {
		r, err := New(routingConfig{provider: provider})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Name() != provider {
			t.Fatalf("expected %s router, got %s", provider, r.Name())
		}
	}
	if _, err := New(routingConfig{provider: "bing"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
