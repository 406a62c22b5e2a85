// Package routing requests driving routes from third-party providers.
package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"commute_backend/internal/commute/domain"
	"commute_backend/platform/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Router computes a route for a request. Implementations must be safe for
// concurrent use.
type Router interface {
	Name() string
	Route(ctx context.Context, req domain.RouteRequest) (domain.Route, error)
}

// ErrNoRoute is returned when the provider answered OK without any route.
var ErrNoRoute = errors.New("no route found")

// StatusError is a provider-level failure status (anything but OK).
type StatusError struct {
	Provider string
	Status   string
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned status %s: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s returned status %s", e.Provider, e.Status)
}

// New returns the router selected by ROUTING_PROVIDER.
func New(cfg config.RoutingConfig) (Router, error) {
	client := newHTTPClient(cfg.GetRoutingTimeout())
	switch cfg.GetRoutingProvider() {
	case config.RoutingProviderGoogle:
		return NewGoogle(client, cfg.GetGoogleDirectionsURL(), cfg.GetGoogleMapsAPIKey()), nil
	case config.RoutingProviderOSRM:
		return NewOSRM(client, cfg.GetOSRMURL()), nil
	default:
		return nil, fmt.Errorf("unknown routing provider %q", cfg.GetRoutingProvider())
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func newRoute(req domain.RouteRequest, provider string) domain.Route {
	return domain.Route{
		Token:       req.Token,
		HouseID:     req.HouseID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Mode:        req.Mode,
		Provider:    provider,
		ReceivedAt:  time.Now().UTC(),
	}
}
