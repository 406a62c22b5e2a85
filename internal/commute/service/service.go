// Package service implements the commute map use cases on top of the session
// store and the routing provider.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"commute_backend/internal/commute/domain"
	"commute_backend/internal/commute/repository"
	"commute_backend/internal/commute/routing"
	"commute_backend/internal/commute/transport"
	"commute_backend/internal/events"
	"commute_backend/platform/apperr"
	"commute_backend/platform/geo"
	"commute_backend/platform/logger"
	"commute_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Geocoder resolves a free-text address to a coordinate and display label.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Coordinate, string, error)
}

var errStaleRoute = errors.New("route superseded by a newer request")

// Service provides business logic for map view sessions.
type Service struct {
	store    repository.SessionStore
	router   routing.Router
	houses   domain.HouseSource
	geocoder Geocoder
	bus      events.Bus
	log      *logger.Logger
	center   geo.Coordinate
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new commute service. center is where houses are scattered
// until an office is chosen.
func New(store repository.SessionStore, router routing.Router, houses domain.HouseSource, bus events.Bus, center geo.Coordinate, log *logger.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		store:  store,
		router: router,
		houses: houses,
		bus:    bus,
		log:    log,
		center: center,
		now:    func() time.Time { return time.Now().UTC() },
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetGeocoder enables office selection by address.
func (s *Service) SetGeocoder(g Geocoder) { s.geocoder = g }

// CreateSession opens a new map view around the default center.
func (s *Service) CreateSession(ctx context.Context) (transport.SessionResponse, error) {
	session := domain.NewSession(domain.NewView(s.center, s.houses), s.now())
	if err := s.store.Save(ctx, session); err != nil {
		return transport.SessionResponse{}, s.storeError("save session", err)
	}

	s.bus.Publish(ctx, events.SessionCreated{
		BaseEvent: events.NewBaseEvent(),
		SessionID: session.ID,
		Center:    session.View.Center,
	})
	return transport.ToSession(session), nil
}

// GetSession returns the full state of a session.
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (transport.SessionResponse, error) {
	session, err := s.Snapshot(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	return transport.ToSession(session), nil
}

// Snapshot returns a copy of the stored session.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.storeError("get session", err)
	}
	return session, nil
}

// EnsureSession returns a not found error for unknown sessions.
func (s *Service) EnsureSession(ctx context.Context, id uuid.UUID) error {
	_, err := s.Snapshot(ctx, id)
	return err
}

// DeleteSession drops a session.
func (s *Service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeError("delete session", err)
	}
	s.bus.Publish(ctx, events.SessionDeleted{BaseEvent: events.NewBaseEvent(), SessionID: id})
	return nil
}

// SetOffice moves the office to a coordinate or a geocoded address and
// regenerates the houses around it.
func (s *Service) SetOffice(ctx context.Context, id uuid.UUID, req transport.SetOfficeRequest) (transport.SessionResponse, error) {
	office, label, err := s.resolveOffice(ctx, req)
	if err != nil {
		return transport.SessionResponse{}, err
	}

	session, err := s.store.Update(ctx, id, func(sess *domain.Session) error {
		if err := sess.View.SetOffice(office, label, s.houses); err != nil {
			return err
		}
		sess.Touch(s.now())
		return nil
	})
	if err != nil {
		return transport.SessionResponse{}, s.storeError("set office", err)
	}

	s.bus.Publish(ctx, events.OfficeChanged{
		BaseEvent:  events.NewBaseEvent(),
		SessionID:  id,
		Office:     office,
		Label:      label,
		HouseCount: len(session.View.Houses),
	})
	return transport.ToSession(session), nil
}

func (s *Service) resolveOffice(ctx context.Context, req transport.SetOfficeRequest) (geo.Coordinate, string, error) {
	if req.Address != "" {
		if s.geocoder == nil {
			return geo.Coordinate{}, "", apperr.Unavailable("address lookup not configured", nil)
		}
		office, label, err := s.geocoder.Geocode(ctx, req.Address)
		if err != nil {
			return geo.Coordinate{}, "", err
		}
		if req.Label != "" {
			label = req.Label
		}
		return office, sanitize.Label(label), nil
	}
	if req.Lat == nil || req.Lng == nil {
		return geo.Coordinate{}, "", apperr.Validation("either lat and lng or address is required")
	}
	return geo.Coordinate{Lat: *req.Lat, Lng: *req.Lng}, sanitize.Label(req.Label), nil
}

// SetThreshold applies a slider change.
func (s *Service) SetThreshold(ctx context.Context, id uuid.UUID, km int) (transport.HousesResponse, error) {
	session, err := s.store.Update(ctx, id, func(sess *domain.Session) error {
		if err := sess.View.SetThreshold(km); err != nil {
			return err
		}
		sess.Touch(s.now())
		return nil
	})
	if err != nil {
		return transport.HousesResponse{}, s.storeError("set threshold", err)
	}

	houses := transport.ToHouses(session.View)
	s.bus.Publish(ctx, events.ThresholdChanged{
		BaseEvent:    events.NewBaseEvent(),
		SessionID:    id,
		ThresholdKm:  km,
		VisibleCount: houses.Visible,
	})
	return houses, nil
}

// VisibleHouses returns the houses that pass the current filter.
func (s *Service) VisibleHouses(ctx context.Context, id uuid.UUID) (transport.HousesResponse, error) {
	session, err := s.Snapshot(ctx, id)
	if err != nil {
		return transport.HousesResponse{}, err
	}
	return transport.ToHouses(session.View), nil
}

// GetRoute returns the current route, or nil when none has arrived yet.
func (s *Service) GetRoute(ctx context.Context, id uuid.UUID) (*transport.RouteResponse, error) {
	session, err := s.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return transport.ToRoute(session.View.Route), nil
}

// RequestRoute issues a new token for houseID and starts the routing call in
// the background. The stored route only changes if this request is still the
// latest one when its result arrives.
func (s *Service) RequestRoute(ctx context.Context, id uuid.UUID, houseID string) (transport.RouteRequestedResponse, error) {
	var req domain.RouteRequest
	_, err := s.store.Update(ctx, id, func(sess *domain.Session) error {
		r, err := sess.View.BeginRoute(houseID)
		if err != nil {
			return err
		}
		req = r
		sess.Touch(s.now())
		return nil
	})
	if err != nil {
		return transport.RouteRequestedResponse{}, s.storeError("begin route", err)
	}

	s.bus.Publish(ctx, events.RouteRequested{
		BaseEvent: events.NewBaseEvent(),
		SessionID: id,
		HouseID:   req.HouseID,
		Token:     req.Token,
	})

	log := s.log.WithContext(ctx).WithSessionID(id.String())
	s.wg.Add(1)
	go s.runRoute(id, req, log)

	return transport.RouteRequestedResponse{Token: req.Token, HouseID: req.HouseID}, nil
}

func (s *Service) runRoute(id uuid.UUID, req domain.RouteRequest, log *logger.Logger) {
	defer s.wg.Done()

	route, err := s.router.Route(s.ctx, req)
	if err != nil {
		log.UpstreamError(s.router.Name(), "route", err)
		s.routeFailed(id, req, false, err)
		return
	}
	route.Token = req.Token
	route.ReceivedAt = s.now()

	_, err = s.store.Update(s.ctx, id, func(sess *domain.Session) error {
		if !sess.View.ApplyRoute(req.Token, route) {
			return errStaleRoute
		}
		sess.Touch(s.now())
		return nil
	})
	switch {
	case errors.Is(err, errStaleRoute):
		log.Info("discarded stale route", slog.String("house_id", req.HouseID), slog.Uint64("token", req.Token))
		s.routeFailed(id, req, true, err)
		return
	case err != nil:
		log.StoreError("apply route", err)
		s.routeFailed(id, req, false, err)
		return
	}

	s.bus.Publish(s.ctx, events.RouteUpdated{
		BaseEvent: events.NewBaseEvent(),
		SessionID: id,
		Route:     route,
	})
}

func (s *Service) routeFailed(id uuid.UUID, req domain.RouteRequest, stale bool, err error) {
	s.bus.Publish(s.ctx, events.RouteFailed{
		BaseEvent: events.NewBaseEvent(),
		SessionID: id,
		HouseID:   req.HouseID,
		Token:     req.Token,
		Stale:     stale,
		Reason:    err.Error(),
	})
}

// Wait blocks until every routing call in flight has finished.
func (s *Service) Wait() { s.wg.Wait() }

// Close cancels routing calls in flight and waits for them.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

// Ping checks the session store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) storeError(op string, err error) error {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("session not found")
	case errors.Is(err, repository.ErrConflict):
		return apperr.Conflict("session was modified concurrently, retry")
	default:
		s.log.StoreError(op, err)
		return apperr.Internal("session store unavailable").WithOp(op)
	}
}
