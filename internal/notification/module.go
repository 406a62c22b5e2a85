// Package notification pushes domain events to connected map clients.
// This module subscribes to events and inverts the dependency: the commute
// module never needs to know about open streams.
package notification

import (
	"context"

	"commute_backend/internal/events"
	apphttp "commute_backend/internal/http"
	"commute_backend/internal/notification/sse"
	"commute_backend/platform/apperr"
	"commute_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionChecker reports whether a map view session exists.
type SessionChecker interface {
	EnsureSession(ctx context.Context, id uuid.UUID) error
}

// Module handles all notification-related event subscriptions.
type Module struct {
	log      *logger.Logger
	sse      *sse.Service
	sessions SessionChecker
}

// New creates the module with its own SSE service.
func New(log *logger.Logger) *Module {
	return &Module{
		log: log,
		sse: sse.New(log),
	}
}

func (m *Module) Name() string { return "notification" }

// SetSessionChecker injects the lookup used to reject streams for unknown sessions.
func (m *Module) SetSessionChecker(checker SessionChecker) { m.sessions = checker }

// SSE exposes the stream service.
func (m *Module) SSE() *sse.Service { return m.sse }

// RegisterRoutes registers the event stream route.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/commute/sessions/:id/events", m.sse.Handler(m.resolveSession))
}

func (m *Module) resolveSession(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.BadRequest("invalid session id")
	}
	if m.sessions != nil {
		if err := m.sessions.EnsureSession(c.Request.Context(), id); err != nil {
			return uuid.Nil, err
		}
	}
	return id, nil
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	events.SubscribeAll(bus, m,
		events.OfficeChanged{},
		events.ThresholdChanged{},
		events.RouteUpdated{},
		events.SessionDeleted{},
	)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate SSE push.
func (m *Module) Handle(_ context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.OfficeChanged:
		m.sse.Publish(e.SessionID, sse.Event{
			Type: sse.EventOfficeChanged,
			Data: gin.H{"office": e.Office, "label": e.Label, "houseCount": e.HouseCount},
		})
	case events.ThresholdChanged:
		m.sse.Publish(e.SessionID, sse.Event{
			Type: sse.EventThresholdChanged,
			Data: gin.H{"thresholdKm": e.ThresholdKm, "visibleCount": e.VisibleCount},
		})
	case events.RouteUpdated:
		m.sse.Publish(e.SessionID, sse.Event{
			Type: sse.EventRouteUpdated,
			Data: e.Route,
		})
	case events.SessionDeleted:
		m.sse.Publish(e.SessionID, sse.Event{
			Type:    sse.EventSessionDeleted,
			Message: "session deleted",
		})
	default:
		m.log.Debug("notification module ignored event", "event", event.EventName())
	}
	return nil
}

// Close ends every open stream.
func (m *Module) Close() {
	m.sse.Close()
}

var _ apphttp.Module = (*Module)(nil)
