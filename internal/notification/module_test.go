package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"commute_backend/internal/commute/domain"
	"commute_backend/internal/events"
	apphttp "commute_backend/internal/http"
	"commute_backend/platform/apperr"
	"commute_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type testSessions struct {
	known uuid.UUID
}

func (s testSessions) EnsureSession(_ context.Context, id uuid.UUID) error {
	if id != s.known {
		return apperr.NotFound("session not found")
	}
	return nil
}

func TestHandle_IgnoresUnknownEvents(t *testing.T) {
	m := New(logger.New("development"))
	if err := m.Handle(context.Background(), events.SessionCreated{SessionID: uuid.New()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandle_RouteUpdatedWithoutClientsIsNoop(t *testing.T) {
	m := New(logger.New("development"))
	err := m.Handle(context.Background(), events.RouteUpdated{
		BaseEvent: events.NewBaseEvent(),
		SessionID: uuid.New(),
		Route:     domain.Route{HouseID: "abc"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegisterHandlers_SubscribesToBus(t *testing.T) {
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	m := New(log)
	m.RegisterHandlers(bus)

	if err := bus.PublishSync(context.Background(), events.OfficeChanged{SessionID: uuid.New()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegisterRoutes_RejectsBadAndUnknownSessions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(logger.New("development"))
	m.SetSessionChecker(testSessions{known: uuid.New()})

	engine := gin.New()
	m.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: engine.Group("/api/v1")})

	tests := []struct {
		id   string
		want int
	}{
		{id: "not-a-uuid", want: http.StatusBadRequest},
		{id: uuid.NewString(), want: http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/commute/sessions/"+tt.id+"/events", nil))
		if rec.Code != tt.want {
			t.Fatalf("id %s: expected %d, got %d", tt.id, tt.want, rec.Code)
		}
	}
}

func TestRegisterHandlers_DeliversSessionEventsInOrder(t *testing.T) {
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	m := New(log)
	m.RegisterHandlers(bus)

	var mu sync.Mutex
	var names []string
	events.SubscribeAll(bus, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, e.EventName())
		return nil
	}), events.OfficeChanged{}, events.ThresholdChanged{}, events.RouteUpdated{})

	id := uuid.New()
	bus.Publish(context.Background(), events.OfficeChanged{BaseEvent: events.NewBaseEvent(), SessionID: id})
	bus.Publish(context.Background(), events.ThresholdChanged{BaseEvent: events.NewBaseEvent(), SessionID: id, ThresholdKm: 10})
	bus.Publish(context.Background(), events.RouteUpdated{BaseEvent: events.NewBaseEvent(), SessionID: id})
	bus.Publish(context.Background(), events.ThresholdChanged{BaseEvent: events.NewBaseEvent(), SessionID: id, ThresholdKm: 20})
	bus.Wait()

	want := []string{
		"commute.office.changed",
		"commute.threshold.changed",
		"commute.route.updated",
		"commute.threshold.changed",
	}
	mu.Lock()
	defer mu.Unlock()
	if len(names) != len(want) {
		t.Fatalf("expected %d deliveries, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("delivery %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}
