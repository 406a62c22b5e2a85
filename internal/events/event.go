// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"commute_backend/internal/commute/domain"
	"commute_backend/platform/events"
	"commute_backend/platform/geo"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent = events.NewBaseEvent
	SubscribeAll = events.SubscribeAll
)

// =============================================================================
// Commute Domain Events
// =============================================================================

// SessionCreated is published when a new map view is opened.
type SessionCreated struct {
	BaseEvent
	SessionID uuid.UUID      `json:"sessionId"`
	Center    geo.Coordinate `json:"center"`
}

func (e SessionCreated) EventName() string { return "commute.session.created" }

// SessionDeleted is published when a map view is dropped.
type SessionDeleted struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
}

func (e SessionDeleted) EventName() string { return "commute.session.deleted" }

// OfficeChanged is published when the office moves and houses were regenerated.
type OfficeChanged struct {
	BaseEvent
	SessionID  uuid.UUID      `json:"sessionId"`
	Office     geo.Coordinate `json:"office"`
	Label      string         `json:"label,omitempty"`
	HouseCount int            `json:"houseCount"`
}

func (e OfficeChanged) EventName() string { return "commute.office.changed" }

// ThresholdChanged is published when the slider moves.
type ThresholdChanged struct {
	BaseEvent
	SessionID    uuid.UUID `json:"sessionId"`
	ThresholdKm  int       `json:"thresholdKm"`
	VisibleCount int       `json:"visibleCount"`
}

func (e ThresholdChanged) EventName() string { return "commute.threshold.changed" }

// RouteRequested is published when a marker click issued a routing call.
type RouteRequested struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	HouseID   string    `json:"houseId"`
	Token     uint64    `json:"token"`
}

func (e RouteRequested) EventName() string { return "commute.route.requested" }

// RouteUpdated is published when a routing result replaced the stored route.
type RouteUpdated struct {
	BaseEvent
	SessionID uuid.UUID    `json:"sessionId"`
	Route     domain.Route `json:"route"`
}

func (e RouteUpdated) EventName() string { return "commute.route.updated" }

// RouteFailed is published when a routing call failed or its result was stale.
// The stored route is unchanged in both cases.
type RouteFailed struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	HouseID   string    `json:"houseId"`
	Token     uint64    `json:"token"`
	Stale     bool      `json:"stale"`
	Reason    string    `json:"reason"`
}

func (e RouteFailed) EventName() string { return "commute.route.failed" }
