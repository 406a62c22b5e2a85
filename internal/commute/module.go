// Package commute is the map view bounded context: office selection, house
// generation, distance filtering and house-to-office routes.
package commute

import (
	"commute_backend/internal/commute/domain"
	"commute_backend/internal/commute/handler"
	"commute_backend/internal/commute/repository"
	"commute_backend/internal/commute/routing"
	"commute_backend/internal/commute/service"
	"commute_backend/internal/events"
	apphttp "commute_backend/internal/http"
	"commute_backend/platform/geo"
	"commute_backend/platform/logger"
	"commute_backend/platform/validator"
)

// Module wires the commute service and its HTTP routes.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule creates the commute module.
func NewModule(store repository.SessionStore, router routing.Router, houses domain.HouseSource, bus events.Bus, center geo.Coordinate, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, router, houses, bus, center, log)
	return &Module{
		service: svc,
		handler: handler.New(svc, val),
	}
}

// Service exposes the commute service to other modules.
func (m *Module) Service() *service.Service { return m.service }

// Name returns the module identifier.
func (m *Module) Name() string { return "commute" }

// RegisterRoutes mounts the session routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/commute/sessions"))
}

// Close waits for routing calls in flight.
func (m *Module) Close() { m.service.Close() }

var _ apphttp.Module = (*Module)(nil)
