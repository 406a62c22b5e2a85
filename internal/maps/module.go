package maps

import (
	apphttp "commute_backend/internal/http"
	"commute_backend/platform/config"
	"commute_backend/platform/logger"
)

// Module wires the maps address lookup HTTP routes.
type Module struct {
	service *Service
	handler *Handler
}

func NewModule(cfg config.GeocoderConfig, log *logger.Logger) *Module {
	svc := NewService(cfg, log)
	h := NewHandler(svc)
	return &Module{service: svc, handler: h}
}

// Service exposes the geocoder to other modules.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) Name() string {
	return "maps"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/maps")
	group.GET("/address-lookup", m.handler.LookupAddress)
}

var _ apphttp.Module = (*Module)(nil)
