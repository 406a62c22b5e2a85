// Package handler exposes the commute map over HTTP.
package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"commute_backend/internal/commute/export"
	"commute_backend/internal/commute/overlay"
	"commute_backend/internal/commute/service"
	"commute_backend/internal/commute/transport"
	"commute_backend/platform/httpkit"
	"commute_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid session id"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handler handles HTTP requests for map view sessions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new commute handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the session routes on group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.DELETE("/:id", h.Delete)
	group.PUT("/:id/office", h.SetOffice)
	group.PUT("/:id/threshold", h.SetThreshold)
	group.GET("/:id/houses", h.Houses)
	group.POST("/:id/houses/:houseId/route", h.RequestRoute)
	group.GET("/:id/route", h.Route)
	group.GET("/:id/geojson", h.GeoJSON)
	group.GET("/:id/export.xlsx", h.Export)
}

// Create opens a new map view around the default center.
// POST /api/v1/commute/sessions
func (h *Handler) Create(c *gin.Context) {
	result, err := h.svc.CreateSession(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Get returns the full state of a map view.
// GET /api/v1/commute/sessions/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetSession(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete drops a map view.
// DELETE /api/v1/commute/sessions/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteSession(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

// SetOffice moves the office and regenerates the houses.
// PUT /api/v1/commute/sessions/:id/office
func (h *Handler) SetOffice(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req transport.SetOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return
	}

	result, err := h.svc.SetOffice(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetThreshold applies a slider change and returns the visible houses.
// PUT /api/v1/commute/sessions/:id/threshold
func (h *Handler) SetThreshold(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req transport.SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return
	}

	result, err := h.svc.SetThreshold(c.Request.Context(), id, *req.Km)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Houses returns the houses that pass the current filter.
// GET /api/v1/commute/sessions/:id/houses
func (h *Handler) Houses(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.svc.VisibleHouses(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RequestRoute starts a routing call for a marker click.
// POST /api/v1/commute/sessions/:id/houses/:houseId/route
func (h *Handler) RequestRoute(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.svc.RequestRoute(c.Request.Context(), id, c.Param("houseId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Accepted(c, result)
}

// Route returns the current route, or 204 while none has arrived.
// GET /api/v1/commute/sessions/:id/route
func (h *Handler) Route(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetRoute(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	if result == nil {
		httpkit.NoContent(c)
		return
	}
	httpkit.OK(c, result)
}

// GeoJSON returns the map overlay as a FeatureCollection.
// GET /api/v1/commute/sessions/:id/geojson
func (h *Handler) GeoJSON(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	session, err := h.svc.Snapshot(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	body, err := overlay.Build(session.View).MarshalJSON()
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "application/geo+json", body)
}

// Export downloads the visible houses as a spreadsheet.
// GET /api/v1/commute/sessions/:id/export.xlsx
func (h *Handler) Export(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	session, err := h.svc.Snapshot(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	var buf bytes.Buffer
	if httpkit.HandleError(c, export.WriteHouses(&buf, session)) {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="houses-%s.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
