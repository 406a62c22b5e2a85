package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a stored map view.
type Session struct {
	ID        uuid.UUID `json:"id"`
	View      View      `json:"view"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession wraps view with a fresh ID.
func NewSession(view View, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		View:      view,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records a state change.
func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now
}

// Clone returns a deep copy, so stores never share slices with callers.
func (s *Session) Clone() *Session {
	out := *s
	out.View.Houses = append([]House(nil), s.View.Houses...)
	if s.View.Office != nil {
		office := *s.View.Office
		out.View.Office = &office
	}
	if s.View.Route != nil {
		route := *s.View.Route
		route.Legs = append([]Leg(nil), s.View.Route.Legs...)
		route.Polyline = append(route.Polyline[:0:0], s.View.Route.Polyline...)
		out.View.Route = &route
	}
	return &out
}
