// Package repository stores map view sessions.
package repository

import (
	"context"
	"errors"

	"commute_backend/internal/commute/domain"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")
	// ErrConflict is returned when an update kept losing to concurrent writers.
	ErrConflict = errors.New("session was modified concurrently")
)

// UpdateFunc mutates a session in place. Returning an error aborts the update
// without writing anything. It may run more than once.
type UpdateFunc func(s *domain.Session) error

// SessionStore is the persistence port of the commute service.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Update runs fn on the current session and stores the result atomically.
	Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (*domain.Session, error)
	Ping(ctx context.Context) error
}
