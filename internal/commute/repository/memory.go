package repository

import (
	"context"
	"sync"
	"time"

	"commute_backend/internal/commute/domain"

	"github.com/google/uuid"
)

type memoryEntry struct {
	session   *domain.Session
	expiresAt time.Time
}

// maxSweepInterval bounds how long expired sessions can stay resident.
const maxSweepInterval = time.Minute

// MemoryStore keeps sessions in process memory. Used when no Redis URL is
// configured. Expired entries are dropped on lookup and by a sweep that runs
// on writes at most once per sweep interval.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	sessions  map[uuid.UUID]memoryEntry
	nextSweep time.Time
}

// NewMemoryStore creates a store whose entries expire ttl after their last
// write. A zero ttl keeps entries forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[uuid.UUID]memoryEntry),
	}
}

func (m *MemoryStore) expiry() time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(m.ttl)
}

func (m *MemoryStore) sweepInterval() time.Duration {
	return min(m.ttl, maxSweepInterval)
}

// sweep drops every expired entry once the sweep interval has passed.
// Caller holds mu.
func (m *MemoryStore) sweep() {
	if m.ttl <= 0 {
		return
	}
	now := m.now()
	if now.Before(m.nextSweep) {
		return
	}
	for id, entry := range m.sessions {
		if !now.Before(entry.expiresAt) {
			delete(m.sessions, id)
		}
	}
	m.nextSweep = now.Add(m.sweepInterval())
}

// Len returns the number of resident entries, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// lookup returns a live entry. Caller holds mu.
func (m *MemoryStore) lookup(id uuid.UUID) (memoryEntry, bool) {
	entry, ok := m.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.sessions, id)
		return memoryEntry{}, false
	}
	return entry, true
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	return entry.session.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	m.sessions[s.ID] = memoryEntry{session: s.Clone(), expiresAt: m.expiry()}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup(id); !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Update(_ context.Context, id uuid.UUID, fn UpdateFunc) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}

	working := entry.session.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	m.sweep()
	m.sessions[id] = memoryEntry{session: working, expiresAt: m.expiry()}
	return working.Clone(), nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

var _ SessionStore = (*MemoryStore)(nil)
