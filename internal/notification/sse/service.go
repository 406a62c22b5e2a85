// Package sse provides Server-Sent Events support for real-time map updates.
package sse

import (
	"encoding/json"
	"sync"
	"time"

	"commute_backend/platform/httpkit"
	"commute_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType represents different types of SSE events
type EventType string

const (
	EventConnected        EventType = "connected"
	EventOfficeChanged    EventType = "office_changed"
	EventThresholdChanged EventType = "threshold_changed"
	EventRouteUpdated     EventType = "route_updated"
	EventSessionDeleted   EventType = "session_deleted"
)

const (
	clientBuffer      = 32
	heartbeatInterval = 25 * time.Second
)

// Event represents an SSE event payload
type Event struct {
	Type      EventType   `json:"type"`
	SessionID uuid.UUID   `json:"sessionId"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// client represents a connected SSE client
type client struct {
	sessionID uuid.UUID
	events    chan Event
}

// Service manages SSE connections and event broadcasting per map view session.
type Service struct {
	mu      sync.RWMutex
	clients map[uuid.UUID][]*client // sessionID -> clients
	log     *logger.Logger
}

// New creates a new SSE service
func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[uuid.UUID][]*client),
		log:     log,
	}
}

// addClient registers a new client connection
func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[c.sessionID] = append(s.clients[c.sessionID], c)
}

// removeClient unregisters a client connection. Clients already dropped by
// Close are left alone.
func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.clients[c.sessionID]
	for i, cl := range clients {
		if cl == c {
			s.clients[c.sessionID] = append(clients[:i], clients[i+1:]...)
			if len(s.clients[c.sessionID]) == 0 {
				delete(s.clients, c.sessionID)
			}
			close(c.events)
			return
		}
	}
}

// ClientCount returns the number of open streams for a session.
func (s *Service) ClientCount(sessionID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[sessionID])
}

// Publish sends an event to every stream of a session. Slow clients drop events.
func (s *Service) Publish(sessionID uuid.UUID, event Event) {
	event.SessionID = sessionID

	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := s.clients[sessionID]
	for _, c := range clients {
		select {
		case c.events <- event:
		default:
			s.log.Warn("sse event buffer full", "session_id", sessionID, "event", event.Type)
		}
	}

	s.log.Debug("sse event published", "session_id", sessionID, "event", event.Type, "clients", len(clients))
}

// Handler returns a Gin handler for SSE connections. resolve maps the request
// to a session and fails for unknown sessions.
func (s *Service) Handler(resolve func(*gin.Context) (uuid.UUID, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := resolve(c)
		if httpkit.HandleError(c, err) {
			return
		}

		// Set SSE headers
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			sessionID: sessionID,
			events:    make(chan Event, clientBuffer),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent(string(EventConnected), gin.H{"sessionId": sessionID})
		c.Writer.Flush()

		s.log.Debug("sse client connected", "session_id", sessionID)

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				s.log.Debug("sse client disconnected", "session_id", sessionID)
				return
			case <-heartbeat.C:
				c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
				c.Writer.Flush()
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, _ := json.Marshal(event)
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
				if event.Type == EventSessionDeleted {
					return
				}
			}
		}
	}
}

// Close drops every client; their handlers return on the closed channel.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, clients := range s.clients {
		for _, c := range clients {
			close(c.events)
		}
	}
	s.clients = make(map[uuid.UUID][]*client)
}
