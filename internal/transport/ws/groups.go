package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"mindmeld/internal/app"
	"mindmeld/internal/domain"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionClosed   = errors.New("connection closed")
	ErrSendBufferFull     = errors.New("send buffer full")
)

// Sender is a connection that accepts encoded server messages
type Sender interface {
	ConnID() string
	Send(data []byte) error
}

// Groups tracks live connections and the room groups they belong to.
// It implements app.Broadcaster.
type Groups struct {
	clients map[string]Sender
	groups  map[string]map[string]struct{}
	mu      sync.RWMutex
	logger  *slog.Logger
}

var _ app.Broadcaster = (*Groups)(nil)

// NewGroups creates an empty group table
func NewGroups(logger *slog.Logger) *Groups {
	if logger == nil {
		logger = slog.Default()
	}
	return &Groups{
		clients: make(map[string]Sender),
		groups:  make(map[string]map[string]struct{}),
		logger:  logger,
	}
}

// Register adds a live connection
func (g *Groups) Register(s Sender) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[s.ConnID()] = s
}

// Unregister removes a connection and drops it from every group
func (g *Groups) Unregister(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.clients, connID)
	for code, members := range g.groups {
		delete(members, connID)
		if len(members) == 0 {
			delete(g.groups, code)
		}
	}
	g.logger.Debug("connection unregistered", "connID", connID)
}

// SendToRoom delivers an event to every connection in the room's group
func (g *Groups) SendToRoom(roomCode string, event domain.EventName, payload any) error {
	data, err := json.Marshal(eventMessage(event, payload))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event, err)
	}

	g.mu.RLock()
	members := make([]Sender, 0, len(g.groups[roomCode]))
	for connID := range g.groups[roomCode] {
		if s, ok := g.clients[connID]; ok {
			members = append(members, s)
		}
	}
	g.mu.RUnlock()

	var errs []error
	for _, s := range members {
		if err := s.Send(data); err != nil {
			errs = append(errs, fmt.Errorf("connection %s: %w", s.ConnID(), err))
		}
	}
	return errors.Join(errs...)
}

// SendToCaller delivers an event to a single connection
func (g *Groups) SendToCaller(connID string, event domain.EventName, payload any) error {
	g.mu.RLock()
	s, ok := g.clients[connID]
	g.mu.RUnlock()

	if !ok {
		return fmt.Errorf("connection %s: %w", connID, ErrConnectionNotFound)
	}

	data, err := json.Marshal(eventMessage(event, payload))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event, err)
	}
	return s.Send(data)
}

// AddConnectionToGroup associates a registered connection with a room group
func (g *Groups) AddConnectionToGroup(connID, roomCode string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.clients[connID]; !ok {
		return fmt.Errorf("connection %s: %w", connID, ErrConnectionNotFound)
	}

	members, ok := g.groups[roomCode]
	if !ok {
		members = make(map[string]struct{})
		g.groups[roomCode] = members
	}
	members[connID] = struct{}{}
	return nil
}

// RemoveConnectionFromGroup dissociates a connection from a room group
func (g *Groups) RemoveConnectionFromGroup(connID, roomCode string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	members, ok := g.groups[roomCode]
	if !ok {
		return fmt.Errorf("connection %s in room %s: %w", connID, roomCode, ErrConnectionNotFound)
	}
	if _, ok := members[connID]; !ok {
		return fmt.Errorf("connection %s in room %s: %w", connID, roomCode, ErrConnectionNotFound)
	}

	delete(members, connID)
	if len(members) == 0 {
		delete(g.groups, roomCode)
	}
	return nil
}

// GroupSize returns the number of connections in a room group
func (g *Groups) GroupSize(roomCode string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.groups[roomCode])
}

// ClientCount returns the number of registered connections
func (g *Groups) ClientCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients)
}
