package app

import "sync"

// binding ties a transport connection to the player it speaks for
type binding struct {
	roomCode string
	playerID string
}

// connections tracks which transport connections belong to which room
type connections struct {
	byConn map[string]binding
	byRoom map[string]map[string]struct{}
	mu     sync.RWMutex
}

func newConnections() *connections {
	return &connections{
		byConn: make(map[string]binding),
		byRoom: make(map[string]map[string]struct{}),
	}
}

// attach binds connID to a room and player, returning any previous binding
func (c *connections) attach(connID, roomCode, playerID string) (binding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, had := c.byConn[connID]
	if had {
		c.removeLocked(connID, prev.roomCode)
	}

	c.byConn[connID] = binding{roomCode: roomCode, playerID: playerID}
	set, ok := c.byRoom[roomCode]
	if !ok {
		set = make(map[string]struct{})
		c.byRoom[roomCode] = set
	}
	set[connID] = struct{}{}

	return prev, had
}

// detach unbinds connID and returns what it was bound to
func (c *connections) detach(connID string) (binding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.byConn[connID]
	if !ok {
		return binding{}, false
	}
	delete(c.byConn, connID)
	c.removeLocked(connID, b.roomCode)
	return b, true
}

// detachRoom unbinds every connection of a room and returns their ids
func (c *connections) detachRoom(roomCode string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	set := c.byRoom[roomCode]
	ids := make([]string, 0, len(set))
	for connID := range set {
		ids = append(ids, connID)
		delete(c.byConn, connID)
	}
	delete(c.byRoom, roomCode)
	return ids
}

func (c *connections) removeLocked(connID, roomCode string) {
	set, ok := c.byRoom[roomCode]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(c.byRoom, roomCode)
	}
}

// lookup returns the binding of connID
func (c *connections) lookup(connID string) (binding, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.byConn[connID]
	return b, ok
}

// count returns the number of connections bound to a room
func (c *connections) count(roomCode string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byRoom[roomCode])
}

// playerConnected reports whether any connection speaks for playerID in the room
func (c *connections) playerConnected(roomCode, playerID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for connID := range c.byRoom[roomCode] {
		if c.byConn[connID].playerID == playerID {
			return true
		}
	}
	return false
}

// total returns the number of bound connections across all rooms
func (c *connections) total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byConn)
}
