package app

import (
	"crypto/rand"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mindmeld/internal/common/clock"
	"mindmeld/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 4

	// maxCodeAttempts bounds collision retries when generating a room code
	maxCodeAttempts = 10
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// roomEntry pairs a room with the mutex serializing every mutation of it
type roomEntry struct {
	mu      sync.Mutex
	room    *domain.Room
	removed atomic.Bool
}

// RegistryConfig configures a Registry
type RegistryConfig struct {
	CodeLength int
	TTL        time.Duration
	Settings   domain.RoomSettings
	Clock      clock.Clock
	Logger     *slog.Logger
}

// Registry is the in-memory table of rooms keyed by code
type Registry struct {
	rooms      map[string]*roomEntry
	mu         sync.RWMutex
	codeLength int
	ttl        time.Duration
	settings   domain.RoomSettings
	clock      clock.Clock
	logger     *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = DefaultRoomCodeLength
	}
	if cfg.TTL <= 0 {
		cfg.TTL = domain.DefaultRoomTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Registry{
		rooms:      make(map[string]*roomEntry),
		codeLength: cfg.CodeLength,
		ttl:        cfg.TTL,
		settings:   cfg.Settings,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
	}
}

// NormalizeCode canonicalizes a client-supplied room code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create registers a new room with the given creator as its first player and host
func (r *Registry) Create(creator *domain.Player) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Generate unique room code
	var code string
	for attempts := 0; attempts < maxCodeAttempts; attempts++ {
		code = r.generateRoomCode()
		if _, exists := r.rooms[code]; !exists {
			break
		}
	}

	if _, exists := r.rooms[code]; exists {
		return nil, domain.ErrRoomCodeExhausted
	}

	room := domain.NewRoom(code, r.settings, r.clock.Now())
	if creator != nil {
		room.AddPlayer(creator)
	}
	r.rooms[code] = &roomEntry{room: room}

	r.logger.Info("room created", "roomCode", code)

	return room, nil
}

// Acquire locks the room for code and returns it with its unlock function.
// ok is false if the room does not exist or was removed while waiting for the lock.
func (r *Registry) Acquire(code string) (room *domain.Room, unlock func(), ok bool) {
	r.mu.RLock()
	entry, exists := r.rooms[NormalizeCode(code)]
	r.mu.RUnlock()

	if !exists {
		return nil, nil, false
	}

	entry.mu.Lock()
	if entry.removed.Load() {
		entry.mu.Unlock()
		return nil, nil, false
	}

	return entry.room, entry.mu.Unlock, true
}

// View runs fn with the room locked; it reports whether the room exists
func (r *Registry) View(code string, fn func(room *domain.Room)) bool {
	room, unlock, ok := r.Acquire(code)
	if !ok {
		return false
	}
	defer unlock()

	fn(room)
	return true
}

// Exists checks if a room is registered under code
func (r *Registry) Exists(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[NormalizeCode(code)]
	return ok
}

// Delete removes a room. It does not take the room lock, so it is safe to call
// while holding it; later Acquire calls for the code fail.
func (r *Registry) Delete(code string) bool {
	code = NormalizeCode(code)

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rooms[code]
	if !ok {
		return false
	}

	entry.removed.Store(true)
	delete(r.rooms, code)
	r.logger.Info("room deleted", "roomCode", code)
	return true
}

// Sweep removes rooms older than the TTL unless keep reports them live.
// Each candidate is rechecked under its room lock, so a room is never removed
// while a caller holds it. It returns the removed codes.
func (r *Registry) Sweep(keep func(code string) bool) []string {
	now := r.clock.Now()

	// CreatedAt never changes after creation, no room lock needed
	r.mu.RLock()
	candidates := make(map[string]*roomEntry)
	for code, entry := range r.rooms {
		if entry.room.IsExpired(now, r.ttl) {
			candidates[code] = entry
		}
	}
	r.mu.RUnlock()

	swept := make([]string, 0, len(candidates))
	for code, entry := range candidates {
		if r.sweepEntry(code, entry, keep) {
			swept = append(swept, code)
		}
	}

	return swept
}

// sweepEntry removes one expired entry unless it is live or already gone
func (r *Registry) sweepEntry(code string, entry *roomEntry, keep func(code string) bool) bool {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.removed.Load() {
		return false
	}
	if keep != nil && keep(code) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[code] != entry {
		return false
	}
	entry.removed.Store(true)
	delete(r.rooms, code)
	r.logger.Info("expired room cleaned up", "roomCode", code)
	return true
}

// Count returns the number of registered rooms
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Codes returns the codes of all registered rooms
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.rooms))
	for code := range r.rooms {
		codes = append(codes, code)
	}
	return codes
}

// Clear removes every room, used at shutdown
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for code, entry := range r.rooms {
		entry.removed.Store(true)
		delete(r.rooms, code)
	}
}

// generateRoomCode generates a random room code
func (r *Registry) generateRoomCode() string {
	b := make([]byte, r.codeLength)
	rand.Read(b)

	code := make([]byte, r.codeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}
