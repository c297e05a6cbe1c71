package app

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mindmeld/internal/common/clock"
	"mindmeld/internal/config"
	"mindmeld/internal/domain"
)

const (
	// outboxSize is the capacity of the ordered delivery queue
	outboxSize = 256
)

// Options configures an Orchestrator
type Options struct {
	MinPlayers       int
	MaxPlayers       int
	RoundSeconds     int
	TickInterval     time.Duration
	CountdownSeconds int
	AutoAdvance      bool
	AutoAdvanceDelay time.Duration
	SweepInterval    time.Duration // 0 disables the background sweep
}

// OptionsFromConfig maps game configuration onto orchestrator options
func OptionsFromConfig(cfg config.GameConfig) Options {
	return Options{
		MinPlayers:       cfg.MinPlayers,
		MaxPlayers:       cfg.MaxPlayers,
		RoundSeconds:     cfg.RoundSeconds,
		TickInterval:     cfg.TickInterval,
		CountdownSeconds: cfg.CountdownSeconds,
		AutoAdvance:      cfg.AutoAdvance(),
		AutoAdvanceDelay: cfg.AutoAdvanceDelay,
		SweepInterval:    cfg.SweepInterval,
	}
}

// RoomTicket identifies a player admitted to a room over the room-creation surface
type RoomTicket struct {
	RoomCode string
	PlayerID string
}

// RoomInfo is a read-only summary of a room
type RoomInfo struct {
	RoomCode    string
	PlayerCount int
	State       domain.GameState
	CanJoin     bool
	HostID      string
}

// Stats summarizes the orchestrator's load
type Stats struct {
	ActiveRooms  int
	TotalPlayers int
	Connections  int
	ActiveTimers int
}

// deliveryKind selects the Broadcaster method for a queued delivery
type deliveryKind int

const (
	deliverRoom deliveryKind = iota
	deliverCaller
	deliverGroupAdd
	deliverGroupRemove
)

// delivery is one queued Broadcaster call
type delivery struct {
	kind     deliveryKind
	roomCode string
	connID   string
	event    domain.EventName
	payload  any
}

// Orchestrator wires client actions to room mutations, timers and broadcasts.
// Every mutation of a room runs under that room's registry lock.
type Orchestrator struct {
	registry    *Registry
	timers      *Timers
	conns       *connections
	broadcaster Broadcaster
	clock       clock.Clock
	opts        Options
	logger      *slog.Logger
	newID       func() string

	outbox    chan delivery
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewOrchestrator creates an orchestrator and starts its dispatcher and sweep loop
func NewOrchestrator(registry *Registry, broadcaster Broadcaster, opts Options, clk clock.Clock, logger *slog.Logger) *Orchestrator {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RoundSeconds <= 0 {
		opts.RoundSeconds = int(domain.DefaultRoundDuration / time.Second)
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}

	o := &Orchestrator{
		registry:    registry,
		timers:      NewTimers(logger),
		conns:       newConnections(),
		broadcaster: broadcaster,
		clock:       clk,
		opts:        opts,
		logger:      logger,
		newID:       uuid.NewString,
		outbox:      make(chan delivery, outboxSize),
		done:        make(chan struct{}),
	}

	o.wg.Add(1)
	go o.dispatchLoop()

	if opts.SweepInterval > 0 {
		o.wg.Add(1)
		go o.sweepLoop()
	}

	return o
}

// Close stops the sweep loop, every timer and the dispatcher
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		close(o.done)
		o.timers.Close()
		o.wg.Wait()
		o.registry.Clear()
	})
}

// queueRoom queues an event for every connection in a room
func (o *Orchestrator) queueRoom(code string, event domain.EventName, payload any) {
	o.queue(delivery{kind: deliverRoom, roomCode: code, event: event, payload: payload})
}

// queueCaller queues an event for a single connection
func (o *Orchestrator) queueCaller(connID string, event domain.EventName, payload any) {
	o.queue(delivery{kind: deliverCaller, connID: connID, event: event, payload: payload})
}

// queue adds a delivery to the ordered outbox
func (o *Orchestrator) queue(d delivery) {
	select {
	case o.outbox <- d:
	case <-o.done:
		o.logger.Debug("orchestrator closed, dropping delivery", "event", d.event, "roomCode", d.roomCode)
	}
}

// dispatchLoop sends queued deliveries in order
func (o *Orchestrator) dispatchLoop() {
	defer o.wg.Done()

	for {
		select {
		case <-o.done:
			return
		case d := <-o.outbox:
			o.dispatch(d)
		}
	}
}

// dispatch performs one Broadcaster call; failures are logged and never propagate
func (o *Orchestrator) dispatch(d delivery) {
	var err error
	switch d.kind {
	case deliverRoom:
		err = o.broadcaster.SendToRoom(d.roomCode, d.event, d.payload)
	case deliverCaller:
		err = o.broadcaster.SendToCaller(d.connID, d.event, d.payload)
	case deliverGroupAdd:
		err = o.broadcaster.AddConnectionToGroup(d.connID, d.roomCode)
	case deliverGroupRemove:
		err = o.broadcaster.RemoveConnectionFromGroup(d.connID, d.roomCode)
	}

	if err != nil {
		o.logger.Warn("delivery failed",
			"kind", d.kind,
			"event", d.event,
			"roomCode", d.roomCode,
			"connID", d.connID,
			"error", err,
		)
	}
}

// sweepLoop periodically removes expired rooms
func (o *Orchestrator) sweepLoop() {
	defer o.wg.Done()

	ticker := time.NewTicker(o.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.done:
			return
		case <-ticker.C:
			o.SweepExpired()
		}
	}
}

// SweepExpired removes rooms past their TTL that have no live connection
func (o *Orchestrator) SweepExpired() []string {
	swept := o.registry.Sweep(func(code string) bool {
		return o.conns.count(code) > 0
	})

	for _, code := range swept {
		o.timers.Stop(code)
		o.conns.detachRoom(code)
	}

	return swept
}

// RoomInfo returns a summary of a room
func (o *Orchestrator) RoomInfo(code string) (*RoomInfo, error) {
	var info *RoomInfo
	ok := o.registry.View(code, func(room *domain.Room) {
		info = &RoomInfo{
			RoomCode:    room.Code,
			PlayerCount: room.PlayerCount(),
			State:       room.State,
			CanJoin:     o.canJoin(room),
			HostID:      room.HostID(),
		}
	})
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return info, nil
}

// IsHost checks if playerID is the host of the room
func (o *Orchestrator) IsHost(code, playerID string) (bool, int, error) {
	var isHost bool
	var count int
	ok := o.registry.View(code, func(room *domain.Room) {
		isHost = room.IsHost(playerID)
		count = room.PlayerCount()
	})
	if !ok {
		return false, 0, domain.ErrRoomNotFound
	}
	return isHost, count, nil
}

// Players returns the roster of a room with submission status
func (o *Orchestrator) Players(code string) ([]domain.PlayerInfo, error) {
	var players []domain.PlayerInfo
	ok := o.registry.View(code, func(room *domain.Room) {
		players = room.PlayerInfoList()
	})
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return players, nil
}

// Stats returns counts across all rooms
func (o *Orchestrator) Stats() Stats {
	stats := Stats{
		Connections:  o.conns.total(),
		ActiveTimers: o.timers.Count(),
	}

	for _, code := range o.registry.Codes() {
		if o.registry.View(code, func(room *domain.Room) {
			stats.TotalPlayers += room.PlayerCount()
		}) {
			stats.ActiveRooms++
		}
	}
	return stats
}

// ConnectionCount returns the number of connections bound to a room
func (o *Orchestrator) ConnectionCount(code string) int {
	return o.conns.count(NormalizeCode(code))
}

// canJoin checks if a new player may be admitted
func (o *Orchestrator) canJoin(room *domain.Room) bool {
	if room.State.IsTerminal() {
		return false
	}
	return o.opts.MaxPlayers <= 0 || room.PlayerCount() < o.opts.MaxPlayers
}
