package app

import (
	"mindmeld/internal/domain"
)

// CreateRoom creates a room with the named creator as first player and host
func (o *Orchestrator) CreateRoom(playerName string) (*RoomTicket, error) {
	name, err := domain.ValidatePlayerName(playerName)
	if err != nil {
		return nil, err
	}

	o.SweepExpired()

	player := domain.NewPlayer(o.newID(), name, o.clock.Now())
	room, err := o.registry.Create(player)
	if err != nil {
		return nil, err
	}

	return &RoomTicket{RoomCode: room.Code, PlayerID: player.ID}, nil
}

// JoinRoomByCode admits a new named player into an existing room
func (o *Orchestrator) JoinRoomByCode(code, playerName string) (*RoomTicket, error) {
	name, err := domain.ValidatePlayerName(playerName)
	if err != nil {
		return nil, err
	}

	room, unlock, ok := o.registry.Acquire(code)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	defer unlock()

	if room.State.IsTerminal() {
		return nil, domain.ErrGameEnded
	}
	if !o.canJoin(room) {
		return nil, domain.ErrRoomFull
	}

	player := domain.NewPlayer(o.newID(), name, o.clock.Now())
	room.AddPlayer(player)

	o.logger.Info("player admitted", "roomCode", room.Code, "playerID", player.ID)

	return &RoomTicket{RoomCode: room.Code, PlayerID: player.ID}, nil
}

// JoinRoom binds a connection to a room, adding the player if needed
func (o *Orchestrator) JoinRoom(connID, code, playerID, name string) {
	room, unlock, ok := o.registry.Acquire(code)
	if !ok {
		o.logger.Debug("join for unknown room ignored", "roomCode", code, "connID", connID)
		return
	}

	player, err := room.GetPlayer(playerID)
	if err != nil {
		if room.State.IsTerminal() || !o.canJoin(room) || playerID == "" {
			unlock()
			return
		}
		if name == "" {
			name = playerID
		}
		player = domain.NewPlayer(playerID, name, o.clock.Now())
		room.AddPlayer(player)
	}

	prev, had := o.conns.attach(connID, room.Code, player.ID)

	o.queue(delivery{kind: deliverGroupAdd, connID: connID, roomCode: room.Code})
	o.queueCaller(connID, domain.EventGameStateUpdate, room.StateSnapshot())
	o.queueRoom(room.Code, domain.EventPlayerJoined, &domain.PlayerJoinedPayload{
		PlayerID:     player.ID,
		Name:         player.Name,
		CurrentCount: room.PlayerCount(),
	})

	o.logger.Info("player joined",
		"roomCode", room.Code,
		"playerID", player.ID,
		"connID", connID,
		"playerCount", room.PlayerCount(),
	)

	o.resumeLocked(room)
	unlock()

	// A connection moving rooms leaves the old one
	if had && prev.roomCode != room.Code {
		o.queue(delivery{kind: deliverGroupRemove, connID: connID, roomCode: prev.roomCode})
		o.departed(prev.roomCode, prev.playerID, true)
	}
}

// LeaveRoom removes a player from a room and unbinds the connection
func (o *Orchestrator) LeaveRoom(connID, code, playerID string) {
	code = NormalizeCode(code)

	if b, ok := o.conns.lookup(connID); ok && b.roomCode == code {
		o.conns.detach(connID)
	}
	o.queue(delivery{kind: deliverGroupRemove, connID: connID, roomCode: code})

	o.departed(code, playerID, false)
}

// Disconnect handles transport-level connection loss
func (o *Orchestrator) Disconnect(connID string) {
	b, ok := o.conns.detach(connID)
	if !ok {
		return
	}

	o.logger.Debug("connection lost", "roomCode", b.roomCode, "playerID", b.playerID, "connID", connID)
	o.departed(b.roomCode, b.playerID, true)
}

// departed applies leave semantics for a player whose connection went away.
// With keepIfConnected set the player stays if another connection still speaks for them.
func (o *Orchestrator) departed(code, playerID string, keepIfConnected bool) {
	room, unlock, ok := o.registry.Acquire(code)
	if !ok {
		return
	}
	defer unlock()

	if keepIfConnected && o.conns.playerConnected(room.Code, playerID) {
		return
	}

	if room.RemovePlayer(playerID) {
		o.queueRoom(room.Code, domain.EventPlayerLeft, &domain.PlayerLeftPayload{PlayerID: playerID})
		o.logger.Info("player left", "roomCode", room.Code, "playerID", playerID, "playerCount", room.PlayerCount())
	}

	switch {
	case room.PlayerCount() == 0:
		o.deleteRoomLocked(room)
	case o.conns.count(room.Code) == 0:
		o.timers.Stop(room.Code)
	case room.State == domain.StateInProgress && room.AllSubmitted():
		o.endRoundLocked(room)
	}
}

// SubmitWord records a player's word and ends the round once everyone has submitted
func (o *Orchestrator) SubmitWord(code, playerID, name, word string) {
	room, unlock, ok := o.registry.Acquire(code)
	if !ok {
		return
	}
	defer unlock()

	if room.State != domain.StateInProgress {
		return
	}

	player, err := room.GetPlayer(playerID)
	if err != nil {
		return
	}

	if !room.SubmitWord(playerID, word, o.clock.Now()) {
		o.logger.Debug("late submission ignored", "roomCode", room.Code, "playerID", playerID)
		return
	}

	if name == "" {
		name = player.Name
	}
	o.queueRoom(room.Code, domain.EventWordSubmitted, &domain.WordSubmittedPayload{
		PlayerID: playerID,
		Name:     name,
		Word:     room.CurrentRound.Submissions[playerID],
	})

	if room.AllSubmitted() {
		o.endRoundLocked(room)
	}
}

// StartGame starts the game when called by the host, after the pre-game countdown if configured
func (o *Orchestrator) StartGame(code, callerID string) {
	room, unlock, ok := o.registry.Acquire(code)
	if !ok {
		return
	}
	defer unlock()

	if !room.IsHost(callerID) || room.State != domain.StateWaiting {
		return
	}
	if room.PlayerCount() < o.opts.MinPlayers {
		o.logger.Debug("start ignored, not enough players", "roomCode", room.Code, "playerCount", room.PlayerCount())
		return
	}

	if o.opts.CountdownSeconds <= 0 {
		o.startRoundLocked(room, domain.EventGameStarted)
		return
	}

	// A countdown already running in Waiting means a start is pending
	if o.timers.Active(room.Code) {
		return
	}
	o.startCountdownLocked(room, callerID)
}

// StartNextRound starts the next round when called by the host between rounds
func (o *Orchestrator) StartNextRound(code, callerID string) {
	room, unlock, ok := o.registry.Acquire(code)
	if !ok {
		return
	}
	defer unlock()

	if !room.IsHost(callerID) || room.State != domain.StateRoundEnd {
		return
	}

	o.startRoundLocked(room, domain.EventNextRoundStarted)
}
