package app

import (
	"mindmeld/internal/domain"
)

// startRoundLocked stops any timer, starts the next round, announces it and starts its countdown.
// The caller holds the room lock.
func (o *Orchestrator) startRoundLocked(room *domain.Room, event domain.EventName) {
	code := room.Code
	o.timers.Stop(code)

	round := room.StartNewRound(o.clock.Now())

	o.queueRoom(code, event, &domain.RoundStartedPayload{
		State:              room.State,
		CurrentRoundNumber: round.Number,
		TimeRemaining:      o.opts.RoundSeconds,
	})

	o.logger.Info("round started", "roomCode", code, "round", round.Number, "playerCount", room.PlayerCount())

	o.startRoundTimerLocked(room, o.opts.RoundSeconds)
}

// startRoundTimerLocked counts the current round down from the given number of ticks
func (o *Orchestrator) startRoundTimerLocked(room *domain.Room, from int) {
	code := room.Code
	number := room.CurrentRoundNumber()

	o.timers.Start(code, Countdown{
		From:      from,
		Interval:  o.opts.TickInterval,
		Immediate: true,
		OnTick: func(taskID uint64, remaining int) {
			o.onRoundTick(code, number, taskID, remaining)
		},
	})
}

// resumeLocked restores the schedule of a room whose timer stopped when its
// last connection left. An expired round is ended at once.
func (o *Orchestrator) resumeLocked(room *domain.Room) {
	if o.timers.Active(room.Code) {
		return
	}

	switch room.State {
	case domain.StateInProgress:
		left := room.CurrentRound.Remaining(o.clock.Now())
		if left <= 0 {
			filled := room.FillMissingSubmissions()
			o.logger.Info("round expired while unattended", "roomCode", room.Code, "autoSubmitted", len(filled))
			o.endRoundLocked(room)
			return
		}

		ticks := int((left + o.opts.TickInterval - 1) / o.opts.TickInterval)
		o.logger.Info("round timer resumed", "roomCode", room.Code, "round", room.CurrentRoundNumber(), "ticks", ticks)
		o.startRoundTimerLocked(room, ticks)
	case domain.StateRoundEnd:
		if o.opts.AutoAdvance {
			o.scheduleAdvanceLocked(room)
		}
	}
}

// onRoundTick broadcasts the remaining time and force-ends the round at zero
func (o *Orchestrator) onRoundTick(code string, roundNumber int, taskID uint64, remaining int) {
	room, unlock, ok := o.registry.Acquire(code)
	if !ok {
		o.timers.StopIf(code, taskID)
		return
	}
	defer unlock()

	if !o.timers.IsCurrent(code, taskID) ||
		room.State != domain.StateInProgress ||
		room.CurrentRoundNumber() != roundNumber {
		o.logger.Debug("stale round tick discarded", "roomCode", code, "round", roundNumber, "taskID", taskID)
		return
	}

	o.queueRoom(code, domain.EventRoundTimerUpdate, &domain.RoundTimerPayload{SecondsRemaining: remaining})

	if remaining > 0 {
		return
	}

	filled := room.FillMissingSubmissions()
	o.logger.Info("round time expired", "roomCode", code, "round", roundNumber, "autoSubmitted", len(filled))
	o.endRoundLocked(room)
}

// endRoundLocked concludes the current round, broadcasts results and applies the outcome.
// The caller holds the room lock.
func (o *Orchestrator) endRoundLocked(room *domain.Room) {
	code := room.Code
	o.timers.Stop(code)

	matched := room.CheckWinCondition()
	ended, err := room.EndRound()
	if err != nil {
		o.logger.Error("failed to end round", "roomCode", code, "error", err)
		return
	}

	o.queueRoom(code, domain.EventRoundEnded, domain.NewRoundEndedPayload(room, ended, matched))

	o.logger.Info("round ended",
		"roomCode", code,
		"round", ended.Number,
		"state", room.State,
		"gameWon", room.GameWon,
	)

	switch room.State {
	case domain.StateGameEnd:
		o.closeRoomLocked(room, "game ended")
	case domain.StateRoundEnd:
		if o.opts.AutoAdvance {
			o.scheduleAdvanceLocked(room)
		}
	}
}

// scheduleAdvanceLocked starts the next round after the grace delay
func (o *Orchestrator) scheduleAdvanceLocked(room *domain.Room) {
	code := room.Code
	completed := len(room.CompletedRounds)

	o.timers.Start(code, Countdown{
		From:     0,
		Interval: o.opts.AutoAdvanceDelay,
		OnTick: func(taskID uint64, _ int) {
			o.onAutoAdvance(code, completed, taskID)
		},
	})
}

// onAutoAdvance starts the next round unless the room moved on meanwhile
func (o *Orchestrator) onAutoAdvance(code string, completed int, taskID uint64) {
	room, unlock, ok := o.registry.Acquire(code)
	if !ok {
		return
	}
	defer unlock()

	if !o.timers.IsCurrent(code, taskID) ||
		room.State != domain.StateRoundEnd ||
		len(room.CompletedRounds) != completed {
		o.logger.Debug("stale advance discarded", "roomCode", code, "taskID", taskID)
		return
	}

	o.startRoundLocked(room, domain.EventNextRoundStarted)
}

// startCountdownLocked runs the pre-game countdown and starts the game at zero
func (o *Orchestrator) startCountdownLocked(room *domain.Room, callerID string) {
	code := room.Code

	o.timers.Start(code, Countdown{
		From:      o.opts.CountdownSeconds,
		Interval:  o.opts.TickInterval,
		Immediate: true,
		OnTick: func(taskID uint64, remaining int) {
			o.onCountdownTick(code, callerID, taskID, remaining)
		},
	})

	o.logger.Info("countdown started", "roomCode", code, "seconds", o.opts.CountdownSeconds)
}

// onCountdownTick broadcasts the countdown and starts the first round at zero
func (o *Orchestrator) onCountdownTick(code, callerID string, taskID uint64, remaining int) {
	room, unlock, ok := o.registry.Acquire(code)
	if !ok {
		o.timers.StopIf(code, taskID)
		return
	}
	defer unlock()

	if !o.timers.IsCurrent(code, taskID) || room.State != domain.StateWaiting {
		o.logger.Debug("stale countdown tick discarded", "roomCode", code, "taskID", taskID)
		return
	}

	if remaining > 0 {
		o.queueRoom(code, domain.EventCountdownUpdate, &domain.CountdownPayload{SecondsRemaining: remaining})
		return
	}

	o.timers.StopIf(code, taskID)

	// The host may have left, or players dropped, during the countdown
	if !room.IsHost(callerID) || room.PlayerCount() < o.opts.MinPlayers {
		o.logger.Info("countdown aborted", "roomCode", code, "playerCount", room.PlayerCount())
		return
	}

	o.startRoundLocked(room, domain.EventGameStarted)
}

// closeRoomLocked stops the room's timer, removes its connections from the
// group and deletes it from the registry. The caller holds the room lock.
func (o *Orchestrator) closeRoomLocked(room *domain.Room, reason string) {
	code := room.Code
	o.timers.Stop(code)

	for _, connID := range o.conns.detachRoom(code) {
		o.queue(delivery{kind: deliverGroupRemove, connID: connID, roomCode: code})
	}

	o.registry.Delete(code)
	o.logger.Info("room closed", "roomCode", code, "reason", reason)
}

// deleteRoomLocked deletes a room left without players
func (o *Orchestrator) deleteRoomLocked(room *domain.Room) {
	o.closeRoomLocked(room, "empty")
}
