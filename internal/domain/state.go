package domain

// GameState represents the lifecycle state of a room
type GameState string

const (
	StateWaiting    GameState = "Waiting"    // Room created, no round played yet
	StateInProgress GameState = "InProgress" // A round is running
	StateRoundEnd   GameState = "RoundEnd"   // Between rounds
	StateGameEnd    GameState = "GameEnd"    // Won or out of rounds, terminal
)

// String returns the string representation of the state
func (s GameState) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible
func (s GameState) IsTerminal() bool {
	return s == StateGameEnd
}

// CanTransitionTo checks if a transition from current state to target state is valid
func (s GameState) CanTransitionTo(target GameState) bool {
	validTransitions := map[GameState][]GameState{
		StateWaiting:    {StateInProgress},
		StateInProgress: {StateRoundEnd, StateGameEnd},
		StateRoundEnd:   {StateInProgress},
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == target {
			return true
		}
	}
	return false
}
