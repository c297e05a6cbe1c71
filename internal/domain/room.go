package domain

import (
	"time"
)

const (
	// DefaultMaxRounds is the number of rounds played before the game ends without a win
	DefaultMaxRounds = 5

	// DefaultRoundDuration is how long players have to submit each round
	DefaultRoundDuration = 15 * time.Second

	// DefaultRoomTTL is the age after which a room is eligible for the expiry sweep
	DefaultRoomTTL = 15 * time.Minute
)

// RoomSettings holds per-room game parameters
type RoomSettings struct {
	MaxRounds     int           `json:"maxRounds"`
	RoundDuration time.Duration `json:"roundDuration"`
}

// DefaultRoomSettings returns the default room settings
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		MaxRounds:     DefaultMaxRounds,
		RoundDuration: DefaultRoundDuration,
	}
}

// Room represents one game session identified by a short code
type Room struct {
	Code            string       `json:"code"`
	Players         []*Player    `json:"players"`
	Host            *Player      `json:"host,omitempty"`
	State           GameState    `json:"state"`
	CurrentRound    *Round       `json:"currentRound,omitempty"`
	CompletedRounds []*Round     `json:"completedRounds"`
	GameWon         bool         `json:"gameWon"`
	Settings        RoomSettings `json:"settings"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// NewRoom creates a new room in the Waiting state
func NewRoom(code string, settings RoomSettings, createdAt time.Time) *Room {
	if settings.MaxRounds <= 0 {
		settings.MaxRounds = DefaultMaxRounds
	}
	if settings.RoundDuration <= 0 {
		settings.RoundDuration = DefaultRoundDuration
	}

	return &Room{
		Code:            code,
		Players:         make([]*Player, 0),
		State:           StateWaiting,
		CompletedRounds: make([]*Round, 0),
		Settings:        settings,
		CreatedAt:       createdAt,
	}
}

// AddPlayer appends a player to the roster; the first player becomes host
func (r *Room) AddPlayer(player *Player) {
	if r.HasPlayer(player.ID) {
		return
	}

	r.Players = append(r.Players, player)

	if r.Host == nil {
		r.Host = player
	}
}

// RemovePlayer removes a player by identity and reassigns the host if needed
func (r *Room) RemovePlayer(playerID string) bool {
	idx := r.indexOf(playerID)
	if idx < 0 {
		return false
	}

	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	switch {
	case len(r.Players) == 0:
		r.Host = nil
	case r.Host != nil && r.Host.ID == playerID:
		r.Host = r.Players[0]
	}

	return true
}

func (r *Room) indexOf(playerID string) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// GetPlayer returns a player by ID
func (r *Room) GetPlayer(playerID string) (*Player, error) {
	idx := r.indexOf(playerID)
	if idx < 0 {
		return nil, ErrPlayerNotFound
	}
	return r.Players[idx], nil
}

// HasPlayer checks if the player is in the roster
func (r *Room) HasPlayer(playerID string) bool {
	return r.indexOf(playerID) >= 0
}

// PlayerCount returns the roster size
func (r *Room) PlayerCount() int {
	return len(r.Players)
}

// IsHost checks if the given player is the host
func (r *Room) IsHost(playerID string) bool {
	return r.Host != nil && r.Host.ID == playerID
}

// HostID returns the host identity or an empty string
func (r *Room) HostID() string {
	if r.Host == nil {
		return ""
	}
	return r.Host.ID
}

// CurrentRoundNumber returns the running round number, or 0 outside a round
func (r *Room) CurrentRoundNumber() int {
	if r.CurrentRound == nil {
		return 0
	}
	return r.CurrentRound.Number
}

// StartNewRound creates the next round and moves the room to InProgress
func (r *Room) StartNewRound(now time.Time) *Round {
	roundNumber := len(r.CompletedRounds) + 1
	r.CurrentRound = NewRound(roundNumber, now, r.Settings.RoundDuration)
	r.State = StateInProgress
	return r.CurrentRound
}

// SubmitWord records a player's normalized word; it is a no-op without a live round
func (r *Room) SubmitWord(playerID, word string, now time.Time) bool {
	if r.CurrentRound == nil || r.CurrentRound.TimeExpired(now) {
		return false
	}

	r.CurrentRound.record(playerID, NormalizeWord(word))
	return true
}

// FillMissingSubmissions records an empty word for every player who has not submitted.
// Unlike SubmitWord it ignores the round deadline, as it runs when the deadline fires.
func (r *Room) FillMissingSubmissions() []string {
	if r.CurrentRound == nil {
		return nil
	}

	filled := make([]string, 0)
	for _, p := range r.Players {
		if !r.CurrentRound.HasSubmitted(p.ID) {
			r.CurrentRound.record(p.ID, "")
			filled = append(filled, p.ID)
		}
	}
	return filled
}

// AllSubmitted checks if every player in the roster has submitted this round
func (r *Room) AllSubmitted() bool {
	if r.CurrentRound == nil {
		return false
	}
	return r.CurrentRound.AllSubmitted(r.Players)
}

// CheckWinCondition reports whether every submitted word this round is identical.
// Players who have not submitted are not considered.
func (r *Room) CheckWinCondition() bool {
	if r.CurrentRound == nil {
		return false
	}
	return r.CurrentRound.AllMatch()
}

// EndRound concludes the current round and returns it
func (r *Room) EndRound() (*Round, error) {
	if r.CurrentRound == nil {
		return nil, ErrNoActiveRound
	}
	if !r.State.CanTransitionTo(StateRoundEnd) {
		return nil, ErrInvalidTransition
	}

	switch {
	case r.CheckWinCondition():
		r.GameWon = true
		r.State = StateGameEnd
	case len(r.CompletedRounds) >= r.Settings.MaxRounds-1:
		r.State = StateGameEnd
	default:
		r.State = StateRoundEnd
	}

	ended := r.CurrentRound
	r.CompletedRounds = append(r.CompletedRounds, ended)
	r.CurrentRound = nil

	return ended, nil
}

// IsExpired reports whether the room is older than ttl
func (r *Room) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.CreatedAt) > ttl
}

// PlayerInfoList returns the roster in join order
func (r *Room) PlayerInfoList() []PlayerInfo {
	players := make([]PlayerInfo, 0, len(r.Players))
	for _, p := range r.Players {
		info := p.ToInfo()
		if r.CurrentRound != nil {
			info.HasSubmitted = r.CurrentRound.HasSubmitted(p.ID)
		}
		players = append(players, info)
	}
	return players
}

// StateSnapshot returns the full room state sent to a newly joined connection
func (r *Room) StateSnapshot() *GameStatePayload {
	return &GameStatePayload{
		Players:            r.PlayerInfoList(),
		PlayerCount:        len(r.Players),
		State:              r.State,
		CurrentRoundNumber: r.CurrentRoundNumber(),
		HostID:             r.HostID(),
		GameWon:            r.GameWon,
	}
}
