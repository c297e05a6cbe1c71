package domain

// EventName is the name of a broadcast event delivered to clients
type EventName string

const (
	EventPlayerJoined     EventName = "PlayerJoined"
	EventPlayerLeft       EventName = "PlayerLeft"
	EventGameStateUpdate  EventName = "GameStateUpdate"
	EventWordSubmitted    EventName = "WordSubmitted"
	EventCountdownUpdate  EventName = "CountdownUpdate"
	EventGameStarted      EventName = "GameStarted"
	EventRoundTimerUpdate EventName = "RoundTimerUpdate"
	EventRoundEnded       EventName = "RoundEnded"
	EventNextRoundStarted EventName = "NextRoundStarted"
)

// String returns the string representation of the event name
func (e EventName) String() string {
	return string(e)
}

// Payload types for different events

// PlayerJoinedPayload is sent to the room when a connection joins
type PlayerJoinedPayload struct {
	PlayerID     string `json:"playerId"`
	Name         string `json:"name"`
	CurrentCount int    `json:"currentCount"`
}

// PlayerLeftPayload is sent to the room when a player leaves or disconnects
type PlayerLeftPayload struct {
	PlayerID string `json:"playerId"`
}

// GameStatePayload is sent only to a newly joined connection
type GameStatePayload struct {
	Players            []PlayerInfo `json:"players"`
	PlayerCount        int          `json:"playerCount"`
	State              GameState    `json:"state"`
	CurrentRoundNumber int          `json:"currentRoundNumber"`
	HostID             string       `json:"hostId"`
	GameWon            bool         `json:"gameWon"`
}

// WordSubmittedPayload is sent when a player submits a word
type WordSubmittedPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Word     string `json:"word"`
}

// CountdownPayload is sent every tick of the pre-game countdown
type CountdownPayload struct {
	SecondsRemaining int `json:"secondsRemaining"`
}

// RoundStartedPayload is sent when the first or a subsequent round starts
type RoundStartedPayload struct {
	State              GameState `json:"state"`
	CurrentRoundNumber int       `json:"currentRoundNumber"`
	TimeRemaining      int       `json:"timeRemaining"`
}

// RoundTimerPayload is sent every tick of a round
type RoundTimerPayload struct {
	SecondsRemaining int `json:"secondsRemaining"`
}

// RoundEndedPayload is sent when a round ends, naturally or by timeout
type RoundEndedPayload struct {
	RoundNumber  int               `json:"roundNumber"`
	Submissions  map[string]string `json:"submissions"`
	GameWon      bool              `json:"gameWon"`
	State        GameState         `json:"state"`
	AllWords     []string          `json:"allWords"`
	WinCondition bool              `json:"winCondition"`
}

// NewRoundEndedPayload builds the results payload for a finished round
func NewRoundEndedPayload(room *Room, ended *Round, matched bool) *RoundEndedPayload {
	return &RoundEndedPayload{
		RoundNumber:  ended.Number,
		Submissions:  ended.SubmissionsCopy(),
		GameWon:      room.GameWon,
		State:        room.State,
		AllWords:     ended.Words(),
		WinCondition: matched,
	}
}
