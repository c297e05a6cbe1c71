package ws

import (
	"encoding/json"
	"time"

	"mindmeld/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoinRoom       MessageType = "JoinRoom"
	MsgLeaveRoom      MessageType = "LeaveRoom"
	MsgSubmitWord     MessageType = "SubmitWord"
	MsgStartGame      MessageType = "StartGame"
	MsgStartNextRound MessageType = "StartNextRound"
	MsgPing           MessageType = "Ping"
)

// Server → Client message types not covered by domain events
const (
	MsgError MessageType = "Error"
	MsgPong  MessageType = "Pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload any) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// eventMessage wraps a domain event for the wire
func eventMessage(event domain.EventName, payload any) *ServerMessage {
	return NewServerMessage(MessageType(event), payload)
}

// Client message payloads

// JoinRoomPayload is the payload for JoinRoom. Empty fields default to the
// room code and player id the connection was opened with.
type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// SubmitWordPayload is the payload for SubmitWord
type SubmitWordPayload struct {
	Word string `json:"word"`
	Name string `json:"name,omitempty"`
}

// Server message payloads

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeNotJoined      = "NOT_JOINED"
)
