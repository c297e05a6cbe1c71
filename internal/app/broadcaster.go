package app

import "mindmeld/internal/domain"

// Broadcaster delivers named events to connections grouped by room code
//
//go:generate mockgen -package=mocks -destination=mocks/mock_broadcaster.go mindmeld/internal/app Broadcaster
type Broadcaster interface {
	// SendToRoom delivers an event to every connection in the room's group
	SendToRoom(roomCode string, event domain.EventName, payload any) error

	// SendToCaller delivers an event to a single connection
	SendToCaller(connID string, event domain.EventName, payload any) error

	// AddConnectionToGroup associates a connection with a room group
	AddConnectionToGroup(connID, roomCode string) error

	// RemoveConnectionFromGroup dissociates a connection from a room group
	RemoveConnectionFromGroup(connID, roomCode string) error
}
