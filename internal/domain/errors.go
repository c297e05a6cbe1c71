package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrGameEnded         = errors.New("game has already ended")
	ErrRoomCodeExhausted = errors.New("failed to generate unique room code")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNoActiveRound     = errors.New("no active round")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrEmptyPlayerName   = errors.New("player name cannot be empty")
	ErrPlayerNameTooLong = errors.New("player name is too long")
)
