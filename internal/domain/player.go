package domain

import (
	"strings"
	"time"
)

// MaxPlayerNameLength bounds display names accepted at join time
const MaxPlayerNameLength = 32

// Player represents a player in a room
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player with the given identity and display name
func NewPlayer(id, name string, joinedAt time.Time) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		JoinedAt: joinedAt,
	}
}

// PlayerInfo is the public view of a player sent to clients
type PlayerInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	HasSubmitted bool   `json:"hasSubmitted"`
}

// ToInfo converts a Player to PlayerInfo
func (p *Player) ToInfo() PlayerInfo {
	return PlayerInfo{
		ID:   p.ID,
		Name: p.Name,
	}
}

// ValidatePlayerName trims a display name and checks its bounds
func ValidatePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyPlayerName
	}
	if len([]rune(name)) > MaxPlayerNameLength {
		return "", ErrPlayerNameTooLong
	}
	return name, nil
}
