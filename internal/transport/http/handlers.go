package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"mindmeld/internal/domain"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 12

// Response is a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PlayerRequest is the body of room creation and join requests
type PlayerRequest struct {
	PlayerName string `json:"playerName"`
}

// CreateRoomResponse is the response for room creation
type CreateRoomResponse struct {
	RoomCode   string `json:"roomCode"`
	PlayerID   string `json:"playerId"`
	InviteLink string `json:"inviteLink"`
}

// JoinRoomResponse is the response for joining a room by code
type JoinRoomResponse struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// GetRoomResponse is the response for getting room info
type GetRoomResponse struct {
	RoomCode    string           `json:"roomCode"`
	PlayerCount int              `json:"playerCount"`
	State       domain.GameState `json:"state"`
	CanJoin     bool             `json:"canJoin"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	Exists bool `json:"exists"`
}

// PlayersResponse is the response for the room roster
type PlayersResponse struct {
	Players []domain.PlayerInfo `json:"players"`
}

// IsHostResponse is the response for the host check
type IsHostResponse struct {
	IsHost      bool `json:"isHost"`
	PlayerCount int  `json:"playerCount"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveRooms  int `json:"activeRooms"`
	TotalPlayers int `json:"totalPlayers"`
	Connections  int `json:"connections"`
}

// handleCreateRoom handles POST /api/rooms
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	ticket, err := s.rooms.CreateRoom(req.PlayerName)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	// Invite links target the join endpoint
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	inviteLink := scheme + "://" + r.Host + "/api/rooms/" + url.PathEscape(ticket.RoomCode) + "/players"

	s.logger.Info("room created via api", "roomCode", ticket.RoomCode, "playerID", ticket.PlayerID)

	s.sendSuccess(w, http.StatusCreated, &CreateRoomResponse{
		RoomCode:   ticket.RoomCode,
		PlayerID:   ticket.PlayerID,
		InviteLink: inviteLink,
	})
}

// handleJoinRoom handles POST /api/rooms/{roomCode}/players
func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	ticket, err := s.rooms.JoinRoomByCode(r.PathValue("roomCode"), req.PlayerName)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, http.StatusCreated, &JoinRoomResponse{
		RoomCode: ticket.RoomCode,
		PlayerID: ticket.PlayerID,
	})
}

// handleGetRoom handles GET /api/rooms/{roomCode}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	info, err := s.rooms.RoomInfo(r.PathValue("roomCode"))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, http.StatusOK, &GetRoomResponse{
		RoomCode:    info.RoomCode,
		PlayerCount: info.PlayerCount,
		State:       info.State,
		CanJoin:     info.CanJoin,
	})
}

// handleRoomExists handles GET /api/rooms/{roomCode}/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	_, err := s.rooms.RoomInfo(r.PathValue("roomCode"))

	s.sendSuccess(w, http.StatusOK, &RoomExistsResponse{
		Exists: err == nil,
	})
}

// handleGetPlayers handles GET /api/rooms/{roomCode}/players
func (s *Server) handleGetPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.rooms.Players(r.PathValue("roomCode"))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, http.StatusOK, &PlayersResponse{Players: players})
}

// handleIsHost handles GET /api/rooms/{roomCode}/host/{playerId}
func (s *Server) handleIsHost(w http.ResponseWriter, r *http.Request) {
	isHost, count, err := s.rooms.IsHost(r.PathValue("roomCode"), r.PathValue("playerId"))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, http.StatusOK, &IsHostResponse{
		IsHost:      isHost,
		PlayerCount: count,
	})
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, http.StatusOK, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.rooms.Stats()
	s.sendSuccess(w, http.StatusOK, &StatsResponse{
		ActiveRooms:  stats.ActiveRooms,
		TotalPlayers: stats.TotalPlayers,
		Connections:  stats.Connections,
	})
}

// decodeBody decodes a JSON request body, replying with 400 on failure
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return false
	}
	return true
}

// sendDomainError maps a domain error onto a status and error code
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
	case errors.Is(err, domain.ErrRoomFull):
		s.sendError(w, http.StatusConflict, "ROOM_FULL", "Room is full")
	case errors.Is(err, domain.ErrGameEnded):
		s.sendError(w, http.StatusConflict, "GAME_ENDED", "Game has ended")
	case errors.Is(err, domain.ErrEmptyPlayerName), errors.Is(err, domain.ErrPlayerNameTooLong):
		s.sendError(w, http.StatusBadRequest, "INVALID_PLAYER_NAME", err.Error())
	case errors.Is(err, domain.ErrRoomCodeExhausted):
		s.sendError(w, http.StatusServiceUnavailable, "CREATION_FAILED", "Failed to create room")
	default:
		s.logger.Error("request failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
