package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"mindmeld/internal/app"
)

// Orchestrator is the set of room actions a connection can drive
type Orchestrator interface {
	JoinRoom(connID, code, playerID, name string)
	LeaveRoom(connID, code, playerID string)
	SubmitWord(code, playerID, name, word string)
	StartGame(code, callerID string)
	StartNextRound(code, callerID string)
	Disconnect(connID string)
	RoomInfo(code string) (*app.RoomInfo, error)
}

// HandlerConfig holds per-connection limits
type HandlerConfig struct {
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Handler handles WebSocket connections
type Handler struct {
	orchestrator Orchestrator
	groups       *Groups
	config       HandlerConfig
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(orchestrator Orchestrator, groups *Groups, cfg HandlerConfig, logger *slog.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		groups:       groups,
		config:       cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomCode := app.NormalizeCode(r.URL.Query().Get("roomCode"))
	if roomCode == "" {
		http.Error(w, "roomCode is required", http.StatusBadRequest)
		return
	}

	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "playerId is required", http.StatusBadRequest)
		return
	}

	if _, err := h.orchestrator.RoomInfo(roomCode); err != nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	connID := uuid.NewString()
	client := NewClient(conn, connID, roomCode, playerID, h.orchestrator, h.groups, h.newLimiter(), h.logger)
	h.groups.Register(client)

	h.logger.Info("websocket connected",
		"roomCode", roomCode,
		"playerID", playerID,
		"connID", connID,
	)

	client.Run()

	h.logger.Info("websocket disconnected", "roomCode", roomCode, "playerID", playerID, "connID", connID)
}

// newLimiter builds the inbound message limiter for one connection
func (h *Handler) newLimiter() *rate.Limiter {
	limit := rate.Limit(h.config.RateLimitPerSecond)
	if h.config.RateLimitPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := h.config.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(limit, burst)
}
