package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection
type Client struct {
	conn         *websocket.Conn
	connID       string
	orchestrator Orchestrator
	groups       *Groups
	limiter      *rate.Limiter
	send         chan []byte
	done         chan struct{}
	logger       *slog.Logger
	mu           sync.Mutex
	closed       bool

	// owned by the read pump
	roomCode string
	playerID string
	joined   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, connID, roomCode, playerID string, orchestrator Orchestrator, groups *Groups, limiter *rate.Limiter, logger *slog.Logger) *Client {
	return &Client{
		conn:         conn,
		connID:       connID,
		orchestrator: orchestrator,
		groups:       groups,
		limiter:      limiter,
		send:         make(chan []byte, sendBufferSize),
		done:         make(chan struct{}),
		logger:       logger.With("connID", connID),
		roomCode:     roomCode,
		playerID:     playerID,
	}
}

// ConnID returns the connection id
func (c *Client) ConnID() string {
	return c.connID
}

// Send queues an encoded message for the write pump
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
		return ErrSendBufferFull
	}
}

// Close closes the connection once
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps and blocks until the connection ends
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.groups.Unregister(c.connID)
		c.orchestrator.Disconnect(c.connID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		if !c.limiter.Allow() {
			c.sendError(ErrCodeRateLimited, "Too many messages")
			continue
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgLeaveRoom:
		c.handleLeaveRoom()
	case MsgSubmitWord:
		c.handleSubmitWord(msg.Payload)
	case MsgStartGame:
		if c.requireJoined() {
			c.orchestrator.StartGame(c.roomCode, c.playerID)
		}
	case MsgStartNextRound:
		if c.requireJoined() {
			c.orchestrator.StartNextRound(c.roomCode, c.playerID)
		}
	case MsgPing:
		c.sendMessage(NewServerMessage(MsgPong, nil))
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleJoinRoom handles a JoinRoom message
func (c *Client) handleJoinRoom(raw json.RawMessage) {
	var payload JoinRoomPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			c.sendError(ErrCodeInvalidMessage, "Invalid payload")
			return
		}
	}

	if payload.RoomCode != "" {
		c.roomCode = payload.RoomCode
	}
	if payload.PlayerID != "" {
		c.playerID = payload.PlayerID
	}

	c.orchestrator.JoinRoom(c.connID, c.roomCode, c.playerID, payload.Name)
	c.joined = true
}

// handleLeaveRoom handles a LeaveRoom message
func (c *Client) handleLeaveRoom() {
	if !c.requireJoined() {
		return
	}

	c.orchestrator.LeaveRoom(c.connID, c.roomCode, c.playerID)
	c.joined = false
}

// handleSubmitWord handles a SubmitWord message
func (c *Client) handleSubmitWord(raw json.RawMessage) {
	if !c.requireJoined() {
		return
	}

	var payload SubmitWordPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	c.orchestrator.SubmitWord(c.roomCode, c.playerID, payload.Name, payload.Word)
}

// requireJoined reports an error to the client unless it has joined a room
func (c *Client) requireJoined() bool {
	if !c.joined {
		c.sendError(ErrCodeNotJoined, "Join a room first")
	}
	return c.joined
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.sendMessage(NewServerMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}

// sendMessage encodes and queues a message for this client only
func (c *Client) sendMessage(msg *ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to encode message", "type", msg.Type, "error", err)
		return
	}
	c.Send(data)
}
