package http

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"mindmeld/internal/app"
	"mindmeld/internal/config"
	"mindmeld/internal/domain"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = time.Minute

	healthPath = "/api/health"
)

// RoomService is the room API the HTTP handlers call into
type RoomService interface {
	CreateRoom(playerName string) (*app.RoomTicket, error)
	JoinRoomByCode(code, playerName string) (*app.RoomTicket, error)
	RoomInfo(code string) (*app.RoomInfo, error)
	Players(code string) ([]domain.PlayerInfo, error)
	IsHost(code, playerID string) (bool, int, error)
	Stats() app.Stats
}

// Server serves the room REST API and, when configured, the WebSocket endpoint.
type Server struct {
	server *http.Server
	rooms  RoomService
	config *config.Config
	logger *slog.Logger
}

// NewServer builds a Server listening on cfg's address. A nil wsHandler leaves
// GET /ws unrouted.
func NewServer(cfg *config.Config, rooms RoomService, wsHandler http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		rooms:  rooms,
		config: cfg,
		logger: logger,
	}

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.withCORS(s.logRequests(s.routes(wsHandler))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s
}

func (s *Server) routes(wsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("POST /api/rooms/{roomCode}/players", s.handleJoinRoom)
	mux.HandleFunc("GET /api/rooms/{roomCode}", s.handleGetRoom)
	mux.HandleFunc("GET /api/rooms/{roomCode}/exists", s.handleRoomExists)
	mux.HandleFunc("GET /api/rooms/{roomCode}/players", s.handleGetPlayers)
	mux.HandleFunc("GET /api/rooms/{roomCode}/host/{playerId}", s.handleIsHost)
	mux.HandleFunc("GET "+healthPath, s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	if wsHandler != nil {
		mux.Handle("GET /ws", wsHandler)
	}
	return mux
}

// Handler exposes the full middleware chain, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks serving requests until Shutdown
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// withCORS allows any origin and answers preflight requests directly
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logRequests logs one line per request. Health checks drop to debug
// outside development.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if r.URL.Path == healthPath && !s.config.IsDevelopment() {
			level = slog.LevelDebug
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// statusRecorder remembers the status written through it. It forwards
// Hijack and Flush so the WebSocket upgrade still works behind it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

func (rec *statusRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
