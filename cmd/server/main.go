package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindmeld/internal/app"
	"mindmeld/internal/common/clock"
	"mindmeld/internal/config"
	"mindmeld/internal/domain"
	httpTransport "mindmeld/internal/transport/http"
	"mindmeld/internal/transport/ws"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting mindmeld server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"advanceMode", cfg.Game.AdvanceMode,
	)

	clk := clock.New()

	registry := app.NewRegistry(app.RegistryConfig{
		CodeLength: cfg.Game.RoomCodeLength,
		TTL:        cfg.Game.RoomTTL,
		Settings: domain.RoomSettings{
			MaxRounds:     cfg.Game.MaxRounds,
			RoundDuration: cfg.Game.RoundDuration(),
		},
		Clock:  clk,
		Logger: logger,
	})

	groups := ws.NewGroups(logger)

	orchestrator := app.NewOrchestrator(registry, groups, app.OptionsFromConfig(cfg.Game), clk, logger)
	defer orchestrator.Close()

	wsHandler := ws.NewHandler(orchestrator, groups, ws.HandlerConfig{
		RateLimitPerSecond: cfg.WebSocket.RateLimitPerSecond,
		RateLimitBurst:     cfg.WebSocket.RateLimitBurst,
	}, logger)

	// Create HTTP server
	server := httpTransport.NewServer(cfg, orchestrator, wsHandler, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
