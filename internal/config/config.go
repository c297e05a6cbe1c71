package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Round advance policies
const (
	AdvanceHost = "host" // host sends StartNextRound
	AdvanceAuto = "auto" // next round starts after AutoAdvanceDelay
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Game      GameConfig
	WebSocket WebSocketConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration
type GameConfig struct {
	MinPlayers       int
	MaxPlayers       int
	MaxRounds        int
	RoundSeconds     int
	TickInterval     time.Duration
	CountdownSeconds int // 0 disables the pre-game countdown
	AdvanceMode      string
	AutoAdvanceDelay time.Duration
	RoomTTL          time.Duration
	SweepInterval    time.Duration
	RoomCodeLength   int
}

// WebSocketConfig holds per-connection limits
type WebSocketConfig struct {
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults.
// Variables from the file named by ENV_FILE (default ".env") are applied first
// without overriding the real environment.
func Load() (*Config, error) {
	if err := loadEnvFile(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			MinPlayers:       getEnvInt("MIN_PLAYERS", 2),
			MaxPlayers:       getEnvInt("MAX_PLAYERS", 10),
			MaxRounds:        getEnvInt("MAX_ROUNDS", 5),
			RoundSeconds:     getEnvInt("ROUND_SECONDS", 15),
			TickInterval:     getEnvDuration("TICK_INTERVAL", time.Second),
			CountdownSeconds: getEnvInt("COUNTDOWN_SECONDS", 5),
			AdvanceMode:      getEnv("ADVANCE_MODE", AdvanceHost),
			AutoAdvanceDelay: getEnvDuration("AUTO_ADVANCE_DELAY", 5*time.Second),
			RoomTTL:          getEnvDuration("ROOM_TTL", 15*time.Minute),
			SweepInterval:    getEnvDuration("SWEEP_INTERVAL", time.Minute),
			RoomCodeLength:   getEnvInt("ROOM_CODE_LENGTH", 4),
		},
		WebSocket: WebSocketConfig{
			RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 5),
			RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 10),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// RoundDuration returns the wall-clock length of a round
func (g GameConfig) RoundDuration() time.Duration {
	return time.Duration(g.RoundSeconds) * g.TickInterval
}

// AutoAdvance reports whether rounds advance without host action
func (g GameConfig) AutoAdvance() bool {
	return g.AdvanceMode == AdvanceAuto
}

// loadEnvFile applies a dotenv file if it exists
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat returns an environment variable as a float or a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration returns an environment variable as a duration or a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
