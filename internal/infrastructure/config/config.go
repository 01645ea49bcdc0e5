package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Desktop     DesktopConfig
	Auth        AuthConfig
	Logging     LogConfig
	RateLimit   RateLimitConfig
	Compression CompressionConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	AllowedOrigins  []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// DesktopConfig holds window manager and session settings.
type DesktopConfig struct {
	MaxSessions   int `envconfig:"DESKTOP_MAX_SESSIONS" default:"100"`
	BaseZIndex    int `envconfig:"DESKTOP_BASE_Z" default:"10"`
	WindowWidth   int `envconfig:"DESKTOP_WINDOW_WIDTH" default:"600"`
	WindowHeight  int `envconfig:"DESKTOP_WINDOW_HEIGHT" default:"400"`
	PlacementMinX int `envconfig:"DESKTOP_PLACEMENT_MIN_X" default:"50"`
	PlacementMaxX int `envconfig:"DESKTOP_PLACEMENT_MAX_X" default:"250"`
	PlacementMinY int `envconfig:"DESKTOP_PLACEMENT_MIN_Y" default:"50"`
	PlacementMaxY int `envconfig:"DESKTOP_PLACEMENT_MAX_Y" default:"150"`
}

// AuthConfig holds the lock screen credential.
type AuthConfig struct {
	Username    string        `envconfig:"AUTH_USERNAME" default:"user@example.com"`
	Password    string        `envconfig:"AUTH_PASSWORD" default:"password"`
	BcryptCost  int           `envconfig:"AUTH_BCRYPT_COST" default:"10"`
	MaxFailures uint32        `envconfig:"AUTH_MAX_FAILURES" default:"5"`
	Lockout     time.Duration `envconfig:"AUTH_LOCKOUT" default:"30s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CompressionConfig holds response compression configuration.
type CompressionConfig struct {
	Enabled bool `envconfig:"COMPRESSION_ENABLED" default:"true"`
	MinSize int  `envconfig:"COMPRESSION_MIN_SIZE" default:"1024"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects settings the desktop cannot run with.
func (c *Config) Validate() error {
	d := c.Desktop
	if d.WindowWidth <= 0 || d.WindowHeight <= 0 {
		return fmt.Errorf("invalid config: window size %dx%d", d.WindowWidth, d.WindowHeight)
	}
	if d.PlacementMaxX <= d.PlacementMinX || d.PlacementMaxY <= d.PlacementMinY {
		return fmt.Errorf("invalid config: empty placement area")
	}
	if c.Auth.Username == "" || c.Auth.Password == "" {
		return fmt.Errorf("invalid config: AUTH_USERNAME and AUTH_PASSWORD must be set")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Desktop: DesktopConfig{
			MaxSessions:   100,
			BaseZIndex:    10,
			WindowWidth:   600,
			WindowHeight:  400,
			PlacementMinX: 50,
			PlacementMaxX: 250,
			PlacementMinY: 50,
			PlacementMaxY: 150,
		},
		Auth: AuthConfig{
			Username:    "user@example.com",
			Password:    "password",
			BcryptCost:  10,
			MaxFailures: 5,
			Lockout:     30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Compression: CompressionConfig{
			Enabled: true,
			MinSize: 1024,
		},
	}
}
