package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Shell     ShellConfig
	Seed      SeedConfig
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ShellConfig holds interactive shell settings.
type ShellConfig struct {
	Name string `envconfig:"VFS_NAME" default:"myvfs"`
	Home string `envconfig:"VFS_HOME" default:"/"`
	User string `envconfig:"VFS_USER"`
}

// SeedConfig selects what populates the tree at startup.
type SeedConfig struct {
	File          string `envconfig:"VFS_SEED_FILE"`
	HostDir       string `envconfig:"VFS_SEED_DIR"`
	Target        string `envconfig:"VFS_SEED_TARGET" default:"/"`
	MaxFileSize   int64  `envconfig:"VFS_SEED_MAX_FILE_SIZE" default:"1048576"`
	DefaultLayout bool   `envconfig:"VFS_DEFAULT_LAYOUT" default:"false"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	Output      string `envconfig:"LOG_OUTPUT" default:"stderr"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
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

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Shell: ShellConfig{
			Name: "myvfs",
			Home: "/",
		},
		Seed: SeedConfig{
			Target:      "/",
			MaxFileSize: 1 << 20,
		},
		Server: ServerConfig{
			Port: "8080",
			Host: "127.0.0.1",
		},
		Logging: LogConfig{
			Level:  "info",
			Output: "stderr",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
