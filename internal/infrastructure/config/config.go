package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Relay     RelayConfig
	Upstream  UpstreamConfig
	Bootstrap BootstrapConfig
	NATS      NATSConfig
	Logging   LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// RelayConfig holds listener registry configuration.
type RelayConfig struct {
	// AutoConnect fires one connection event at startup so plain HTTP
	// surfaces are served without calling /relay/connect first.
	AutoConnect bool `envconfig:"RELAY_AUTO_CONNECT" default:"true"`
}

// UpstreamConfig holds outbound API client configuration.
type UpstreamConfig struct {
	Timeout        time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"30s"`
	UserAgent      string        `envconfig:"UPSTREAM_USER_AGENT" default:"BewlyRelay/1.0"`
	Override       string        `envconfig:"UPSTREAM_OVERRIDE"`
	BreakerEnabled bool          `envconfig:"UPSTREAM_BREAKER_ENABLED" default:"false"`
}

// BootstrapConfig holds homepage replacement configuration.
type BootstrapConfig struct {
	Host      string `envconfig:"BOOTSTRAP_HOST" default:"bilibili.com"`
	AssetBase string `envconfig:"BOOTSTRAP_ASSET_BASE" default:"/assets/"`
	AssetDir  string `envconfig:"BOOTSTRAP_ASSET_DIR"`
	AppScript string `envconfig:"BOOTSTRAP_APP_SCRIPT" default:"dist/contentScripts/index.global.js"`
}

// NATSConfig holds the optional request/reply transport configuration.
type NATSConfig struct {
	Enabled bool   `envconfig:"NATS_ENABLED" default:"false"`
	URL     string `envconfig:"NATS_URL" default:"nats://127.0.0.1:4222"`
	Subject string `envconfig:"NATS_SUBJECT" default:"bewly.relay.v1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
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

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must not be negative")
	}
	if c.Bootstrap.Host == "" {
		return fmt.Errorf("BOOTSTRAP_HOST is required")
	}
	if c.NATS.Enabled && c.NATS.Subject == "" {
		return fmt.Errorf("NATS_SUBJECT is required when NATS_ENABLED is set")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "127.0.0.1",
		},
		Relay: RelayConfig{
			AutoConnect: true,
		},
		Upstream: UpstreamConfig{
			Timeout:   30 * time.Second,
			UserAgent: "BewlyRelay/1.0",
		},
		Bootstrap: BootstrapConfig{
			Host:      "bilibili.com",
			AssetBase: "/assets/",
			AppScript: "dist/contentScripts/index.global.js",
		},
		NATS: NATSConfig{
			URL:     "nats://127.0.0.1:4222",
			Subject: "bewly.relay.v1",
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}
