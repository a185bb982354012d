package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Inspector holds all configuration for the packet inspector.
type Inspector struct {
	// Proxied channels
	Login ChannelConfig `yaml:"login"`
	World ChannelConfig `yaml:"world"`

	// Observability
	LogLevel string        `yaml:"log_level"`
	Metrics  MetricsConfig `yaml:"metrics"`

	// Packet sinks
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
}

// ChannelConfig describes one proxied channel: where clients connect and
// where the real server lives.
type ChannelConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Listen   string `yaml:"listen"`
	Upstream string `yaml:"upstream"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// NATSConfig controls publishing decoded packets to NATS.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	// Subject prefix; packets go to <subject>.<channel>.<direction>
	Subject string `yaml:"subject"`
}

// DefaultInspector returns Inspector config with sensible defaults.
// Listen ports mirror the client defaults (4002 login, 1337 first world channel);
// upstreams point at a local server on the next port up.
func DefaultInspector() Inspector {
	return Inspector{
		Login: ChannelConfig{
			Enabled:  true,
			Listen:   "127.0.0.1:4002",
			Upstream: "127.0.0.1:4003",
		},
		World: ChannelConfig{
			Enabled:  true,
			Listen:   "127.0.0.1:1337",
			Upstream: "127.0.0.1:1338",
		},
		LogLevel: "info",
		Metrics: MetricsConfig{
			Enabled: true,
			Listen:  "127.0.0.1:9108",
		},
		Database: DatabaseConfig{
			Enabled:  false,
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "nosgo",
			Password: "nosgo",
			DBName:   "nosgo",
			SSLMode:  "disable",
		},
		NATS: NATSConfig{
			Enabled: false,
			URL:     "nats://127.0.0.1:4222",
			Subject: "nosgo.packets",
		},
	}
}

// LoadInspector loads inspector config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadInspector(path string) (Inspector, error) {
	cfg := DefaultInspector()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

var (
	ErrNoChannels      = errors.New("no channel enabled")
	ErrMissingAddress  = errors.New("missing address")
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// Validate checks that every enabled section has the addresses it needs.
func (c Inspector) Validate() error {
	if !c.Login.Enabled && !c.World.Enabled {
		return ErrNoChannels
	}
	for name, ch := range map[string]ChannelConfig{"login": c.Login, "world": c.World} {
		if !ch.Enabled {
			continue
		}
		if ch.Listen == "" || ch.Upstream == "" {
			return fmt.Errorf("%s channel: %w", name, ErrMissingAddress)
		}
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics: %w", ErrMissingAddress)
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return fmt.Errorf("nats: %w", ErrMissingAddress)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts LogLevel to a slog.Level.
func (c Inspector) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, c.LogLevel)
	}
}
