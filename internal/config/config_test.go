package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInspector_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadInspector(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultInspector(), cfg)
}

func TestLoadInspector_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inspector.yaml")
	data := []byte(`
log_level: debug
login:
  enabled: true
  listen: 0.0.0.0:4002
  upstream: 10.0.0.1:4002
world:
  enabled: false
database:
  enabled: true
  host: db
  port: 5433
nats:
  enabled: true
  url: nats://nats:4222
  subject: capture
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadInspector(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:4002", cfg.Login.Listen)
	assert.Equal(t, "10.0.0.1:4002", cfg.Login.Upstream)
	assert.False(t, cfg.World.Enabled)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "postgres://nosgo:nosgo@db:5433/nosgo?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "capture", cfg.NATS.Subject)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadInspector_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("login: [unclosed"), 0o600))

	_, err := LoadInspector(path)
	assert.Error(t, err)
}

func TestInspector_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Inspector)
		wantErr error
	}{
		{"defaults", func(*Inspector) {}, nil},
		{"no channels", func(c *Inspector) {
			c.Login.Enabled = false
			c.World.Enabled = false
		}, ErrNoChannels},
		{"login without upstream", func(c *Inspector) { c.Login.Upstream = "" }, ErrMissingAddress},
		{"disabled world without addresses", func(c *Inspector) {
			c.World = ChannelConfig{}
		}, nil},
		{"metrics without listen", func(c *Inspector) { c.Metrics.Listen = "" }, ErrMissingAddress},
		{"nats without url", func(c *Inspector) {
			c.NATS.Enabled = true
			c.NATS.URL = ""
		}, ErrMissingAddress},
		{"bad log level", func(c *Inspector) { c.LogLevel = "loud" }, ErrUnknownLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultInspector()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
