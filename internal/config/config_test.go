package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Monitor.LatencyInterval)
	assert.Equal(t, float64(300), cfg.Monitor.LatencyThreshold)
	assert.Equal(t, 30, cfg.Monitor.HistorySize)
	assert.Equal(t, 3*time.Second, cfg.Monitor.HighlightDuration)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
monitor:
  endpoint_base: "https://example.com/api"
  autostart: true
  latency_interval: 1s
  latency_threshold: 150
  history_size: 60
client:
  requests_per_second: 2
  burst: 1
  tls:
    ca: /etc/ssl/ca.pem
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.True(t, cfg.Monitor.Autostart)
	assert.Equal(t, "https://example.com/api", cfg.Monitor.EndpointBase)
	assert.Equal(t, time.Second, cfg.Monitor.LatencyInterval)
	assert.Equal(t, float64(150), cfg.Monitor.LatencyThreshold)
	assert.Equal(t, 60, cfg.Monitor.HistorySize)
	assert.Equal(t, float64(2), cfg.Client.RequestsPerSecond)
	require.NotNil(t, cfg.Client.TLS)
	assert.Equal(t, "/etc/ssl/ca.pem", cfg.Client.TLS.CA)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.SetDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "negative interval", mutate: func(c *Config) { c.Monitor.LatencyInterval = -time.Second }, wantErr: "monitor.latency_interval"},
		{name: "negative history", mutate: func(c *Config) { c.Monitor.HistorySize = -1 }, wantErr: "monitor.history_size"},
		{name: "autostart without endpoint", mutate: func(c *Config) { c.Monitor.Autostart = true }, wantErr: "monitor.endpoint_base"},
		{name: "cert without key", mutate: func(c *Config) { c.Client.TLS = &TLSConfig{Cert: "client.pem"} }, wantErr: "client.tls.cert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
