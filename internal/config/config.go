package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Cache   CacheConfig   `koanf:"cache"`
	Monitor MonitorConfig `koanf:"monitor"`
	Client  ClientConfig  `koanf:"client"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	BasePath     string        `koanf:"base_path"` // Optional base path for reverse proxy (e.g., "/adg-monitor")
}

// LogConfig represents logger configuration
type LogConfig struct {
	Level string `koanf:"level"` // debug | info | warn | error
}

// CacheConfig represents cache configuration
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"` // How long a resolved enquiry source is reused across sessions
}

// MonitorConfig represents the monitoring session configuration
type MonitorConfig struct {
	EndpointBase      string        `koanf:"endpoint_base"`      // Started on boot when Autostart is set
	Autostart         bool          `koanf:"autostart"`
	LatencyInterval   time.Duration `koanf:"latency_interval"`   // Base interval for both tickers
	LatencyThreshold  float64       `koanf:"latency_threshold"`  // Milliseconds, samples at or above are abnormal
	HistorySize       int           `koanf:"history_size"`
	HighlightDuration time.Duration `koanf:"highlight_duration"`
}

// ClientConfig represents the remote database API client configuration
type ClientConfig struct {
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	TLS               *TLSConfig    `koanf:"tls"`
}

// TLSConfig represents TLS configuration for the database API client
type TLSConfig struct {
	CA   string `koanf:"ca"`
	Cert string `koanf:"cert"` // Optional client certificate
	Key  string `koanf:"key"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Load YAML config
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// SetDefaults fills unset values with the monitor defaults
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
	if c.Monitor.LatencyInterval == 0 {
		c.Monitor.LatencyInterval = 3 * time.Second
	}
	if c.Monitor.LatencyThreshold == 0 {
		c.Monitor.LatencyThreshold = 300
	}
	if c.Monitor.HistorySize == 0 {
		c.Monitor.HistorySize = 30
	}
	if c.Monitor.HighlightDuration == 0 {
		c.Monitor.HighlightDuration = 3 * time.Second
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = 5 * time.Second
	}
	if c.Client.RequestsPerSecond == 0 {
		c.Client.RequestsPerSecond = 10
	}
	if c.Client.Burst == 0 {
		c.Client.Burst = 5
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level is invalid: %w", err)
	}

	if c.Monitor.LatencyInterval <= 0 {
		return fmt.Errorf("monitor.latency_interval must be positive")
	}
	if c.Monitor.LatencyThreshold <= 0 {
		return fmt.Errorf("monitor.latency_threshold must be positive")
	}
	if c.Monitor.HistorySize <= 0 {
		return fmt.Errorf("monitor.history_size must be positive")
	}
	if c.Monitor.HighlightDuration <= 0 {
		return fmt.Errorf("monitor.highlight_duration must be positive")
	}
	if c.Monitor.Autostart && c.Monitor.EndpointBase == "" {
		return fmt.Errorf("monitor.endpoint_base is required when monitor.autostart is enabled")
	}

	if c.Client.RequestsPerSecond <= 0 {
		return fmt.Errorf("client.requests_per_second must be positive")
	}
	if c.Client.Burst <= 0 {
		return fmt.Errorf("client.burst must be positive")
	}

	if c.Client.TLS != nil {
		if (c.Client.TLS.Cert == "") != (c.Client.TLS.Key == "") {
			return fmt.Errorf("client.tls.cert and client.tls.key must be set together")
		}
	}

	return nil
}

// SlogLevel returns the configured log level
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
