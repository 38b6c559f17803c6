package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/time/rate"

	"github.com/kirychukyurii/adg-monitor/internal/config"
	"github.com/kirychukyurii/adg-monitor/internal/model"
	"github.com/kirychukyurii/adg-monitor/internal/util"
)

const maxResponseBytes = 1 << 20

// ErrUnexpectedStatus is returned when the remote API answers with a non-2xx status
var ErrUnexpectedStatus = errors.New("unexpected response status")

// DBAPIRepository defines the operations of the remote database availability API
type DBAPIRepository interface {
	// FetchLatency reads the latest SQL latency measurement
	FetchLatency(ctx context.Context) (*model.LatencyReading, error)

	// FetchTopology reads the primary and standby placement
	FetchTopology(ctx context.Context) (*model.DBInfo, error)

	// FetchSourceRegion reads the geographic origin of this client
	FetchSourceRegion(ctx context.Context) (*model.SourceRegion, error)
}

// Option configures a dbAPIClient
type Option func(*dbAPIClient)

// WithHTTPClient overrides the pooled HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *dbAPIClient) {
		c.httpClient = client
	}
}

// WithLimiter shares a request limiter between clients
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *dbAPIClient) {
		c.limiter = limiter
	}
}

// dbAPIClient implements DBAPIRepository over HTTPS
type dbAPIClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        config.ClientConfig
	logger     *slog.Logger
}

// NewDBAPIRepository creates a client bound to a single endpoint base
func NewDBAPIRepository(baseURL string, cfg config.ClientConfig, logger *slog.Logger, opts ...Option) (DBAPIRepository, error) {
	c := &dbAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		cfg:     cfg,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		httpClient, err := createHTTPClient(cfg)
		if err != nil {
			return nil, err
		}
		c.httpClient = httpClient
	}

	if c.limiter == nil {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	return c, nil
}

// createHTTPClient builds a pooled client with optional custom TLS
func createHTTPClient(cfg config.ClientConfig) (*http.Client, error) {
	transport := cleanhttp.DefaultPooledTransport()

	if cfg.TLS != nil {
		tlsConfig, err := util.LoadTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS config: %w", err)
		}
		transport.TLSClientConfig = tlsConfig
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, nil
}

// FetchLatency reads the latest SQL latency measurement
func (c *dbAPIClient) FetchLatency(ctx context.Context) (*model.LatencyReading, error) {
	var reading model.LatencyReading
	if err := c.getJSON(ctx, "/latency", &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}

// FetchTopology reads the primary and standby placement
func (c *dbAPIClient) FetchTopology(ctx context.Context) (*model.DBInfo, error) {
	var info model.DBInfo
	if err := c.getJSON(ctx, "/dbinfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FetchSourceRegion reads the geographic origin of this client
func (c *dbAPIClient) FetchSourceRegion(ctx context.Context) (*model.SourceRegion, error) {
	var source model.SourceRegion
	if err := c.getJSON(ctx, "/", &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// getJSON performs a rate limited GET and decodes the JSON body into out
func (c *dbAPIClient) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for request slot: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: GET %s returned %d: %s", ErrUnexpectedStatus, path, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	c.logger.Debug("remote api request completed",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
	)

	return nil
}
