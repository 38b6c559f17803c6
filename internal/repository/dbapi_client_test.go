package repository

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirychukyurii/adg-monitor/internal/config"
)

func testClientConfig() config.ClientConfig {
	return config.ClientConfig{
		Timeout:           2 * time.Second,
		RequestsPerSecond: 100,
		Burst:             10,
	}
}

func newTestRepository(t *testing.T, handler http.Handler) DBAPIRepository {
	t.Helper()

	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	repo, err := NewDBAPIRepository(srv.URL+"/", testClientConfig(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return repo
}

func TestDBAPIClient_FetchTopology(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dbinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"AVAILABILITY_DOMAIN":"X:UK-LONDON-1-AD-1","AUTONOMOUS_DATA_GUARD":[{"AVAILABILITY_DOMAIN":"X:DE-FRANKFURT-1-AD-2"}]}`))
	})
	repo := newTestRepository(t, mux)

	info, err := repo.FetchTopology(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "X:UK-LONDON-1-AD-1", info.AvailabilityDomain)
	require.Len(t, info.AutonomousDataGuard, 1)
	assert.Equal(t, "X:DE-FRANKFURT-1-AD-2", info.AutonomousDataGuard[0].AvailabilityDomain)
}

func TestDBAPIClient_FetchLatency(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/latency", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"latency_ms":42.5,"timestamp":"2025-03-01T09:05:07Z"}`))
	})
	repo := newTestRepository(t, mux)

	reading, err := repo.FetchLatency(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 42.5, reading.LatencyMs, 0.0001)
	assert.Equal(t, "2025-03-01T09:05:07Z", reading.Timestamp)
}

func TestDBAPIClient_FetchSourceRegion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"city":"london"}`))
	})
	repo := newTestRepository(t, mux)

	source, err := repo.FetchSourceRegion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "london", source.City)
}

func TestDBAPIClient_UnexpectedStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dbinfo", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
	})
	repo := newTestRepository(t, mux)

	_, err := repo.FetchTopology(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestDBAPIClient_MalformedBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/latency", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	repo := newTestRepository(t, mux)

	_, err := repo.FetchLatency(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode /latency response")
}

func TestDBAPIClient_ContextCanceled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/latency", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"latency_ms":1}`))
	})
	repo := newTestRepository(t, mux)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FetchLatency(ctx)
	require.Error(t, err)
}

func TestNewDBAPIRepository_InvalidTLS(t *testing.T) {
	cfg := testClientConfig()
	cfg.TLS = &config.TLSConfig{CA: "/nonexistent/ca.pem"}

	_, err := NewDBAPIRepository("https://example.com", cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load TLS config")
}
