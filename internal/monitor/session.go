// Package monitor runs the database availability monitoring session: the
// latency sampler, the topology monitor and the start/stop lifecycle that
// wires them together.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kirychukyurii/adg-monitor/internal/cache"
	"github.com/kirychukyurii/adg-monitor/internal/config"
	"github.com/kirychukyurii/adg-monitor/internal/eventlog"
	"github.com/kirychukyurii/adg-monitor/internal/metrics"
	"github.com/kirychukyurii/adg-monitor/internal/model"
	"github.com/kirychukyurii/adg-monitor/internal/repository"
)

const secureScheme = "https://"

// Endpoint validation and lifecycle errors
var (
	ErrEndpointRequired = errors.New("endpoint base is required")
	ErrInsecureEndpoint = errors.New("endpoint base must start with " + secureScheme)
	ErrInvalidEndpoint  = errors.New("endpoint base is not a valid URL")
	ErrSessionDisposed  = errors.New("session is disposed")
)

// ClientFactory creates a database API client bound to an endpoint base
type ClientFactory func(endpointBase string) (repository.DBAPIRepository, error)

// Notifier receives every state change of the session
type Notifier interface {
	Publish(update model.Update)
}

// Session owns the monitoring state and the goroutine polling the remote API
type Session struct {
	cfg       config.MonitorConfig
	newClient ClientFactory
	cache     cache.Cache
	cacheTTL  time.Duration
	events    *eventlog.Log
	metrics   *metrics.Metrics
	notifier  Notifier
	logger    *slog.Logger

	// lifecycleMu serializes Start, Stop and Dispose
	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	done        chan struct{}
	disposed    bool

	mu           sync.RWMutex
	state        model.SessionState
	endpointBase string
	generation   uint64 // Bumped on every start and stop, stale results are dropped
	history      *History
	display      model.Display
	lastSnapshot *model.TopologySnapshot
	polling      model.PollingState
}

// NewSession creates a stopped session
func NewSession(
	cfg config.MonitorConfig,
	newClient ClientFactory,
	cache cache.Cache,
	cacheTTL time.Duration,
	events *eventlog.Log,
	metrics *metrics.Metrics,
	notifier Notifier,
	logger *slog.Logger,
) *Session {
	s := &Session{
		cfg:       cfg,
		newClient: newClient,
		cache:     cache,
		cacheTTL:  cacheTTL,
		events:    events,
		metrics:   metrics,
		notifier:  notifier,
		logger:    logger,
		state:     model.SessionStopped,
		history:   NewHistory(cfg.HistorySize),
	}

	events.Subscribe(func(entry model.LogEntry) {
		notifier.Publish(model.Update{Type: model.UpdateEvent, Payload: entry})
	})

	return s
}

// ValidateEndpoint normalizes an operator supplied endpoint base
func ValidateEndpoint(endpointBase string) (string, error) {
	base := strings.TrimSpace(endpointBase)
	if base == "" {
		return "", ErrEndpointRequired
	}

	if !strings.HasPrefix(base, secureScheme) {
		return "", ErrInsecureEndpoint
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}

	return strings.TrimRight(base, "/"), nil
}

// Start validates the endpoint base and starts polling it.
// Starting a running session restarts it against the new endpoint.
func (s *Session) Start(endpointBase string) error {
	base, err := ValidateEndpoint(endpointBase)
	if err != nil {
		s.logger.Warn("rejected monitoring endpoint",
			slog.String("endpoint_base", endpointBase),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.disposed {
		return ErrSessionDisposed
	}

	client, err := s.newClient(base)
	if err != nil {
		return fmt.Errorf("failed to create database api client: %w", err)
	}

	if s.cancel != nil {
		s.logger.Info("restarting running session",
			slog.String("endpoint_base", base),
		)
		s.stopLocked()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = model.SessionRunning
	s.endpointBase = base
	s.lastSnapshot = nil
	s.display = model.Display{}
	s.polling = model.PollingState{
		LatencyTimerActive:      true,
		TopologyTimerActive:     true,
		CurrentTopologyInterval: s.cfg.LatencyInterval,
	}
	s.mu.Unlock()

	s.cancel = cancel
	s.done = done

	s.metrics.SetRunning(true)
	s.metrics.SetTopologyInterval(s.cfg.LatencyInterval)

	s.logger.Info("monitoring session started",
		slog.String("endpoint_base", base),
		slog.Duration("interval", s.cfg.LatencyInterval),
	)

	l := newLoop(s, gen, base, client)
	go l.run(ctx, done)

	s.publishStatus()

	return nil
}

// Stop cancels both timers and any in-flight request. Stopping a stopped session is a no-op.
func (s *Session) Stop() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	s.stopLocked()
}

// Dispose stops the session for good and drops cached enquiry sources
func (s *Session) Dispose() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	s.stopLocked()
	s.disposed = true
	s.cache.Clear()
}

func (s *Session) stopLocked() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil

	s.mu.Lock()
	s.generation++
	s.state = model.SessionStopped
	s.polling = model.PollingState{}
	s.display.Highlighted = false
	base := s.endpointBase
	s.mu.Unlock()

	s.metrics.SetRunning(false)

	s.logger.Info("monitoring session stopped",
		slog.String("endpoint_base", base),
	)

	s.publishStatus()
}

// Status returns a copy of the session state
func (s *Session) Status() model.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return model.Status{
		State:        s.state,
		EndpointBase: s.endpointBase,
		Display:      s.display,
		Polling:      s.polling,
	}
}

// Samples returns the latency history, oldest first
func (s *Session) Samples() []model.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.history.Samples()
}

// Events returns the event log entries in order
func (s *Session) Events() []model.LogEntry {
	return s.events.Entries()
}

func (s *Session) publishStatus() {
	s.notifier.Publish(model.Update{Type: model.UpdateSession, Payload: s.Status()})
}

// setTopologyInterval records a re-armed topology ticker
func (s *Session) setTopologyInterval(gen uint64, interval time.Duration) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.polling.CurrentTopologyInterval = interval
	s.mu.Unlock()

	s.metrics.SetTopologyInterval(interval)

	s.logger.Debug("topology polling interval changed",
		slog.Duration("interval", interval),
	)
}
