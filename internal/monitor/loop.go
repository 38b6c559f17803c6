package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/kirychukyurii/adg-monitor/internal/concurrent"
	"github.com/kirychukyurii/adg-monitor/internal/model"
	"github.com/kirychukyurii/adg-monitor/internal/repository"
)

type fetchKind int

const (
	fetchLatency fetchKind = iota
	fetchTopology
	fetchEnquiry
)

func (k fetchKind) String() string {
	switch k {
	case fetchLatency:
		return "latency"
	case fetchTopology:
		return "topology"
	case fetchEnquiry:
		return "enquiry"
	default:
		return "unknown"
	}
}

// fetchResult is the outcome of one remote call, posted back to the loop
type fetchResult struct {
	kind       fetchKind
	seq        uint64
	receivedAt time.Time
	latency    *model.LatencyReading
	topology   *model.DBInfo
	source     *model.SourceRegion
	err        error
}

// loop is the single goroutine mutating session state for one generation
type loop struct {
	session *Session
	gen     uint64
	base    string
	client  repository.DBAPIRepository
	results chan fetchResult

	seq     uint64
	applied map[fetchKind]uint64

	enquiryResolved bool
	enquiryPending  bool
	enquiryFailures int

	topologyTicker   *time.Ticker
	topologyInterval time.Duration
	highlight        *time.Timer
}

func newLoop(s *Session, gen uint64, base string, client repository.DBAPIRepository) *loop {
	return &loop{
		session: s,
		gen:     gen,
		base:    base,
		client:  client,
		results: make(chan fetchResult),
		applied: make(map[fetchKind]uint64),
	}
}

func (l *loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	interval := l.session.cfg.LatencyInterval

	latencyTicker := time.NewTicker(interval)
	defer latencyTicker.Stop()

	l.topologyTicker = time.NewTicker(interval)
	l.topologyInterval = interval
	defer l.topologyTicker.Stop()

	defer func() {
		if l.highlight != nil {
			l.highlight.Stop()
		}
	}()

	l.bootstrap(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-latencyTicker.C:
			l.fetch(ctx, fetchLatency)
		case <-l.topologyTicker.C:
			l.fetch(ctx, fetchTopology)
			if !l.enquiryResolved && !l.enquiryPending {
				l.enquiryPending = true
				l.fetch(ctx, fetchEnquiry)
			}
		case r := <-l.results:
			l.handle(r)
		case <-timerC(l.highlight):
			l.session.setHighlighted(l.gen, false)
		}
	}
}

// bootstrap resolves the enquiry source and fetches the topology once, concurrently,
// without holding up the loop. The enquiry source is posted first so the first
// topology already shows the enquiry direction.
func (l *loop) bootstrap(ctx context.Context) {
	if source, ok := l.session.cachedEnquirySource(l.base); ok {
		l.session.setEnquirySource(l.gen, source)
		l.enquiryResolved = true
	}

	kinds := make([]fetchKind, 0, 2)
	if !l.enquiryResolved {
		kinds = append(kinds, fetchEnquiry)
		l.enquiryPending = true
	}
	kinds = append(kinds, fetchTopology)

	tasks := make([]concurrent.Task[fetchResult], 0, len(kinds))
	for _, kind := range kinds {
		l.seq++
		seq := l.seq
		tasks = append(tasks, func(ctx context.Context) (fetchResult, error) {
			r := l.do(ctx, kind)
			r.seq = seq
			return r, r.err
		})
	}

	go func() {
		for _, result := range concurrent.ParallelExecute(ctx, tasks) {
			select {
			case l.results <- result.Value:
			case <-ctx.Done():
				return
			}
		}
	}()
}

// fetch issues one remote call without blocking the loop
func (l *loop) fetch(ctx context.Context, kind fetchKind) {
	l.seq++
	seq := l.seq

	go func() {
		r := l.do(ctx, kind)
		r.seq = seq

		select {
		case l.results <- r:
		case <-ctx.Done():
		}
	}()
}

func (l *loop) do(ctx context.Context, kind fetchKind) fetchResult {
	r := fetchResult{kind: kind}

	switch kind {
	case fetchLatency:
		r.latency, r.err = l.client.FetchLatency(ctx)
	case fetchTopology:
		r.topology, r.err = l.client.FetchTopology(ctx)
	case fetchEnquiry:
		r.source, r.err = l.client.FetchSourceRegion(ctx)
	}

	r.receivedAt = time.Now()
	return r
}

// handle applies a result unless a newer one of the same kind was already applied
func (l *loop) handle(r fetchResult) {
	if r.seq <= l.applied[r.kind] {
		l.session.logger.Debug("discarding out of order result",
			slog.String("kind", r.kind.String()),
			slog.Uint64("seq", r.seq),
		)
		return
	}
	l.applied[r.kind] = r.seq

	switch r.kind {
	case fetchLatency:
		if interval, ok := l.session.applyLatency(l.gen, r); ok {
			l.retune(interval)
		}
	case fetchTopology:
		if l.session.applyTopology(l.gen, r) {
			l.startHighlight()
		}
	case fetchEnquiry:
		l.enquiryPending = false
		if r.err != nil {
			l.enquiryFailures++
		}
		l.enquiryResolved = l.session.applyEnquiry(l.gen, l.base, r, l.enquiryFailures == 1)
	}
}

// retune re-arms the topology ticker when the sampler asks for a different cadence
func (l *loop) retune(interval time.Duration) {
	if l.topologyTicker == nil || interval == l.topologyInterval {
		return
	}

	l.topologyTicker.Reset(interval)
	l.topologyInterval = interval
	l.session.setTopologyInterval(l.gen, interval)
}

// startHighlight opens or restarts the highlight window
func (l *loop) startHighlight() {
	d := l.session.cfg.HighlightDuration
	if l.highlight == nil {
		l.highlight = time.NewTimer(d)
		return
	}
	l.highlight.Reset(d)
}

func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
