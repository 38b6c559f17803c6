package monitor

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/kirychukyurii/adg-monitor/internal/model"
)

// applyLatency appends the sample to the history and returns the topology
// interval the sampler asks for. A failed probe becomes a zero sample so the
// chart stays continuous.
func (s *Session) applyLatency(gen uint64, r fetchResult) (time.Duration, bool) {
	var (
		sample model.Sample
		class  model.Classification
	)

	if r.err != nil {
		s.logger.Warn("failed to fetch latency",
			slog.String("error", r.err.Error()),
		)
		sample = model.Sample{Timestamp: r.receivedAt}
		class = model.LatencyFailed
	} else {
		sample = model.Sample{
			Timestamp: parseTimestamp(r.latency.Timestamp, r.receivedAt),
			LatencyMs: r.latency.LatencyMs,
		}
		class = Classify(sample.LatencyMs, s.cfg.LatencyThreshold)
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return 0, false
	}
	s.history.Append(sample)
	samples := s.history.Samples()
	s.mu.Unlock()

	s.metrics.ObserveSample(sample.LatencyMs, class)
	s.notifier.Publish(model.Update{Type: model.UpdateLatency, Payload: samples})

	if class == model.LatencyAbnormal {
		s.events.Record(fmt.Sprintf("Abnormal latency detected: %s ms", formatLatency(sample.LatencyMs)))
	}

	return NextTopologyInterval(s.cfg.LatencyInterval, class), true
}

// parseTimestamp reads an ISO-8601 timestamp, falling back when it is missing or malformed
func parseTimestamp(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fallback
	}
	return t
}

func formatLatency(latencyMs float64) string {
	return strconv.FormatFloat(latencyMs, 'f', -1, 64)
}
