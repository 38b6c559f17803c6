package monitor

import (
	"time"

	"github.com/kirychukyurii/adg-monitor/internal/model"
)

// Topology cadence multipliers applied to the base interval
const (
	fastFactor = 0.5
	slowFactor = 2.0
)

// Classify reports whether a latency is within (0, threshold)
func Classify(latencyMs, thresholdMs float64) model.Classification {
	if latencyMs > 0 && latencyMs < thresholdMs {
		return model.LatencyNormal
	}
	return model.LatencyAbnormal
}

// NextTopologyInterval returns the topology interval the sampler asks for.
// Anything but a normal sample speeds topology polling up.
func NextTopologyInterval(base time.Duration, class model.Classification) time.Duration {
	if class == model.LatencyNormal {
		return time.Duration(float64(base) * slowFactor)
	}
	return time.Duration(float64(base) * fastFactor)
}
