// Package metrics exposes Prometheus collectors for the monitoring session.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirychukyurii/adg-monitor/internal/model"
)

const namespace = "adg_monitor"

// Metrics holds the session collectors
type Metrics struct {
	latency          prometheus.Gauge
	samples          *prometheus.CounterVec
	topologyFetches  *prometheus.CounterVec
	topologyChanges  prometheus.Counter
	topologyInterval prometheus.Gauge
	enquiryFailures  prometheus.Counter
	sessionRunning   prometheus.Gauge
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		latency: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sql_latency_milliseconds",
			Help:      "Last SQL latency reported by the database API.",
		}),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "latency_samples_total",
			Help:      "Latency samples by classification.",
		}, []string{"classification"}),
		topologyFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topology_fetches_total",
			Help:      "Topology fetches by result.",
		}, []string{"result"}),
		topologyChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topology_changes_total",
			Help:      "Detected primary/standby placement changes.",
		}),
		topologyInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "topology_poll_interval_seconds",
			Help:      "Current topology polling interval.",
		}),
		enquiryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enquiry_source_failures_total",
			Help:      "Failed enquiry source resolutions.",
		}),
		sessionRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_running",
			Help:      "1 while a monitoring session is running.",
		}),
	}

	reg.MustRegister(
		m.latency,
		m.samples,
		m.topologyFetches,
		m.topologyChanges,
		m.topologyInterval,
		m.enquiryFailures,
		m.sessionRunning,
	)

	return m
}

// ObserveSample records a latency sample and its classification
func (m *Metrics) ObserveSample(latencyMs float64, class model.Classification) {
	m.latency.Set(latencyMs)
	m.samples.WithLabelValues(string(class)).Inc()
}

// ObserveTopologyFetch records a topology fetch result
func (m *Metrics) ObserveTopologyFetch(err error) {
	if err != nil {
		m.topologyFetches.WithLabelValues("error").Inc()
		return
	}
	m.topologyFetches.WithLabelValues("success").Inc()
}

// TopologyChanged counts a detected placement change
func (m *Metrics) TopologyChanged() {
	m.topologyChanges.Inc()
}

// SetTopologyInterval records the current topology cadence
func (m *Metrics) SetTopologyInterval(interval time.Duration) {
	m.topologyInterval.Set(interval.Seconds())
}

// EnquiryFailed counts a failed enquiry source resolution
func (m *Metrics) EnquiryFailed() {
	m.enquiryFailures.Inc()
}

// SetRunning records the session state
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.sessionRunning.Set(1)
		return
	}
	m.sessionRunning.Set(0)
}
