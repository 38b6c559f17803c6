package model

import "time"

// Sample is a single latency measurement plotted on the chart
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	LatencyMs float64   `json:"latency_ms"`
}

// LatencyReading is the payload returned by GET {base}/latency
type LatencyReading struct {
	LatencyMs float64 `json:"latency_ms"`
	Timestamp string  `json:"timestamp"` // ISO-8601
}

// Classification is the result of comparing a sample with the latency threshold
type Classification string

// Latency classifications
const (
	LatencyNormal   Classification = "normal"
	LatencyAbnormal Classification = "abnormal"
	LatencyFailed   Classification = "failed" // The probe itself failed
)
