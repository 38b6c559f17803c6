package model

import "time"

// LogEntry is a single line of the operator event log
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
	Line    string    `json:"line"` // "[HH:MM:SS] message"
}

// UpdateType identifies the kind of change pushed to subscribers
type UpdateType string

// Update types
const (
	UpdateLatency  UpdateType = "latency"
	UpdateTopology UpdateType = "topology"
	UpdateEvent    UpdateType = "event"
	UpdateSession  UpdateType = "session"
)

// Update is a state change pushed to dashboard subscribers
type Update struct {
	Type    UpdateType `json:"type"`
	Payload any        `json:"payload"`
}
