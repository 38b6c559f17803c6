package model

import "time"

// SessionState represents the session controller state
type SessionState string

// Session states
const (
	SessionStopped SessionState = "stopped"
	SessionRunning SessionState = "running"
)

// Display holds the operator-facing texts derived from the remote API
type Display struct {
	PrimaryAZ            string `json:"primary_az"`
	StandbyAZ            string `json:"standby_az"`
	EnquirySource        string `json:"enquiry_source"`
	EnquiryDirection     string `json:"enquiry_direction"`
	ReplicationDirection string `json:"replication_direction"`
	Highlighted          bool   `json:"highlighted"` // Set for a short window after a topology change
}

// PollingState describes the timers of a session
type PollingState struct {
	LatencyTimerActive      bool          `json:"latency_timer_active"`
	TopologyTimerActive     bool          `json:"topology_timer_active"`
	CurrentTopologyInterval time.Duration `json:"current_topology_interval"`
}

// Status represents the current status of the monitoring session
type Status struct {
	State        SessionState `json:"state"`
	EndpointBase string       `json:"endpoint_base,omitempty"`
	Display      Display      `json:"display"`
	Polling      PollingState `json:"polling"`
}
