package model

// Display placeholders shown when the remote API gives no usable value
const (
	ValueUnknown      = "Unknown"
	ValueNotAvailable = "Not Available"
	ValueError        = "Error"
)

// DBInfo is the payload returned by GET {base}/dbinfo
type DBInfo struct {
	AvailabilityDomain  string         `json:"AVAILABILITY_DOMAIN"`
	AutonomousDataGuard []StandbyEntry `json:"AUTONOMOUS_DATA_GUARD"`
}

// StandbyEntry is a single Autonomous Data Guard peer
type StandbyEntry struct {
	AvailabilityDomain string `json:"AVAILABILITY_DOMAIN"`
}

// SourceRegion is the payload returned by GET {base}/
type SourceRegion struct {
	City string `json:"city"`
}

// TopologySnapshot is the last known primary/standby placement.
// Standbys is the number of reported Data Guard peers; only the first one is tracked.
type TopologySnapshot struct {
	PrimaryAvailabilityDomain string `json:"primary_availability_domain"`
	StandbyAvailabilityDomain string `json:"standby_availability_domain,omitempty"`
	Standbys                  int    `json:"standbys"`
}

// NewTopologySnapshot builds a snapshot from the raw dbinfo payload
func NewTopologySnapshot(info *DBInfo) TopologySnapshot {
	snapshot := TopologySnapshot{
		PrimaryAvailabilityDomain: info.AvailabilityDomain,
		Standbys:                  len(info.AutonomousDataGuard),
	}
	if len(info.AutonomousDataGuard) > 0 {
		snapshot.StandbyAvailabilityDomain = info.AutonomousDataGuard[0].AvailabilityDomain
	}
	return snapshot
}

// HasStandby reports whether any Data Guard peer was reported
func (s *TopologySnapshot) HasStandby() bool {
	return s.Standbys > 0
}

// Equal reports whether two snapshots describe the same placement
func (s *TopologySnapshot) Equal(other *TopologySnapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	return *s == *other
}
