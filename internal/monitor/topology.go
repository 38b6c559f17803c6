package monitor

import (
	"log/slog"

	"github.com/kirychukyurii/adg-monitor/internal/model"
	"github.com/kirychukyurii/adg-monitor/internal/region"
)

// applyTopology updates the displays from a dbinfo result and reports whether
// the placement changed since the last successful fetch.
func (s *Session) applyTopology(gen uint64, r fetchResult) bool {
	s.metrics.ObserveTopologyFetch(r.err)

	if r.err != nil {
		s.logger.Error("failed to fetch dbinfo",
			slog.String("error", r.err.Error()),
		)

		s.mu.Lock()
		if gen != s.generation {
			s.mu.Unlock()
			return false
		}
		s.display.PrimaryAZ = model.ValueError
		s.display.StandbyAZ = model.ValueError
		display := s.display
		s.mu.Unlock()

		s.notifier.Publish(model.Update{Type: model.UpdateTopology, Payload: display})
		return false
	}

	snapshot := model.NewTopologySnapshot(r.topology)

	primary := snapshot.PrimaryAvailabilityDomain
	if primary == "" {
		primary = model.ValueUnknown
	}

	standby := model.ValueNotAvailable
	if snapshot.HasStandby() {
		standby = snapshot.StandbyAvailabilityDomain
		if standby == "" {
			standby = model.ValueUnknown
		}
	}

	replication := region.Direction(region.FromAvailabilityDomain(primary), region.FromAvailabilityDomain(standby))

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false
	}
	s.display.PrimaryAZ = primary
	s.display.StandbyAZ = standby
	s.display.ReplicationDirection = replication

	changed := !snapshot.Equal(s.lastSnapshot)
	s.lastSnapshot = &snapshot
	s.updateEnquiryDirectionLocked()
	if changed {
		s.display.Highlighted = true
	}
	display := s.display
	s.mu.Unlock()

	if changed {
		s.metrics.TopologyChanged()
		s.events.Record("Dataguard Direction: " + replication)
	}

	s.notifier.Publish(model.Update{Type: model.UpdateTopology, Payload: display})

	return changed
}

// updateEnquiryDirectionLocked recomputes the enquiry direction from the last
// known primary, once both the enquiry source and a snapshot are known
func (s *Session) updateEnquiryDirectionLocked() {
	if s.display.EnquirySource == "" || s.lastSnapshot == nil {
		return
	}
	primary := region.FromAvailabilityDomain(s.lastSnapshot.PrimaryAvailabilityDomain)
	s.display.EnquiryDirection = region.Direction(s.display.EnquirySource, primary)
}

// setHighlighted toggles the topology highlight
func (s *Session) setHighlighted(gen uint64, highlighted bool) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.display.Highlighted = highlighted
	display := s.display
	s.mu.Unlock()

	s.notifier.Publish(model.Update{Type: model.UpdateTopology, Payload: display})
}
