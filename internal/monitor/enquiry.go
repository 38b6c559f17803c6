package monitor

import (
	"log/slog"
	"strings"

	"github.com/kirychukyurii/adg-monitor/internal/model"
)

// cachedEnquirySource returns an enquiry source resolved for the same endpoint earlier
func (s *Session) cachedEnquirySource(base string) (string, bool) {
	cached, ok := s.cache.Get(base)
	if !ok {
		return "", false
	}
	source, ok := cached.(string)
	return source, ok && source != ""
}

// applyEnquiry stores the resolved enquiry source and reports whether it is now known.
// Failures are logged, and recorded in the event log when announce is set.
func (s *Session) applyEnquiry(gen uint64, base string, r fetchResult, announce bool) bool {
	if r.err != nil {
		s.metrics.EnquiryFailed()
		s.logger.Warn("failed to resolve enquiry source, will retry",
			slog.String("endpoint_base", base),
			slog.String("error", r.err.Error()),
		)
		if announce {
			s.events.Record("Enquiry source unavailable: " + r.err.Error())
		}
		return false
	}

	city := r.source.City
	if city == "" {
		city = model.ValueUnknown
	}
	source := strings.ToUpper(city)

	if !s.setEnquirySource(gen, source) {
		return false
	}

	s.cache.Set(base, source, s.cacheTTL)

	s.logger.Info("enquiry source resolved",
		slog.String("endpoint_base", base),
		slog.String("enquiry_source", source),
	)

	return true
}

// setEnquirySource publishes the enquiry source and the directions derived from it
func (s *Session) setEnquirySource(gen uint64, source string) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false
	}
	s.display.EnquirySource = source
	s.updateEnquiryDirectionLocked()
	display := s.display
	s.mu.Unlock()

	s.notifier.Publish(model.Update{Type: model.UpdateTopology, Payload: display})

	return true
}
