// Package region derives short region codes from availability domain names.
package region

import (
	"regexp"

	"github.com/kirychukyurii/adg-monitor/internal/model"
)

// availabilityDomainPattern matches "<prefix>:<COUNTRY>-<REGION>-<n>-AD-<n>", e.g. "BWQr:UK-LONDON-1-AD-3"
var availabilityDomainPattern = regexp.MustCompile(`^.*:(\w+)-(\w+)-\d+-AD-\d+`)

// FromAvailabilityDomain returns the REGION token of an availability domain,
// or "Unknown" when the value does not have the expected shape.
func FromAvailabilityDomain(availabilityDomain string) string {
	match := availabilityDomainPattern.FindStringSubmatch(availabilityDomain)
	if len(match) < 3 {
		return model.ValueUnknown
	}
	return match[2]
}

// Direction formats a "<from> → <to>" pair
func Direction(from, to string) string {
	return from + " → " + to
}
