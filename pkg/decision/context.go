package decision

import (
	"fmt"
	"net/netip"
	"time"
)

// ContextPolicy holds the contextual access rules: which source networks
// and devices are trusted, and during which hours access is permitted.
type ContextPolicy struct {
	trustedNetworks []netip.Prefix
	trustedDevices  map[string]struct{}

	// Business hours: access is permitted from StartHour (inclusive) to
	// EndHour (exclusive), evaluated in the engine's local time.
	startHour int
	endHour   int
}

// NewContextPolicy builds a context policy. Networks are CIDR ranges;
// invalid ranges are rejected.
func NewContextPolicy(networks []string, devices []string, startHour, endHour int) (*ContextPolicy, error) {
	policy := &ContextPolicy{
		trustedDevices: make(map[string]struct{}, len(devices)),
		startHour:      startHour,
		endHour:        endHour,
	}

	for _, cidr := range networks {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted network %q: %w", cidr, err)
		}
		policy.trustedNetworks = append(policy.trustedNetworks, prefix)
	}
	for _, device := range devices {
		policy.trustedDevices[device] = struct{}{}
	}
	return policy, nil
}

// InTrustedNetwork reports whether the IP falls in a trusted range.
// Unparseable addresses are untrusted.
func (p *ContextPolicy) InTrustedNetwork(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range p.trustedNetworks {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// WithinBusinessHours reports whether the given time falls inside the
// permitted window.
func (p *ContextPolicy) WithinBusinessHours(now time.Time) bool {
	hour := now.Hour()
	return hour >= p.startHour && hour < p.endHour
}

// IsTrustedDevice reports whether the device identifier is recognized.
func (p *ContextPolicy) IsTrustedDevice(device string) bool {
	_, ok := p.trustedDevices[device]
	return ok
}

// Evaluate applies the contextual rules in order: network, hours, device.
func (p *ContextPolicy) Evaluate(req Request, now time.Time) (Outcome, string) {
	if !p.InTrustedNetwork(req.IP) {
		return OutcomeDeny, fmt.Sprintf("Untrusted network source (%s)", req.IP)
	}
	if !p.WithinBusinessHours(now) {
		return OutcomeDeny, "Access attempted outside business hours"
	}
	if !p.IsTrustedDevice(req.Device) {
		return OutcomeReview, fmt.Sprintf("Unrecognized device (%s)", req.Device)
	}
	return OutcomeAllow, "Context validated"
}
