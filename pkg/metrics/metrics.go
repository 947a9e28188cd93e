// Package metrics collects process-wide counters for access decisions and
// remediation activity.
package metrics

import "sync"

// Snapshot is a point-in-time copy of the collected counters.
type Snapshot struct {
	TotalAccessRequests int64            `json:"total_access_requests"`
	AllowedRequests     int64            `json:"allowed_requests"`
	DeniedRequests      int64            `json:"denied_requests"`
	ReviewRequests      int64            `json:"review_requests"`
	TotalRemediations   int64            `json:"total_remediations"`
	RemediationsByCloud map[string]int64 `json:"remediations_by_cloud"`
	EventsByType        map[string]int64 `json:"events_by_type"`
}

// Registry accumulates counters. All methods are safe for concurrent use.
type Registry struct {
	mu sync.Mutex

	totalAccessRequests int64
	allowedRequests     int64
	deniedRequests      int64
	reviewRequests      int64
	totalRemediations   int64
	remediationsByCloud map[string]int64
	eventsByType        map[string]int64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		remediationsByCloud: make(map[string]int64),
		eventsByType:        make(map[string]int64),
	}
}

// Default is the process-wide registry.
var Default = NewRegistry()

// RecordDecision counts an access request by its outcome string
// ("allow", "deny" or "review").
func (r *Registry) RecordDecision(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalAccessRequests++
	switch outcome {
	case "allow":
		r.allowedRequests++
	case "deny":
		r.deniedRequests++
	case "review":
		r.reviewRequests++
	}
}

// RecordRemediation counts a remediation against its cloud.
func (r *Registry) RecordRemediation(cloud string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalRemediations++
	r.remediationsByCloud[cloud]++
}

// RecordEvent counts an arbitrary event by type.
func (r *Registry) RecordEvent(eventType string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.eventsByType[eventType]++
}

// Snapshot returns a deep copy of the current counters.
func (r *Registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := Snapshot{
		TotalAccessRequests: r.totalAccessRequests,
		AllowedRequests:     r.allowedRequests,
		DeniedRequests:      r.deniedRequests,
		ReviewRequests:      r.reviewRequests,
		TotalRemediations:   r.totalRemediations,
		RemediationsByCloud: make(map[string]int64, len(r.remediationsByCloud)),
		EventsByType:        make(map[string]int64, len(r.eventsByType)),
	}
	for cloud, count := range r.remediationsByCloud {
		snapshot.RemediationsByCloud[cloud] = count
	}
	for eventType, count := range r.eventsByType {
		snapshot.EventsByType[eventType] = count
	}
	return snapshot
}

// Reset zeroes every counter. Intended for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalAccessRequests = 0
	r.allowedRequests = 0
	r.deniedRequests = 0
	r.reviewRequests = 0
	r.totalRemediations = 0
	r.remediationsByCloud = make(map[string]int64)
	r.eventsByType = make(map[string]int64)
}
