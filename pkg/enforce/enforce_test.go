package enforce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ztguard/ztguard/pkg/audit"
	"github.com/ztguard/ztguard/pkg/decision"
	"github.com/ztguard/ztguard/pkg/metrics"
)

func newTestEnforcer(t *testing.T, events *[]audit.Event, registry *metrics.Registry) *Enforcer {
	t.Helper()

	policy, err := decision.NewContextPolicy(
		[]string{"10.0.0.0/8"},
		[]string{"laptop-42"},
		9, 17,
	)
	require.NoError(t, err)

	rules := &decision.RuleSet{
		DefaultOutcome: decision.OutcomeDeny,
		Rules: []decision.Rule{
			{ID: "allow-read", Description: "Read access is always safe", Outcome: decision.OutcomeAllow,
				Conditions: decision.Conditions{Actions: []string{"s3:GetObject"}}},
		},
	}

	insideHours := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	engine := decision.NewEngine(policy, rules,
		decision.WithEngineClock(func() time.Time { return insideHours }))

	return NewEnforcer(engine,
		WithRegistry(registry),
		WithAuditFunc(func(e audit.Event) { *events = append(*events, e) }),
	)
}

func TestEnforce_Allow(t *testing.T) {
	var events []audit.Event
	registry := metrics.NewRegistry()
	enforcer := newTestEnforcer(t, &events, registry)

	result, err := enforcer.Enforce(decision.Request{
		User: "alice", Action: "s3:GetObject", Resource: "arn:aws:s3:::prod-data",
		IP: "10.1.2.3", Device: "laptop-42",
	})
	require.NoError(t, err)

	assert.Equal(t, decision.OutcomeAllow, result.Decision.Outcome)
	assert.Nil(t, result.Remediation)

	snapshot := registry.Snapshot()
	assert.Equal(t, int64(1), snapshot.AllowedRequests)
	assert.Zero(t, snapshot.TotalRemediations)

	require.Len(t, events, 1)
	_, ok := events[0].(audit.DecisionEvent)
	assert.True(t, ok)
}

func TestEnforce_DenyRevokesAccess(t *testing.T) {
	var events []audit.Event
	registry := metrics.NewRegistry()
	enforcer := newTestEnforcer(t, &events, registry)

	result, err := enforcer.Enforce(decision.Request{
		User: "mallory", Action: "iam:PassRole", Resource: "arn:aws:iam::123456789012:role/admin",
		IP: "10.1.2.3", Device: "laptop-42",
	})
	require.NoError(t, err)

	assert.Equal(t, decision.OutcomeDeny, result.Decision.Outcome)
	require.NotNil(t, result.Remediation)
	assert.Equal(t, "aws", result.Remediation.Cloud)
	assert.Contains(t, result.Remediation.Description, "mallory")

	snapshot := registry.Snapshot()
	assert.Equal(t, int64(1), snapshot.DeniedRequests)
	assert.Equal(t, int64(1), snapshot.TotalRemediations)
	assert.Equal(t, int64(1), snapshot.RemediationsByCloud["aws"])

	require.Len(t, events, 2)
	remediationEvent, ok := events[1].(audit.RemediationEvent)
	require.True(t, ok)
	assert.Equal(t, "aws", remediationEvent.Cloud)
}

func TestEnforce_ReviewFlagsForAdmin(t *testing.T) {
	var events []audit.Event
	registry := metrics.NewRegistry()
	enforcer := newTestEnforcer(t, &events, registry)

	result, err := enforcer.Enforce(decision.Request{
		User: "bob", Action: "s3:GetObject", Resource: "projects/acme/buckets/archive",
		IP: "10.1.2.3", Device: "burner-phone",
	})
	require.NoError(t, err)

	assert.Equal(t, decision.OutcomeReview, result.Decision.Outcome)
	require.NotNil(t, result.Remediation)
	assert.Equal(t, "gcp", result.Remediation.Cloud)
	assert.Contains(t, result.Remediation.Description, "admin review")

	snapshot := registry.Snapshot()
	assert.Equal(t, int64(1), snapshot.ReviewRequests)
	assert.Equal(t, int64(1), snapshot.TotalRemediations)
}
