package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, now time.Time) *Engine {
	t.Helper()
	policy := newTestContextPolicy(t)
	rs := &RuleSet{
		DefaultOutcome: OutcomeDeny,
		Rules: []Rule{
			{ID: "allow-read", Description: "Read access is always safe", Outcome: OutcomeAllow,
				Conditions: Conditions{Actions: []string{"s3:GetObject"}}},
			{ID: "review-writes", Description: "Writes need a second look", Outcome: OutcomeReview,
				Conditions: Conditions{Actions: []string{"s3:PutObject"}}},
			{ID: "deny-delete", Description: "Deletion is forbidden", Outcome: OutcomeDeny,
				Conditions: Conditions{Actions: []string{"s3:DeleteObject"}}},
		},
	}
	return NewEngine(policy, rs, WithEngineClock(func() time.Time { return now }))
}

func TestEngine_Evaluate(t *testing.T) {
	insideHours := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, insideHours)

	trusted := Request{User: "alice", IP: "10.1.2.3", Device: "laptop-42"}

	testCases := []struct {
		name    string
		req     Request
		outcome Outcome
		reason  string
	}{
		{
			name:    "both sides allow",
			req:     withAction(trusted, "s3:GetObject"),
			outcome: OutcomeAllow,
			reason:  "Context validated",
		},
		{
			name:    "action deny overrides trusted context",
			req:     withAction(trusted, "s3:DeleteObject"),
			outcome: OutcomeDeny,
			reason:  "Deletion is forbidden",
		},
		{
			name:    "unmatched action falls back to default deny",
			req:     withAction(trusted, "iam:PassRole"),
			outcome: OutcomeDeny,
			reason:  "No matching policy (default deny)",
		},
		{
			name:    "action review in a trusted context denies",
			req:     withAction(trusted, "s3:PutObject"),
			outcome: OutcomeDeny,
			reason:  "Writes need a second look",
		},
		{
			name:    "action review with an unknown device denies",
			req:     Request{User: "carol", Action: "s3:PutObject", IP: "10.1.2.3", Device: "burner-phone"},
			outcome: OutcomeDeny,
			reason:  "Writes need a second look",
		},
		{
			name:    "context deny overrides allowed action",
			req:     Request{User: "mallory", Action: "s3:GetObject", IP: "8.8.8.8", Device: "laptop-42"},
			outcome: OutcomeDeny,
			reason:  "Untrusted network source (8.8.8.8)",
		},
		{
			name:    "unknown device turns an allow into review",
			req:     Request{User: "bob", Action: "s3:GetObject", IP: "10.1.2.3", Device: "burner-phone"},
			outcome: OutcomeReview,
			reason:  "Unrecognized device (burner-phone)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decision := engine.Evaluate(tc.req)
			assert.Equal(t, tc.outcome, decision.Outcome)
			assert.Equal(t, tc.reason, decision.Reason)
			assert.Equal(t, tc.req, decision.Request)
			assert.Equal(t, insideHours, decision.Timestamp)
		})
	}
}

func TestEngine_Evaluate_AfterHours(t *testing.T) {
	afterHours := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	engine := newTestEngine(t, afterHours)

	decision := engine.Evaluate(Request{User: "alice", Action: "s3:GetObject", IP: "10.1.2.3", Device: "laptop-42"})
	require.Equal(t, OutcomeDeny, decision.Outcome)
	assert.Equal(t, "Access attempted outside business hours", decision.Reason)
}

func TestCombine(t *testing.T) {
	testCases := []struct {
		context, action, combined Outcome
	}{
		{OutcomeAllow, OutcomeAllow, OutcomeAllow},
		{OutcomeAllow, OutcomeReview, OutcomeDeny},
		{OutcomeAllow, OutcomeDeny, OutcomeDeny},
		{OutcomeReview, OutcomeAllow, OutcomeReview},
		{OutcomeReview, OutcomeReview, OutcomeDeny},
		{OutcomeReview, OutcomeDeny, OutcomeDeny},
		{OutcomeDeny, OutcomeAllow, OutcomeDeny},
		{OutcomeDeny, OutcomeReview, OutcomeDeny},
		{OutcomeDeny, OutcomeDeny, OutcomeDeny},
	}

	for _, tc := range testCases {
		assert.Equalf(t, tc.combined, combine(tc.context, tc.action),
			"combine(%s, %s)", tc.context, tc.action)
	}
}

func withAction(req Request, action string) Request {
	req.Action = action
	return req
}
