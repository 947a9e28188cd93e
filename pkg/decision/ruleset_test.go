package decision

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesYAML = `
default_outcome: deny
rules:
  - id: allow-read
    description: Read access is always safe
    outcome: allow
    conditions:
      actions: ["s3:GetObject", "s3:ListBucket"]
  - id: review-writes
    description: Writes need a second look
    outcome: review
    conditions:
      actions: ["s3:PutObject"]
  - id: deny-delete
    description: Deletion is forbidden
    outcome: deny
    conditions:
      actions: ["s3:DeleteObject"]
`

func TestLoadRuleSet(t *testing.T) {
	rs, err := LoadRuleSet(strings.NewReader(rulesYAML))
	require.NoError(t, err)

	assert.Equal(t, OutcomeDeny, rs.DefaultOutcome)
	require.Len(t, rs.Rules, 3)
	assert.Equal(t, "allow-read", rs.Rules[0].ID)
	assert.Equal(t, OutcomeReview, rs.Rules[1].Outcome)
}

func TestLoadRuleSet_InvalidYAML(t *testing.T) {
	_, err := LoadRuleSet(strings.NewReader("rules: ["))
	assert.Error(t, err)
}

func TestLoadRuleSet_RejectsUnknownOutcome(t *testing.T) {
	_, err := LoadRuleSet(strings.NewReader(`
rules:
  - id: odd
    outcome: maybe
    conditions:
      actions: ["*"]
`))
	assert.Error(t, err)
}

func TestRuleSet_OmittedDefaultDenies(t *testing.T) {
	rs, err := LoadRuleSet(strings.NewReader("rules: []"))
	require.NoError(t, err)

	outcome, _ := rs.Evaluate("anything:AtAll")
	assert.Equal(t, OutcomeDeny, outcome)
}

func TestRuleSet_Evaluate(t *testing.T) {
	rs, err := LoadRuleSet(strings.NewReader(rulesYAML))
	require.NoError(t, err)

	testCases := []struct {
		action  string
		outcome Outcome
		reason  string
	}{
		{"s3:GetObject", OutcomeAllow, "Read access is always safe"},
		{"S3:GETOBJECT", OutcomeAllow, "Read access is always safe"},
		{"s3:PutObject", OutcomeReview, "Writes need a second look"},
		{"s3:DeleteObject", OutcomeDeny, "Deletion is forbidden"},
		{"iam:PassRole", OutcomeDeny, "No matching policy (default deny)"},
	}

	for _, tc := range testCases {
		t.Run(tc.action, func(t *testing.T) {
			outcome, reason := rs.Evaluate(tc.action)
			assert.Equal(t, tc.outcome, outcome)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestRuleSet_WildcardMatchesEverything(t *testing.T) {
	rs := &RuleSet{
		DefaultOutcome: OutcomeDeny,
		Rules: []Rule{
			{ID: "catch-all", Description: "Everything goes", Outcome: OutcomeAllow,
				Conditions: Conditions{Actions: []string{"*"}}},
		},
	}

	outcome, reason := rs.Evaluate("ec2:TerminateInstances")
	assert.Equal(t, OutcomeAllow, outcome)
	assert.Equal(t, "Everything goes", reason)
}
