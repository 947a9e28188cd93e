package lint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ztguard/ztguard/pkg/policy"
)

func mustParse(t *testing.T, doc string) *policy.PolicyDocument {
	t.Helper()
	parsed, err := policy.ParseDocument([]byte(doc))
	require.NoError(t, err)
	return parsed
}

func codes(findings []Finding) []string {
	var out []string
	for _, f := range findings {
		out = append(out, f.Code)
	}
	return out
}

func TestLintDocument(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantCodes []string
	}{
		{
			name: "least privilege statement is clean",
			doc: `{"Statement": [{
				"Effect": "Allow",
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::secure-bucket/*"]
			}]}`,
			wantCodes: nil,
		},
		{
			name: "full admin policy",
			doc:  `{"Statement": [{"Effect": "Allow", "Action": "*", "Resource": "*"}]}`,
			wantCodes: []string{
				"full-admin",
				"wildcard-resource",
			},
		},
		{
			name: "privilege escalation on wildcard resource",
			doc: `{"Statement": [{
				"Effect": "Allow",
				"Action": ["iam:PassRole", "iam:AttachUserPolicy"],
				"Resource": "*"
			}]}`,
			wantCodes: []string{
				"wildcard-resource",
				"privilege-escalation-action",
			},
		},
		{
			name: "service wildcard action",
			doc: `{"Statement": [{
				"Effect": "Allow",
				"Action": ["s3:*"],
				"Resource": ["arn:aws:s3:::secure-bucket/*"]
			}]}`,
			wantCodes: []string{"wildcard-action-prefix"},
		},
		{
			name: "overly broad resource for a single service",
			doc: `{"Statement": [{
				"Effect": "Allow",
				"Action": ["s3:GetObject", "s3:PutObject"],
				"Resource": ["arn:aws:s3:::*"]
			}]}`,
			wantCodes: []string{"overly-broad-resource"},
		},
		{
			name: "deny statements are not risky",
			doc:  `{"Statement": [{"Effect": "Deny", "Action": "*", "Resource": "*"}]}`,
			wantCodes: nil,
		},
		{
			name:      "empty sets",
			doc:       `{"Statement": [{"Effect": "Allow", "Action": [], "Resource": []}]}`,
			wantCodes: []string{"empty-actions", "empty-resources"},
		},
		{
			name: "unknown action shape",
			doc: `{"Statement": [{
				"Effect": "Allow",
				"Action": ["getobject"],
				"Resource": ["arn:aws:s3:::secure-bucket/*"]
			}]}`,
			wantCodes: []string{"unknown-action"},
		},
		{
			name: "findings per statement",
			doc: `{"Statement": [
				{"Effect": "Allow", "Action": ["s3:GetObject"], "Resource": ["arn:aws:s3:::secure-bucket/*"]},
				{"Effect": "Allow", "Action": "*", "Resource": "*"}
			]}`,
			wantCodes: []string{"full-admin", "wildcard-resource"},
		},
	}

	linter := NewLinter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := linter.LintDocument(ResourceTypeManagedPolicy, "test", "", mustParse(t, tt.doc))
			assert.Equal(t, tt.wantCodes, codes(findings))
		})
	}
}

func TestLintDocumentDeterministic(t *testing.T) {
	doc := mustParse(t, `{"Statement": [{
		"Effect": "Allow",
		"Action": ["*", "iam:PassRole"],
		"Resource": "*"
	}]}`)

	linter := NewLinter()
	first := linter.LintDocument(ResourceTypeManagedPolicy, "p", "", doc)
	for i := 0; i < 10; i++ {
		assert.Equal(t, codes(first), codes(linter.LintDocument(ResourceTypeManagedPolicy, "p", "", doc)))
	}
}

func TestLintDeclarationCarriesMetadata(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	linter := NewLinter(WithClock(func() time.Time { return fixed }))

	decl := &policy.Declaration{Name: "FullAdminPolicy", Source: "iam/FullAdminPolicy.json"}
	decl.Document = *mustParse(t, `{"Statement": [{"Effect": "Allow", "Action": "*", "Resource": "*"}]}`)

	findings := linter.LintDeclaration(decl)
	require.NotEmpty(t, findings)
	for _, f := range findings {
		assert.Equal(t, fixed, f.Timestamp)
		assert.Equal(t, "FullAdminPolicy", f.ResourceName)
		assert.Equal(t, ResourceTypeManagedPolicy, f.ResourceType)
		assert.Equal(t, 0, f.Statement)
	}
}

func TestMaxSeverity(t *testing.T) {
	_, ok := MaxSeverity(nil)
	assert.False(t, ok)

	max, ok := MaxSeverity([]Finding{
		{Severity: SeverityLow},
		{Severity: SeverityCritical},
		{Severity: SeverityMedium},
	})
	assert.True(t, ok)
	assert.Equal(t, SeverityCritical, max)
}
