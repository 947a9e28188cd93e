package lint

import (
	"time"

	"github.com/ztguard/ztguard/pkg/policy"
)

// ResourceTypeManagedPolicy is the resource type for standalone policy
// declaration files.
const ResourceTypeManagedPolicy = "ManagedPolicy"

// Linter runs a rule set over policy documents.
type Linter struct {
	rules []Rule
	now   func() time.Time
}

// Option configures a Linter.
type Option func(*Linter)

// WithRules replaces the default rule set.
func WithRules(rules []Rule) Option {
	return func(l *Linter) { l.rules = rules }
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Linter) { l.now = now }
}

// NewLinter creates a linter with the default rules.
func NewLinter(opts ...Option) *Linter {
	l := &Linter{
		rules: DefaultRules(),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LintDeclaration lints a named declaration.
func (l *Linter) LintDeclaration(decl *policy.Declaration) []Finding {
	return l.LintDocument(ResourceTypeManagedPolicy, decl.Name, decl.Source, &decl.Document)
}

// LintDocument runs every rule over every statement of a document. The
// resource type, name and ARN are carried onto each finding.
func (l *Linter) LintDocument(resourceType, resourceName, resourceARN string, doc *policy.PolicyDocument) []Finding {
	timestamp := l.now()

	var findings []Finding
	for i, stmt := range doc.Statement {
		for _, rule := range l.rules {
			message, triggered := rule.Check(stmt)
			if !triggered {
				continue
			}
			findings = append(findings, Finding{
				Timestamp:    timestamp,
				Code:         rule.Code(),
				Message:      message,
				Severity:     rule.Severity(),
				ResourceType: resourceType,
				ResourceName: resourceName,
				ResourceARN:  resourceARN,
				Statement:    i,
			})
		}
	}
	return findings
}

// MaxSeverity returns the highest severity among findings, and false when
// there are none.
func MaxSeverity(findings []Finding) (Severity, bool) {
	if len(findings) == 0 {
		return SeverityInfo, false
	}
	max := findings[0].Severity
	for _, f := range findings[1:] {
		if f.Severity > max {
			max = f.Severity
		}
	}
	return max, true
}
