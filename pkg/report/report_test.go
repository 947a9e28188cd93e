package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ztguard/ztguard/pkg/lint"
)

func sampleFindings() []lint.Finding {
	timestamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []lint.Finding{
		{
			Timestamp:    timestamp,
			Code:         "full-admin",
			Message:      "Policy allows '*' actions on '*' resources.",
			Severity:     lint.SeverityCritical,
			ResourceType: lint.ResourceTypeManagedPolicy,
			ResourceName: "FullAdminPolicy",
		},
		{
			Timestamp:    timestamp,
			Code:         "wildcard-resource",
			Message:      "Statement applies to the wildcard resource.",
			Severity:     lint.SeverityHigh,
			ResourceType: lint.ResourceTypeManagedPolicy,
			ResourceName: "FullAdminPolicy",
		},
		{
			Timestamp:    timestamp,
			Code:         "wildcard-resource",
			Message:      "Statement applies to the wildcard resource.",
			Severity:     lint.SeverityHigh,
			ResourceType: lint.ResourceTypeManagedPolicy,
			ResourceName: "PrivilegeEscalationPolicy",
			Statement:    1,
		},
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleFindings())

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.BySeverity[lint.SeverityCritical])
	assert.Equal(t, 2, summary.BySeverity[lint.SeverityHigh])
	assert.Equal(t, 2, summary.ByCode["wildcard-resource"])
	assert.Equal(t, 2, summary.ByResource["FullAdminPolicy"])
}

func TestFormatText(t *testing.T) {
	text := Summarize(sampleFindings()).FormatText()
	assert.Contains(t, text, "Total findings: 3")
	assert.Contains(t, text, "critical")
	assert.Contains(t, text, "wildcard-resource")
}

func TestCSVRoundTrip(t *testing.T) {
	findings := sampleFindings()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, findings))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "timestamp,resource_type,resource_name,resource_arn,finding,severity,code,statement", lines[0])

	parsed, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, findings, parsed)
}

func TestReadCSVRejectsBadRows(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	bad := "timestamp,resource_type,resource_name,resource_arn,finding,severity,code,statement\n" +
		"not-a-time,ManagedPolicy,p,,msg,high,wildcard-resource,0\n"
	_, err = ReadCSV(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestRenderMarkdownAndHTML(t *testing.T) {
	findings := sampleFindings()
	summary := Summarize(findings)

	md := RenderMarkdown(summary, findings)
	assert.Contains(t, md, "# Policy findings report")
	assert.Contains(t, md, "| full-admin | 1 |")

	html, err := RenderHTML(summary, findings)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "FullAdminPolicy")
}
