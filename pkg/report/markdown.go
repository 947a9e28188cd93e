package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ztguard/ztguard/pkg/lint"
)

// RenderMarkdown renders a findings report as Markdown: a summary section
// followed by one table row per finding.
func RenderMarkdown(summary *Summary, findings []lint.Finding) string {
	var sb strings.Builder

	sb.WriteString("# Policy findings report\n\n")
	sb.WriteString(fmt.Sprintf("Total findings: **%d**\n\n", summary.Total))

	sb.WriteString("## By finding\n\n")
	sb.WriteString("| Finding | Count |\n")
	sb.WriteString("| --- | --- |\n")
	for _, row := range sortedRows(summary.ByCode) {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.label, row.count))
	}

	sb.WriteString("\n## By resource\n\n")
	sb.WriteString("| Resource | Count |\n")
	sb.WriteString("| --- | --- |\n")
	for _, row := range sortedRows(summary.ByResource) {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.label, row.count))
	}

	if len(findings) > 0 {
		sb.WriteString("\n## Findings\n\n")
		sb.WriteString("| Severity | Resource | Code | Message |\n")
		sb.WriteString("| --- | --- | --- | --- |\n")
		for _, f := range findings {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				f.Severity, f.ResourceName, f.Code, escapePipes(f.Message)))
		}
	}

	return sb.String()
}

// RenderHTML renders the Markdown report to HTML.
func RenderHTML(summary *Summary, findings []lint.Finding) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var buf bytes.Buffer
	if err := md.Convert([]byte(RenderMarkdown(summary, findings)), &buf); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.String(), nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
