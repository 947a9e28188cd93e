package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ztguard/ztguard/pkg/lint"
)

// Summary tallies findings by severity, code, and resource.
type Summary struct {
	Total      int                   `json:"total"`
	BySeverity map[lint.Severity]int `json:"by_severity"`
	ByCode     map[string]int        `json:"by_code"`
	ByResource map[string]int        `json:"by_resource"`
}

// Summarize aggregates findings into a summary.
func Summarize(findings []lint.Finding) *Summary {
	summary := &Summary{
		Total:      len(findings),
		BySeverity: make(map[lint.Severity]int),
		ByCode:     make(map[string]int),
		ByResource: make(map[string]int),
	}
	for _, f := range findings {
		summary.BySeverity[f.Severity]++
		summary.ByCode[f.Code]++
		summary.ByResource[f.ResourceName]++
	}
	return summary
}

// countRow pairs a label with its count for sorted rendering.
type countRow struct {
	label string
	count int
}

func sortedRows(counts map[string]int) []countRow {
	rows := make([]countRow, 0, len(counts))
	for label, count := range counts {
		rows = append(rows, countRow{label, count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].label < rows[j].label
	})
	return rows
}

// FormatText renders the summary as a plain-text table.
func (s *Summary) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total findings: %d\n", s.Total))

	sb.WriteString("\nBy severity:\n")
	for _, sev := range []lint.Severity{
		lint.SeverityCritical, lint.SeverityHigh, lint.SeverityMedium,
		lint.SeverityLow, lint.SeverityInfo,
	} {
		if count := s.BySeverity[sev]; count > 0 {
			sb.WriteString(fmt.Sprintf("  %-10s %d\n", sev.String(), count))
		}
	}

	sb.WriteString("\nBy finding:\n")
	for _, row := range sortedRows(s.ByCode) {
		sb.WriteString(fmt.Sprintf("  %-30s %d\n", row.label, row.count))
	}

	sb.WriteString("\nBy resource:\n")
	for _, row := range sortedRows(s.ByResource) {
		sb.WriteString(fmt.Sprintf("  %-30s %d\n", row.label, row.count))
	}
	return sb.String()
}
