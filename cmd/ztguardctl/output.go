package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ztguard/ztguard/pkg/lint"
	"github.com/ztguard/ztguard/pkg/report"
)

// writeFindings renders findings in the requested format: text, csv or json.
func writeFindings(w io.Writer, findings []lint.Finding, format string) error {
	switch format {
	case "text":
		for _, f := range findings {
			location := f.ResourceName
			if f.Statement >= 0 {
				location = fmt.Sprintf("%s statement %d", f.ResourceName, f.Statement)
			}
			fmt.Fprintf(w, "%-8s %-28s %s: %s\n", f.Severity, f.Code, location, f.Message)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, report.Summarize(findings).FormatText())
		return nil
	case "csv":
		return report.WriteCSV(w, findings)
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(findings)
	default:
		return fmt.Errorf("unknown format %q (want text, csv or json)", format)
	}
}

// exceedsThreshold reports whether any finding is at or above the severity
// threshold.
func exceedsThreshold(findings []lint.Finding, threshold string) (bool, error) {
	level, err := lint.SeverityString(threshold)
	if err != nil {
		return false, fmt.Errorf("unknown severity %q", threshold)
	}
	for _, f := range findings {
		if f.Severity >= level {
			return true, nil
		}
	}
	return false, nil
}
