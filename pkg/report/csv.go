package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ztguard/ztguard/pkg/lint"
)

// csvHeader is the findings CSV column layout. The first five columns match
// the layout consumed by the downstream analysis tooling; severity, code
// and statement were added for aggregation.
var csvHeader = []string{
	"timestamp", "resource_type", "resource_name", "resource_arn",
	"finding", "severity", "code", "statement",
}

// WriteCSV writes findings as CSV, header included.
func WriteCSV(w io.Writer, findings []lint.Finding) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range findings {
		record := []string{
			f.Timestamp.UTC().Format(time.RFC3339),
			f.ResourceType,
			f.ResourceName,
			f.ResourceARN,
			f.Message,
			f.Severity.String(),
			f.Code,
			strconv.Itoa(f.Statement),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads findings back from a CSV produced by WriteCSV.
func ReadCSV(r io.Reader) ([]lint.Finding, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read findings CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("findings CSV is empty")
	}

	var findings []lint.Finding
	for i, record := range records[1:] {
		if len(record) < len(csvHeader) {
			return nil, fmt.Errorf("findings CSV row %d: expected %d columns, got %d", i+2, len(csvHeader), len(record))
		}

		timestamp, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return nil, fmt.Errorf("findings CSV row %d: bad timestamp: %w", i+2, err)
		}
		severity, err := lint.SeverityString(record[5])
		if err != nil {
			return nil, fmt.Errorf("findings CSV row %d: %w", i+2, err)
		}
		statement, err := strconv.Atoi(record[7])
		if err != nil {
			return nil, fmt.Errorf("findings CSV row %d: bad statement index: %w", i+2, err)
		}

		findings = append(findings, lint.Finding{
			Timestamp:    timestamp,
			ResourceType: record[1],
			ResourceName: record[2],
			ResourceARN:  record[3],
			Message:      record[4],
			Severity:     severity,
			Code:         record[6],
			Statement:    statement,
		})
	}
	return findings, nil
}
