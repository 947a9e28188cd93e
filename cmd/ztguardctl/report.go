package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ztguard/ztguard/pkg/metrics"
	"github.com/ztguard/ztguard/pkg/report"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report FINDINGS_CSV",
	Short: "Render a summary report from exported findings",
	Long: `Render a summary report from a findings CSV file.

The input is a CSV produced by 'ztguardctl lint --format csv' or exported
from the findings API. The report groups findings by severity and rule
code and can be rendered as plain text, Markdown, or standalone HTML.

Example:
  ztguardctl report findings.csv
  ztguardctl report findings.csv --format markdown > report.md
  ztguardctl report findings.csv --format html > report.html`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		showMetrics, _ := cmd.Flags().GetBool("metrics")

		if err := renderReport(args[0], format, showMetrics); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("format", "f", "text", "Output format (text, markdown or html)")
	reportCmd.Flags().Bool("metrics", false, "Append a process metrics snapshot to the report")
}

func renderReport(path, format string, showMetrics bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	findings, err := report.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("failed to read findings from %s: %w", path, err)
	}

	summary := report.Summarize(findings)

	switch format {
	case "text":
		fmt.Print(summary.FormatText())
	case "markdown":
		fmt.Print(report.RenderMarkdown(summary, findings))
	case "html":
		html, err := report.RenderHTML(summary, findings)
		if err != nil {
			return err
		}
		fmt.Print(html)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}

	if showMetrics {
		snapshot, err := json.MarshalIndent(metrics.Default.Snapshot(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(string(snapshot))
	}

	return nil
}
