package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ztguard/ztguard/pkg/audit"
	"github.com/ztguard/ztguard/pkg/config"
	"github.com/ztguard/ztguard/pkg/iac"
	"github.com/ztguard/ztguard/pkg/lint"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <path>...",
	Short: "Scan Terraform configuration for risky grants",
	Long: `Scan Terraform configuration for risky grants: public bucket ACLs,
security groups open to the world, and embedded IAM policies that fail the
policy lint rules.

Each path may be a .tf file or a directory. Unparseable files are reported
but do not abort the scan. The command exits nonzero when any finding
reaches the --fail-on severity.

Example:
  ztguardctl scan infra/
  ztguardctl scan --format json main.tf`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		failOn, _ := cmd.Flags().GetString("fail-on")

		findings, scanErrs := scanPaths(args)
		for _, err := range scanErrs {
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}

		if err := writeFindings(os.Stdout, findings, format); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		failed, err := exceedsThreshold(findings, failOn)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("format", "f", "text", "output format (text, csv, json)")
	scanCmd.Flags().String("fail-on", config.Get().LintFailOn, "exit nonzero when findings reach this severity")
}

func scanPaths(paths []string) ([]lint.Finding, []error) {
	scanner := iac.NewScanner(nil)

	var findings []lint.Finding
	var scanErrs []error
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			scanErrs = append(scanErrs, err)
			continue
		}

		if info.IsDir() {
			dirFindings, dirErrs := scanner.ScanDir(path)
			findings = append(findings, dirFindings...)
			scanErrs = append(scanErrs, dirErrs...)
			continue
		}

		fileFindings, err := scanner.ScanFile(path)
		if err != nil {
			scanErrs = append(scanErrs, err)
			continue
		}
		findings = append(findings, fileFindings...)
	}

	for _, f := range findings {
		audit.Log(audit.FindingEvent{
			Code:         f.Code,
			RuleSeverity: f.Severity.String(),
			ResourceType: f.ResourceType,
			ResourceName: f.ResourceName,
			ResourceARN:  f.ResourceARN,
			Detail:       f.Message,
		})
	}
	audit.Log(audit.ScanEvent{
		Path:      paths[0],
		Scanned:   len(paths),
		Findings:  len(findings),
		Malformed: len(scanErrs),
	})

	return findings, scanErrs
}
