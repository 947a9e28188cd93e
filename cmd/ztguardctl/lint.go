package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ztguard/ztguard/pkg/audit"
	"github.com/ztguard/ztguard/pkg/config"
	"github.com/ztguard/ztguard/pkg/lint"
	"github.com/ztguard/ztguard/pkg/policy"
)

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint <path>...",
	Short: "Validate policy declaration files",
	Long: `Validate policy declaration files against the built-in rule set.

Each path may be a declaration file or a directory of *.json declarations.
The command exits nonzero when any finding reaches the --fail-on severity.

Example:
  ztguardctl lint policies/
  ztguardctl lint --format csv policies/ > findings.csv
  ztguardctl lint --fail-on critical policies/s3-admin.json`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		failOn, _ := cmd.Flags().GetString("fail-on")

		findings, err := lintPaths(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Lint failed:", err)
			os.Exit(1)
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
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().StringP("format", "f", "text", "output format (text, csv, json)")
	lintCmd.Flags().String("fail-on", config.Get().LintFailOn, "exit nonzero when findings reach this severity")
}

func lintPaths(paths []string) ([]lint.Finding, error) {
	declarations, err := loadDeclarations(paths)
	if err != nil {
		return nil, err
	}

	linter := lint.NewLinter()
	var findings []lint.Finding
	for _, decl := range declarations {
		findings = append(findings, linter.LintDeclaration(decl)...)
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
		Path:     paths[0],
		Scanned:  len(declarations),
		Findings: len(findings),
	})

	return findings, nil
}

func loadDeclarations(paths []string) ([]*policy.Declaration, error) {
	var declarations []*policy.Declaration
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			decls, err := policy.LoadDir(path)
			if err != nil {
				return nil, err
			}
			declarations = append(declarations, decls...)
			continue
		}

		decl, err := policy.LoadDeclaration(path)
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, decl)
	}
	return declarations, nil
}
