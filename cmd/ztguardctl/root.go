package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ztguardctl",
	Short: "Policy linting and zero trust access decisions",
	Long: `ztguardctl validates IAM-style policy declarations, scans Terraform
configurations for risky grants, and evaluates access requests against
contextual zero trust rules.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
