package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ztguard/ztguard/pkg/config"
	"github.com/ztguard/ztguard/pkg/decision"
	"github.com/ztguard/ztguard/pkg/enforce"
)

// decideCmd represents the decide command
var decideCmd = &cobra.Command{
	Use:   "decide <user> <action> <resource> <ip> <device>",
	Short: "Evaluate a single access request",
	Long: `Evaluate a single access request against the contextual rules and the
action rule set.

Context (trusted networks, devices, business hours) comes from the
configuration; action rules come from --rules or the configured rule set
path. With --enforce, denied or flagged requests also trigger remediation.

Exit codes: 0 allow, 1 review, 2 deny.

Example:
  ztguardctl decide alice s3:GetObject arn:aws:s3:::prod-data 10.1.2.3 laptop-42
  ztguardctl decide --rules rules.yml --enforce bob iam:PassRole arn:aws:iam::123:role/admin 8.8.8.8 tablet-9`,
	Args: cobra.ExactArgs(5),
	Run: func(cmd *cobra.Command, args []string) {
		rulesPath, _ := cmd.Flags().GetString("rules")
		doEnforce, _ := cmd.Flags().GetBool("enforce")
		asJSON, _ := cmd.Flags().GetBool("json")

		req := decision.Request{
			User:     args[0],
			Action:   args[1],
			Resource: args[2],
			IP:       args[3],
			Device:   args[4],
		}

		engine, err := buildEngine(rulesPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		var dec decision.Decision
		var result enforce.Result
		if doEnforce {
			enforcer := enforce.NewEnforcer(engine)
			result, err = enforcer.Enforce(req)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Enforcement failed:", err)
				os.Exit(1)
			}
			dec = result.Decision
		} else {
			dec = engine.Evaluate(req)
			result = enforce.Result{Decision: dec}
		}

		if asJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			_ = encoder.Encode(result)
		} else {
			fmt.Printf("Outcome: %s\n", dec.Outcome)
			fmt.Printf("Reason:  %s\n", dec.Reason)
			if result.Remediation != nil {
				fmt.Printf("Remediation (%s): %s\n", result.Remediation.Cloud, result.Remediation.Description)
			}
		}

		switch dec.Outcome {
		case decision.OutcomeAllow:
			os.Exit(0)
		case decision.OutcomeReview:
			os.Exit(1)
		default:
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(decideCmd)
	decideCmd.Flags().String("rules", "", "path to a YAML action rule set (defaults to the configured rule_set_path)")
	decideCmd.Flags().Bool("enforce", false, "trigger remediation for deny and review outcomes")
	decideCmd.Flags().Bool("json", false, "print the full result as JSON")
}

// buildEngine assembles a decision engine from the configuration and the
// rule set at rulesPath (or the configured path, or an empty fail-closed
// rule set when neither is given).
func buildEngine(rulesPath string) (*decision.Engine, error) {
	cfg := config.Get()

	policy, err := cfg.ContextPolicy()
	if err != nil {
		return nil, fmt.Errorf("invalid context configuration: %w", err)
	}

	if rulesPath == "" {
		rulesPath = cfg.RuleSetPath
	}

	rules := &decision.RuleSet{DefaultOutcome: cfg.Outcome()}
	if rulesPath != "" {
		rules, err = decision.LoadRuleSetFile(rulesPath)
		if err != nil {
			return nil, err
		}
	}

	return decision.NewEngine(policy, rules), nil
}
