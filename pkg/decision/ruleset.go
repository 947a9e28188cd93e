package decision

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps a set of actions to an outcome.
type Rule struct {
	ID          string     `yaml:"id"`
	Description string     `yaml:"description"`
	Outcome     Outcome    `yaml:"outcome"`
	Conditions  Conditions `yaml:"conditions"`
}

// Conditions restrict when a rule matches. An action list containing "*"
// matches every action.
type Conditions struct {
	Actions []string `yaml:"actions"`
}

// RuleSet is an ordered list of action rules with a default outcome for
// requests no rule matches. The zero default denies.
type RuleSet struct {
	DefaultOutcome Outcome `yaml:"default_outcome"`
	Rules          []Rule  `yaml:"rules"`
}

// LoadRuleSet parses a YAML rule set.
func LoadRuleSet(r io.Reader) (*RuleSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set: %w", err)
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rule set: %w", err)
	}
	return &rs, nil
}

// LoadRuleSetFile loads a YAML rule set from disk.
func LoadRuleSetFile(path string) (*RuleSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule set: %w", err)
	}
	defer func() { _ = file.Close() }()

	rs, err := LoadRuleSet(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// Evaluate returns the outcome of the first rule whose conditions contain
// the action (case-insensitive) or the wildcard, falling back to the
// default outcome.
func (rs *RuleSet) Evaluate(action string) (Outcome, string) {
	lower := strings.ToLower(action)
	for _, rule := range rs.Rules {
		for _, candidate := range rule.Conditions.Actions {
			if candidate == "*" || strings.ToLower(candidate) == lower {
				return rule.Outcome, rule.Description
			}
		}
	}
	return rs.DefaultOutcome, fmt.Sprintf("No matching policy (default %s)", rs.DefaultOutcome)
}
