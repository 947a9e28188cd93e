package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ztguard/ztguard/pkg/decision"
	"github.com/ztguard/ztguard/pkg/lint"
)

const (
	DefaultConfigPath = "/etc/ztguard/config"
	ConfigFileName    = "ztguard.yml"
)

// ZTGuardConfig holds all configuration settings
type ZTGuardConfig struct {
	// TrustedNetworks is a list of CIDR ranges requests may originate from
	TrustedNetworks []string `yaml:"trusted_networks" json:"trusted_networks"`

	// TrustedDevices is a list of recognized device identifiers
	TrustedDevices []string `yaml:"trusted_devices" json:"trusted_devices"`

	// BusinessHoursStart is the first hour (inclusive) access is permitted
	BusinessHoursStart int `yaml:"business_hours_start" json:"business_hours_start"`

	// BusinessHoursEnd is the hour (exclusive) access stops being permitted
	BusinessHoursEnd int `yaml:"business_hours_end" json:"business_hours_end"`

	// DefaultOutcome applies when no action rule matches ("deny", "allow" or "review")
	DefaultOutcome string `yaml:"default_outcome" json:"default_outcome"`

	// RuleSetPath points at the YAML action rule set
	RuleSetPath string `yaml:"rule_set_path" json:"rule_set_path"`

	// LintFailOn is the severity at which lint and scan exit nonzero
	LintFailOn string `yaml:"lint_fail_on" json:"lint_fail_on"`

	// APIListLimitMax is the maximum number of results for listing requests
	APIListLimitMax int `yaml:"api_list_limit_max" json:"api_list_limit_max"`

	// ListenAddress is the HTTP server bind address
	ListenAddress string `yaml:"listen_address" json:"listen_address"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *ZTGuardConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *ZTGuardConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *ZTGuardConfig {
	return &ZTGuardConfig{
		TrustedNetworks:    []string{},
		TrustedDevices:     []string{},
		BusinessHoursStart: 9,
		BusinessHoursEnd:   17,
		DefaultOutcome:     "deny",
		RuleSetPath:        "",
		LintFailOn:         "high",
		APIListLimitMax:    1000,
		ListenAddress:      ":8081",
		sources:            make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*ZTGuardConfig, error) {
	config := newDefault()

	// Initialize all sources as "default"
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	// Determine config file path
	configPath := os.Getenv("ZTGUARD_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig ZTGuardConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	// Override with environment variables
	config.applyEnvConfig()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"trusted_networks", "trusted_devices",
		"business_hours_start", "business_hours_end",
		"default_outcome", "rule_set_path", "lint_fail_on",
		"api_list_limit_max", "listen_address",
	}
}

func (c *ZTGuardConfig) applyFileConfig(file *ZTGuardConfig) {
	if len(file.TrustedNetworks) > 0 {
		c.TrustedNetworks = file.TrustedNetworks
		c.sources["trusted_networks"] = "file"
	}
	if len(file.TrustedDevices) > 0 {
		c.TrustedDevices = file.TrustedDevices
		c.sources["trusted_devices"] = "file"
	}
	if file.BusinessHoursStart != 0 {
		c.BusinessHoursStart = file.BusinessHoursStart
		c.sources["business_hours_start"] = "file"
	}
	if file.BusinessHoursEnd != 0 {
		c.BusinessHoursEnd = file.BusinessHoursEnd
		c.sources["business_hours_end"] = "file"
	}
	if file.DefaultOutcome != "" {
		c.DefaultOutcome = file.DefaultOutcome
		c.sources["default_outcome"] = "file"
	}
	if file.RuleSetPath != "" {
		c.RuleSetPath = file.RuleSetPath
		c.sources["rule_set_path"] = "file"
	}
	if file.LintFailOn != "" {
		c.LintFailOn = file.LintFailOn
		c.sources["lint_fail_on"] = "file"
	}
	if file.APIListLimitMax != 0 {
		c.APIListLimitMax = file.APIListLimitMax
		c.sources["api_list_limit_max"] = "file"
	}
	if file.ListenAddress != "" {
		c.ListenAddress = file.ListenAddress
		c.sources["listen_address"] = "file"
	}
}

func (c *ZTGuardConfig) applyEnvConfig() {
	if val := os.Getenv("ZTGUARD_TRUSTED_NETWORKS"); val != "" {
		c.TrustedNetworks = splitAndTrim(val)
		c.sources["trusted_networks"] = "environment"
	}
	if val := os.Getenv("ZTGUARD_TRUSTED_DEVICES"); val != "" {
		c.TrustedDevices = splitAndTrim(val)
		c.sources["trusted_devices"] = "environment"
	}
	if val := os.Getenv("ZTGUARD_BUSINESS_HOURS_START"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.BusinessHoursStart = i
			c.sources["business_hours_start"] = "environment"
		}
	}
	if val := os.Getenv("ZTGUARD_BUSINESS_HOURS_END"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.BusinessHoursEnd = i
			c.sources["business_hours_end"] = "environment"
		}
	}
	if val := os.Getenv("ZTGUARD_DEFAULT_OUTCOME"); val != "" {
		c.DefaultOutcome = val
		c.sources["default_outcome"] = "environment"
	}
	if val := os.Getenv("ZTGUARD_RULE_SET_PATH"); val != "" {
		c.RuleSetPath = val
		c.sources["rule_set_path"] = "environment"
	}
	if val := os.Getenv("ZTGUARD_LINT_FAIL_ON"); val != "" {
		c.LintFailOn = val
		c.sources["lint_fail_on"] = "environment"
	}
	if val := os.Getenv("ZTGUARD_API_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIListLimitMax = i
			c.sources["api_list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("ZTGUARD_LISTEN_ADDRESS"); val != "" {
		c.ListenAddress = val
		c.sources["listen_address"] = "environment"
	}
}

func (c *ZTGuardConfig) validate() error {
	if c.BusinessHoursStart < 0 || c.BusinessHoursStart > 23 {
		return fmt.Errorf("business_hours_start must be between 0 and 23, got %d", c.BusinessHoursStart)
	}
	if c.BusinessHoursEnd < 0 || c.BusinessHoursEnd > 24 {
		return fmt.Errorf("business_hours_end must be between 0 and 24, got %d", c.BusinessHoursEnd)
	}
	if c.BusinessHoursStart >= c.BusinessHoursEnd {
		return fmt.Errorf("business_hours_start (%d) must be before business_hours_end (%d)",
			c.BusinessHoursStart, c.BusinessHoursEnd)
	}
	if _, err := decision.OutcomeString(c.DefaultOutcome); err != nil {
		return fmt.Errorf("invalid default_outcome %q", c.DefaultOutcome)
	}
	if _, err := lint.SeverityString(c.LintFailOn); err != nil {
		return fmt.Errorf("invalid lint_fail_on %q", c.LintFailOn)
	}
	if c.APIListLimitMax <= 0 {
		return fmt.Errorf("api_list_limit_max must be positive, got %d", c.APIListLimitMax)
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *ZTGuardConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *ZTGuardConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Outcome returns the configured default outcome.
func (c *ZTGuardConfig) Outcome() decision.Outcome {
	outcome, err := decision.OutcomeString(c.DefaultOutcome)
	if err != nil {
		return decision.OutcomeDeny
	}
	return outcome
}

// FailOnSeverity returns the configured lint failure threshold.
func (c *ZTGuardConfig) FailOnSeverity() lint.Severity {
	severity, err := lint.SeverityString(c.LintFailOn)
	if err != nil {
		return lint.SeverityHigh
	}
	return severity
}

// ContextPolicy builds the contextual access policy from the configured
// networks, devices and hours.
func (c *ZTGuardConfig) ContextPolicy() (*decision.ContextPolicy, error) {
	return decision.NewContextPolicy(
		c.TrustedNetworks,
		c.TrustedDevices,
		c.BusinessHoursStart,
		c.BusinessHoursEnd,
	)
}

// Attributes returns all configuration attributes with their sources
func (c *ZTGuardConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "trusted_networks", Value: strings.Join(c.TrustedNetworks, ","), Source: c.Source("trusted_networks")},
		{Name: "trusted_devices", Value: strings.Join(c.TrustedDevices, ","), Source: c.Source("trusted_devices")},
		{Name: "business_hours_start", Value: strconv.Itoa(c.BusinessHoursStart), Source: c.Source("business_hours_start")},
		{Name: "business_hours_end", Value: strconv.Itoa(c.BusinessHoursEnd), Source: c.Source("business_hours_end")},
		{Name: "default_outcome", Value: c.DefaultOutcome, Source: c.Source("default_outcome")},
		{Name: "rule_set_path", Value: c.RuleSetPath, Source: c.Source("rule_set_path")},
		{Name: "lint_fail_on", Value: c.LintFailOn, Source: c.Source("lint_fail_on")},
		{Name: "api_list_limit_max", Value: strconv.Itoa(c.APIListLimitMax), Source: c.Source("api_list_limit_max")},
		{Name: "listen_address", Value: c.ListenAddress, Source: c.Source("listen_address")},
	}
}

func splitAndTrim(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
