package iac

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/hcl"
	"github.com/hashicorp/hcl/hcl/ast"

	"github.com/ztguard/ztguard/pkg/lint"
	"github.com/ztguard/ztguard/pkg/policy"
)

// Resource types the scanner knows how to check.
const (
	ResourceTypeS3Bucket      = "aws_s3_bucket"
	ResourceTypeSecurityGroup = "aws_security_group"
	ResourceTypeIAMPolicy     = "aws_iam_policy"
)

// Scanner checks Terraform resources for insecure configuration.
type Scanner struct {
	linter *lint.Linter
	now    func() time.Time
}

// NewScanner creates a scanner. IAM policy attributes are linted with the
// given linter; pass nil for the default rules.
func NewScanner(linter *lint.Linter) *Scanner {
	if linter == nil {
		linter = lint.NewLinter()
	}
	return &Scanner{
		linter: linter,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ScanFile scans a single Terraform file.
func (s *Scanner) ScanFile(path string) ([]lint.Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	file, err := hcl.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	root, ok := file.Node.(*ast.ObjectList)
	if !ok {
		return nil, fmt.Errorf("failed to parse %s: unexpected root node", path)
	}

	var findings []lint.Finding
	for _, item := range root.Filter("resource").Items {
		if len(item.Keys) < 2 {
			continue
		}
		rtype := item.Keys[0].Token.Value().(string)
		name := item.Keys[1].Token.Value().(string)

		var block map[string]interface{}
		if err := hcl.DecodeObject(&block, item.Val); err != nil {
			return nil, fmt.Errorf("failed to decode resource %q in %s: %w", name, path, err)
		}

		findings = append(findings, s.checkResource(path, rtype, name, block)...)
	}
	return findings, nil
}

// ScanDir walks a directory scanning every *.tf file. Per-file failures do
// not abort the walk; they are collected and returned alongside the
// findings from the files that did parse.
func (s *Scanner) ScanDir(dir string) ([]lint.Finding, []error) {
	var paths []string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".tf") {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, []error{fmt.Errorf("failed to walk %s: %w", dir, walkErr)}
	}
	sort.Strings(paths)

	var findings []lint.Finding
	var errs []error
	for _, path := range paths {
		fileFindings, err := s.ScanFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		findings = append(findings, fileFindings...)
	}
	return findings, errs
}

func (s *Scanner) checkResource(path, rtype, name string, block map[string]interface{}) []lint.Finding {
	switch rtype {
	case ResourceTypeS3Bucket:
		return s.checkS3Bucket(path, name, block)
	case ResourceTypeSecurityGroup:
		return s.checkSecurityGroup(path, name, block)
	case ResourceTypeIAMPolicy:
		return s.checkIAMPolicy(path, name, block)
	}
	return nil
}

func (s *Scanner) finding(path, rtype, name, code, message string, severity lint.Severity) lint.Finding {
	return lint.Finding{
		Timestamp:    s.now(),
		Code:         code,
		Message:      message,
		Severity:     severity,
		ResourceType: rtype,
		ResourceName: name,
		ResourceARN:  path,
		Statement:    -1,
	}
}

func (s *Scanner) checkS3Bucket(path, name string, block map[string]interface{}) []lint.Finding {
	acl := attrString(block, "acl")
	if acl == "public-read" || acl == "public-read-write" {
		return []lint.Finding{s.finding(
			path, ResourceTypeS3Bucket, name,
			"public-s3-acl",
			fmt.Sprintf("S3 bucket with public ACL (%s).", acl),
			lint.SeverityHigh,
		)}
	}
	return nil
}

func (s *Scanner) checkSecurityGroup(path, name string, block map[string]interface{}) []lint.Finding {
	for _, rule := range attrBlocks(block, "ingress") {
		for _, cidr := range attrStrings(rule, "cidr_blocks") {
			if cidr == "0.0.0.0/0" {
				return []lint.Finding{s.finding(
					path, ResourceTypeSecurityGroup, name,
					"open-security-group",
					"Security group allows 0.0.0.0/0 (open to world).",
					lint.SeverityHigh,
				)}
			}
		}
	}
	return nil
}

func (s *Scanner) checkIAMPolicy(path, name string, block map[string]interface{}) []lint.Finding {
	raw := attrString(block, "policy")
	if raw == "" {
		return nil
	}

	doc, err := policy.ParseDocument([]byte(raw))
	if err != nil {
		return []lint.Finding{s.finding(
			path, ResourceTypeIAMPolicy, name,
			"malformed-policy-document",
			fmt.Sprintf("IAM policy attribute does not decode as a policy document: %v.", err),
			lint.SeverityMedium,
		)}
	}

	findings := s.linter.LintDocument(ResourceTypeIAMPolicy, name, path, doc)
	return findings
}

// attrString returns a string attribute. HCL decoding may wrap repeated
// attributes in a slice; the last value wins, as Terraform resolves it.
func attrString(block map[string]interface{}, key string) string {
	switch v := block[key].(type) {
	case string:
		return v
	case []interface{}:
		if len(v) == 0 {
			return ""
		}
		if s, ok := v[len(v)-1].(string); ok {
			return s
		}
	}
	return ""
}

// attrStrings returns a list-of-strings attribute.
func attrStrings(block map[string]interface{}, key string) []string {
	raw, ok := block[key].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// attrBlocks returns repeated nested blocks such as security group ingress
// rules.
func attrBlocks(block map[string]interface{}, key string) []map[string]interface{} {
	var out []map[string]interface{}
	switch v := block[key].(type) {
	case []map[string]interface{}:
		out = v
	case []interface{}:
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
	case map[string]interface{}:
		out = append(out, v)
	}
	return out
}
