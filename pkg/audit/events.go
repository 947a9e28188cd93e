package audit

import (
	"fmt"
	"strconv"
)

// FindingEvent represents a policy lint finding
type FindingEvent struct {
	Code         string
	RuleSeverity string
	ResourceType string
	ResourceName string
	ResourceARN  string
	Detail       string
}

func (e FindingEvent) MessageID() string {
	return "finding"
}

func (e FindingEvent) Message() string {
	return fmt.Sprintf("%s %s (%s): %s", e.ResourceType, e.ResourceName, e.Code, e.Detail)
}

func (e FindingEvent) Severity() Severity {
	switch e.RuleSeverity {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityError
	case "medium":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

func (e FindingEvent) Facility() int {
	return FacilityAuth
}

func (e FindingEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDFinding: {
			"code":     e.Code,
			"severity": e.RuleSeverity,
		},
		SDIDSubject: {
			"resource_type": e.ResourceType,
			"resource":      e.ResourceName,
		},
	}
	if e.ResourceARN != "" {
		sd[SDIDSubject]["arn"] = e.ResourceARN
	}
	return sd
}

// ScanEvent represents a completed scan of declarations or infrastructure code
type ScanEvent struct {
	Path      string
	Scanned   int
	Findings  int
	Malformed int
}

func (e ScanEvent) MessageID() string {
	return "scan"
}

func (e ScanEvent) Message() string {
	msg := fmt.Sprintf("scanned %s: %d resources, %d findings", e.Path, e.Scanned, e.Findings)
	if e.Malformed > 0 {
		msg += fmt.Sprintf(", %d malformed", e.Malformed)
	}
	return msg
}

func (e ScanEvent) Severity() Severity {
	if e.Findings > 0 || e.Malformed > 0 {
		return SeverityNotice
	}
	return SeverityInfo
}

func (e ScanEvent) Facility() int {
	return FacilityAuth
}

func (e ScanEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"path": e.Path,
		},
		SDIDAction: {
			"operation": "scan",
			"scanned":   strconv.Itoa(e.Scanned),
			"findings":  strconv.Itoa(e.Findings),
		},
	}
}

// DecisionEvent represents an evaluated access request
type DecisionEvent struct {
	User     string
	Action   string
	Resource string
	ClientIP string
	Device   string
	Outcome  string
	Reason   string
}

func (e DecisionEvent) MessageID() string {
	return "decision"
}

func (e DecisionEvent) Message() string {
	return fmt.Sprintf("%s requested %s on %s: %s (%s)", e.User, e.Action, e.Resource, e.Outcome, e.Reason)
}

func (e DecisionEvent) Severity() Severity {
	if e.Outcome == "allow" {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e DecisionEvent) Facility() int {
	return FacilityAuthPriv
}

func (e DecisionEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDDecision: {
			"outcome": e.Outcome,
			"reason":  e.Reason,
		},
		SDIDSubject: {
			"user":     e.User,
			"resource": e.Resource,
		},
		SDIDClient: {
			"ip":     e.ClientIP,
			"device": e.Device,
		},
		SDIDAction: {
			"operation": e.Action,
		},
	}
}

// RemediationEvent represents a remediation carried out after a deny or review
type RemediationEvent struct {
	User     string
	Resource string
	Cloud    string
	Detail   string
}

func (e RemediationEvent) MessageID() string {
	return "remediation"
}

func (e RemediationEvent) Message() string {
	return fmt.Sprintf("remediation for %s on %s (%s): %s", e.User, e.Resource, e.Cloud, e.Detail)
}

func (e RemediationEvent) Severity() Severity {
	return SeverityNotice
}

func (e RemediationEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RemediationEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"user":     e.User,
			"resource": e.Resource,
			"cloud":    e.Cloud,
		},
		SDIDAction: {
			"operation": "remediate",
		},
	}
}
