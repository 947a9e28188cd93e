package lint

import (
	"fmt"
	"strings"

	"github.com/ztguard/ztguard/pkg/policy"
)

// Rule checks a single statement. Check returns a finding message and
// whether the rule triggered.
type Rule interface {
	Code() string
	Severity() Severity
	Check(stmt policy.Statement) (string, bool)
}

// EscalationActions are actions that allow a principal to raise their own
// privileges. Matched case-insensitively.
var EscalationActions = map[string]struct{}{
	"iam:passrole":                {},
	"iam:createpolicyversion":     {},
	"iam:setdefaultpolicyversion": {},
	"iam:putrolepolicy":           {},
	"iam:attachrolepolicy":        {},
	"iam:attachuserpolicy":        {},
}

// DefaultRules returns the built-in rule set in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		fullAdminRule{},
		wildcardResourceRule{},
		wildcardActionRule{},
		escalationRule{},
		emptyActionsRule{},
		emptyResourcesRule{},
		unknownActionRule{},
		broadResourceRule{},
	}
}

func hasWildcardAction(stmt policy.Statement) bool {
	for _, action := range stmt.Action {
		if policy.IsWildcard(action) {
			return true
		}
	}
	return false
}

func hasWildcardResource(stmt policy.Statement) bool {
	for _, resource := range stmt.Resource {
		if policy.IsWildcard(resource) {
			return true
		}
	}
	return false
}

// fullAdminRule flags statements that allow every action on every resource.
type fullAdminRule struct{}

func (fullAdminRule) Code() string       { return "full-admin" }
func (fullAdminRule) Severity() Severity { return SeverityCritical }

func (fullAdminRule) Check(stmt policy.Statement) (string, bool) {
	if stmt.Effect != policy.EffectAllow {
		return "", false
	}
	if hasWildcardAction(stmt) && hasWildcardResource(stmt) {
		return "Policy allows '*' actions on '*' resources.", true
	}
	return "", false
}

// wildcardResourceRule flags allow statements scoped to every resource.
type wildcardResourceRule struct{}

func (wildcardResourceRule) Code() string       { return "wildcard-resource" }
func (wildcardResourceRule) Severity() Severity { return SeverityHigh }

func (wildcardResourceRule) Check(stmt policy.Statement) (string, bool) {
	if stmt.Effect != policy.EffectAllow {
		return "", false
	}
	if hasWildcardResource(stmt) {
		return "Statement applies to the wildcard resource.", true
	}
	return "", false
}

// wildcardActionRule flags allow statements granting every operation of a
// service, e.g. "s3:*".
type wildcardActionRule struct{}

func (wildcardActionRule) Code() string       { return "wildcard-action-prefix" }
func (wildcardActionRule) Severity() Severity { return SeverityMedium }

func (wildcardActionRule) Check(stmt policy.Statement) (string, bool) {
	if stmt.Effect != policy.EffectAllow {
		return "", false
	}
	for _, action := range stmt.Action {
		if policy.IsServiceWildcard(action) {
			return fmt.Sprintf("Statement grants all operations of a service (%s).", action), true
		}
	}
	return "", false
}

// escalationRule flags allow statements granting known privilege
// escalation actions.
type escalationRule struct{}

func (escalationRule) Code() string       { return "privilege-escalation-action" }
func (escalationRule) Severity() Severity { return SeverityCritical }

func (escalationRule) Check(stmt policy.Statement) (string, bool) {
	if stmt.Effect != policy.EffectAllow {
		return "", false
	}
	for _, action := range stmt.Action {
		if _, ok := EscalationActions[strings.ToLower(action)]; ok {
			return fmt.Sprintf("Statement grants privilege escalation action %s.", action), true
		}
	}
	return "", false
}

// emptyActionsRule flags statements without actions; the action set is
// required to be non-empty.
type emptyActionsRule struct{}

func (emptyActionsRule) Code() string       { return "empty-actions" }
func (emptyActionsRule) Severity() Severity { return SeverityMedium }

func (emptyActionsRule) Check(stmt policy.Statement) (string, bool) {
	if len(stmt.Action) == 0 {
		return "Statement has no actions.", true
	}
	return "", false
}

// emptyResourcesRule flags statements without resources.
type emptyResourcesRule struct{}

func (emptyResourcesRule) Code() string       { return "empty-resources" }
func (emptyResourcesRule) Severity() Severity { return SeverityMedium }

func (emptyResourcesRule) Check(stmt policy.Statement) (string, bool) {
	if len(stmt.Resource) == 0 {
		return "Statement has no resources.", true
	}
	return "", false
}

// unknownActionRule flags actions that are not "*", "service:*", or
// "service:Name" shaped.
type unknownActionRule struct{}

func (unknownActionRule) Code() string       { return "unknown-action" }
func (unknownActionRule) Severity() Severity { return SeverityLow }

func (unknownActionRule) Check(stmt policy.Statement) (string, bool) {
	for _, action := range stmt.Action {
		if !policy.IsWellFormedAction(action) {
			return fmt.Sprintf("Action %q is not a recognized action pattern.", action), true
		}
	}
	return "", false
}

// broadResourceRule flags allow statements whose actions are scoped to a
// single service but whose resource pattern ends in a bare wildcard, e.g.
// s3 actions on "arn:aws:s3:::*".
type broadResourceRule struct{}

func (broadResourceRule) Code() string       { return "overly-broad-resource" }
func (broadResourceRule) Severity() Severity { return SeverityMedium }

func (broadResourceRule) Check(stmt policy.Statement) (string, bool) {
	if stmt.Effect != policy.EffectAllow {
		return "", false
	}

	service := ""
	for _, action := range stmt.Action {
		s := policy.ActionService(action)
		if s == "" {
			return "", false
		}
		if service == "" {
			service = s
		} else if s != service {
			return "", false
		}
	}
	if service == "" {
		return "", false
	}

	for _, resource := range stmt.Resource {
		if !policy.IsWildcard(resource) && policy.IsBroadResource(resource) {
			return fmt.Sprintf("Resource %q matches every %s resource.", resource, service), true
		}
	}
	return "", false
}
