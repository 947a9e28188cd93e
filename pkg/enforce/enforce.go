// Package enforce applies decisions to access requests: it evaluates the
// request, records audit and metrics, and triggers remediation for denied
// or flagged requests.
package enforce

import (
	"fmt"

	"github.com/ztguard/ztguard/pkg/audit"
	"github.com/ztguard/ztguard/pkg/decision"
	"github.com/ztguard/ztguard/pkg/metrics"
	"github.com/ztguard/ztguard/pkg/remediation"
)

// Result is the full outcome of enforcing one request.
type Result struct {
	Decision    decision.Decision   `json:"decision"`
	Remediation *remediation.Action `json:"remediation,omitempty"`
}

// Enforcer evaluates requests and acts on the outcome.
type Enforcer struct {
	engine     *decision.Engine
	registry   *metrics.Registry
	remediator func(resource string) remediation.Remediator
	logger     func(audit.Event)
}

// Option configures an Enforcer.
type Option func(*Enforcer)

// WithRegistry overrides the metrics registry (defaults to metrics.Default).
func WithRegistry(registry *metrics.Registry) Option {
	return func(e *Enforcer) {
		e.registry = registry
	}
}

// WithRemediatorFunc overrides remediator selection. Useful for tests.
func WithRemediatorFunc(f func(resource string) remediation.Remediator) Option {
	return func(e *Enforcer) {
		e.remediator = f
	}
}

// WithAuditFunc overrides the audit sink (defaults to audit.Log).
func WithAuditFunc(f func(audit.Event)) Option {
	return func(e *Enforcer) {
		e.logger = f
	}
}

// NewEnforcer builds an enforcer around a decision engine.
func NewEnforcer(engine *decision.Engine, options ...Option) *Enforcer {
	enforcer := &Enforcer{
		engine:     engine,
		registry:   metrics.Default,
		remediator: remediation.ForResource,
		logger:     audit.Log,
	}
	for _, option := range options {
		option(enforcer)
	}
	return enforcer
}

// Enforce evaluates the request and carries out the decided outcome.
func (e *Enforcer) Enforce(req decision.Request) (Result, error) {
	dec := e.engine.Evaluate(req)
	outcome := dec.Outcome.String()

	e.registry.RecordDecision(outcome)
	e.registry.RecordEvent("decision")
	e.logger(audit.DecisionEvent{
		User:     req.User,
		Action:   req.Action,
		Resource: req.Resource,
		ClientIP: req.IP,
		Device:   req.Device,
		Outcome:  outcome,
		Reason:   dec.Reason,
	})

	result := Result{Decision: dec}

	var (
		action remediation.Action
		err    error
	)
	switch dec.Outcome {
	case decision.OutcomeDeny:
		action, err = e.remediator(req.Resource).RevokeAccess(req.User, req.Resource)
	case decision.OutcomeReview:
		action, err = e.remediator(req.Resource).FlagForReview(req.User, req.Resource, dec.Reason)
	default:
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("remediation failed for %s: %w", req.Resource, err)
	}

	e.registry.RecordRemediation(action.Cloud)
	e.registry.RecordEvent("remediation")
	e.logger(audit.RemediationEvent{
		User:     req.User,
		Resource: req.Resource,
		Cloud:    action.Cloud,
		Detail:   action.Description,
	})

	result.Remediation = &action
	return result, nil
}
