package decision

import (
	"time"
)

// Request describes a single access attempt.
type Request struct {
	User     string `json:"user"`
	Action   string `json:"action"`
	Resource string `json:"resource"`
	IP       string `json:"ip"`
	Device   string `json:"device"`
}

// Decision is the outcome of evaluating a request, with the reason from
// whichever side determined it.
type Decision struct {
	Outcome   Outcome   `json:"outcome"`
	Reason    string    `json:"reason"`
	Request   Request   `json:"request"`
	Timestamp time.Time `json:"timestamp"`
}

// Engine combines a contextual policy with an action rule set. Deny
// overrides: a deny from either side denies the request, and a request is
// allowed only when both sides allow it.
type Engine struct {
	context *ContextPolicy
	rules   *RuleSet
	now     func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineClock overrides the engine's clock.
func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine builds an engine from a context policy and a rule set.
func NewEngine(context *ContextPolicy, rules *RuleSet, options ...EngineOption) *Engine {
	engine := &Engine{
		context: context,
		rules:   rules,
		now:     time.Now,
	}
	for _, option := range options {
		option(engine)
	}
	return engine
}

// Evaluate runs the request through both sides and combines the outcomes.
func (e *Engine) Evaluate(req Request) Decision {
	now := e.now()

	contextOutcome, contextReason := e.context.Evaluate(req, now)
	actionOutcome, actionReason := e.rules.Evaluate(req.Action)

	outcome := combine(contextOutcome, actionOutcome)

	reason := actionReason
	if outcome == contextOutcome {
		reason = contextReason
	}

	return Decision{
		Outcome:   outcome,
		Reason:    reason,
		Request:   req,
		Timestamp: now,
	}
}

// combine is deny-biased: only a reviewed context over an allowed action
// downgrades to review; every other mixed pair denies.
func combine(context, action Outcome) Outcome {
	switch {
	case context == OutcomeAllow && action == OutcomeAllow:
		return OutcomeAllow
	case context == OutcomeReview && action == OutcomeAllow:
		return OutcomeReview
	default:
		return OutcomeDeny
	}
}
