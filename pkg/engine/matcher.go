package engine

import (
	"fmt"
	"net/http"
	"strings"
)

// Specificity ranks how precise a rule's filter is. More specific rules
// win over less specific ones regardless of registration order.
type Specificity int

const (
	// SpecWildcard matches any request (no filter).
	SpecWildcard Specificity = iota
	// SpecPathOnly matches any method at a fixed path.
	SpecPathOnly
	// SpecExact matches a fixed method and path.
	SpecExact
)

// DecisionKind classifies a routing decision.
type DecisionKind string

const (
	// DecisionDispatch routes the request to a matched rule's handler.
	DecisionDispatch DecisionKind = "dispatch"
	// DecisionViolation means the request matched an expect-none rule.
	DecisionViolation DecisionKind = "violation"
	// DecisionExceeded means the only matching rules were one-shot
	// expectations that were already consumed.
	DecisionExceeded DecisionKind = "exceeded"
	// DecisionUnmatched means no rule matched at all.
	DecisionUnmatched DecisionKind = "unmatched"
)

// RouteDecision is the Coordinator's answer to a match request. For
// Dispatch it carries the winning rule's identity and handler; for the
// error kinds it carries the diagnostic message to answer and record.
type RouteDecision struct {
	Kind    DecisionKind
	RuleID  string
	Handler http.HandlerFunc
	Message string
}

// accepts reports whether the rule's filter accepts (method, path).
// Methods compare case-insensitively, paths exactly.
func accepts(r *Rule, method, path string) bool {
	if r.Method != "" && !strings.EqualFold(r.Method, method) {
		return false
	}
	if r.Path != "" && r.Path != path {
		return false
	}
	return true
}

// specificity returns the rule's filter precision.
func specificity(r *Rule) Specificity {
	switch {
	case r.Method != "" && r.Path != "":
		return SpecExact
	case r.Path != "":
		return SpecPathOnly
	default:
		return SpecWildcard
	}
}

// route computes the routing decision for (method, path) against the
// registry in a single scan. The winner is the accepting rule with the
// highest specificity; ties go to the earliest-registered rule. A
// winning expect-none rule is a violation. If nothing survives but a
// consumed one-shot rule would have accepted the request, the decision
// is Exceeded rather than Unmatched.
//
// For a Once winner the rule is consumed here, at match time, so the
// order in which concurrent requests reach the Coordinator decides who
// gets the one-shot rule, not the order their handlers finish.
func route(reg *Registry, method, path string) RouteDecision {
	var best *Rule
	var bestSpec Specificity
	exhaustedOnce := false

	for _, r := range reg.rules {
		if r.Kind == KindOnce && (r.consumed || r.outcome.State != OutcomeWaiting) {
			if accepts(r, method, path) {
				exhaustedOnce = true
			}
			continue
		}
		if !accepts(r, method, path) {
			continue
		}
		if spec := specificity(r); best == nil || spec > bestSpec {
			best, bestSpec = r, spec
		}
	}

	switch {
	case best == nil && exhaustedOnce:
		return RouteDecision{
			Kind:    DecisionExceeded,
			Message: fmt.Sprintf("too many requests for one-shot expectation: %s %s", method, path),
		}
	case best == nil:
		return RouteDecision{
			Kind:    DecisionUnmatched,
			Message: fmt.Sprintf("unexpected request: %s %s", method, path),
		}
	case best.Kind == KindNone:
		return RouteDecision{
			Kind:    DecisionViolation,
			Message: fmt.Sprintf("unexpected request, none were expected: %s %s", method, path),
		}
	}

	if best.Kind == KindOnce {
		best.consumed = true
	}
	return RouteDecision{Kind: DecisionDispatch, RuleID: best.ID, Handler: best.Handler}
}
