package engine

import (
	"fmt"
	"net/http"
)

// Kind determines how a rule participates in the final verdict.
type Kind string

const (
	// KindAlways expects at least one matching request and may be
	// matched any number of times.
	KindAlways Kind = "always"

	// KindOnce expects exactly one matching request and is consumed by
	// the first successful dispatch.
	KindOnce Kind = "once"

	// KindNone expects no matching request; any match is a violation.
	KindNone Kind = "none"

	// KindStub serves responses but never affects the verdict on its own.
	KindStub Kind = "stub"
)

// OutcomeState tracks what happened to a rule during the session.
type OutcomeState string

const (
	// OutcomeWaiting means no matching request has completed yet.
	OutcomeWaiting OutcomeState = "waiting"

	// OutcomeCalled means a handler ran to completion for this rule.
	OutcomeCalled OutcomeState = "called"

	// OutcomeRaised means the handler raised a failure that is held
	// for the teardown verdict.
	OutcomeRaised OutcomeState = "raised"
)

// Outcome is the result reported back for a dispatched rule.
type Outcome struct {
	State   OutcomeState
	Failure *Failure // set only when State is OutcomeRaised
}

// Rule is one registered expectation or stub.
//
// Method and Path are exact-match filters; an empty string means "any".
// Handler is nil only for KindNone, which never dispatches.
// All fields except the outcome bookkeeping are immutable after
// registration. Outcome and consumption state are owned by the
// Coordinator and must not be touched elsewhere.
type Rule struct {
	ID      string
	Kind    Kind
	Method  string
	Path    string
	Handler http.HandlerFunc

	outcome  Outcome
	consumed bool // set when a Once rule is claimed by a match
}

// Outcome returns the rule's current outcome. Only safe to call from
// the Coordinator's goroutine or after teardown.
func (r *Rule) Outcome() Outcome {
	return r.outcome
}

// filtered reports whether the rule carries any method/path filter.
func (r *Rule) filtered() bool {
	return r.Method != "" || r.Path != ""
}

// target renders the rule's filter for diagnostics, e.g. "GET /users".
func (r *Rule) target() string {
	switch {
	case r.Method != "" && r.Path != "":
		return r.Method + " " + r.Path
	case r.Path != "":
		return "* " + r.Path
	default:
		return "*"
	}
}

// String implements fmt.Stringer for log output.
func (r *Rule) String() string {
	return fmt.Sprintf("%s[%s %s]", r.Kind, r.ID, r.target())
}
