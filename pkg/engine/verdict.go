package engine

import "fmt"

// VerdictKind classifies the final teardown verdict.
type VerdictKind string

const (
	// VerdictOk means every expectation was satisfied.
	VerdictOk VerdictKind = "ok"
	// VerdictError means a session error or an unfulfilled expectation
	// should fail the test with a message.
	VerdictError VerdictKind = "error"
	// VerdictException means a handler raised a failure that must be
	// re-surfaced in the test's own context.
	VerdictException VerdictKind = "exception"
)

// Verdict is the single value handed to the test framework's teardown
// hook.
type Verdict struct {
	Kind    VerdictKind
	Message string
	Failure *Failure // set only for VerdictException
}

// resolve reduces the registry to a final verdict.
//
// Session errors take precedence over any per-rule state, and the most
// recently recorded one wins. Otherwise rules are scanned newest-first
// for the first one that is not Called: a waiting expectation fails
// with a missing-request message, a raised failure is promoted to an
// exception. Stubs and expect-none rules never fail by waiting.
func resolve(reg *Registry) Verdict {
	if n := len(reg.errors); n > 0 {
		return Verdict{Kind: VerdictError, Message: reg.errors[n-1]}
	}

	for i := len(reg.rules) - 1; i >= 0; i-- {
		r := reg.rules[i]
		switch r.outcome.State {
		case OutcomeCalled:
			continue
		case OutcomeRaised:
			return Verdict{
				Kind:    VerdictException,
				Message: r.outcome.Failure.Message,
				Failure: r.outcome.Failure,
			}
		case OutcomeWaiting:
			if r.Kind != KindAlways && r.Kind != KindOnce {
				continue
			}
			msg := "no matching request was received"
			if r.filtered() {
				msg = fmt.Sprintf("%s: %s", msg, r.target())
			}
			return Verdict{Kind: VerdictError, Message: msg}
		}
	}

	return Verdict{Kind: VerdictOk}
}
