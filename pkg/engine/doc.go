// Package engine implements the expectation engine behind a
// programmable mock HTTP endpoint: the rule registry, the matching
// algorithm, the per-rule lifecycle, and the teardown verdict.
//
// # Architecture
//
// All engine state belongs to a single Coordinator. The Coordinator is
// an owner goroutine draining a command channel, so every operation
// (registering a rule, matching a request, reporting a handler outcome,
// force-passing, tearing down) is applied strictly one at a time, in
// arrival order. Handlers never run inside that loop: the Dispatcher
// obtains a RouteDecision, the loop moves on, and only the later
// outcome report re-enters it. A slow handler therefore delays one
// connection, not the matching of others.
//
// # Matching
//
// Rules filter on an exact method/path pair, a path for any method, or
// nothing at all. Candidates are ranked Exact > PathOnly > Wildcard;
// within equal specificity the earliest-registered rule wins. One-shot
// rules are consumed at match time, so under concurrency the order in
// which requests reach the Coordinator decides who gets them.
//
// # Verdicts
//
// Failures raised inside handlers are captured as data, answered to the
// client as HTTP 500, and held on the rule. Nothing in the engine ever
// fails the test synchronously; Teardown reduces session errors and
// rule outcomes to a single Verdict, which the caller translates into
// its test framework's pass/fail convention.
package engine
