package engine

import (
	"errors"
	"log/slog"

	"github.com/getmockd/expectd/internal/id"
	"github.com/getmockd/expectd/pkg/logging"
)

// ErrTornDown is returned by Coordinator operations after Teardown has
// completed. Teardown is the last operation a session accepts.
var ErrTornDown = errors.New("engine: session already torn down")

// Coordinator is the single serialization point for one session. It
// owns the Registry exclusively: one goroutine consumes commands from a
// channel and applies them one at a time, so registration, matching and
// outcome reporting never interleave no matter how many connections are
// in flight. Handlers always run outside this loop: Match returns a
// decision and releases the loop before the handler starts.
type Coordinator struct {
	cmds chan command
	done chan struct{}
	log  *slog.Logger
}

// CoordinatorOption customizes a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger sets the operational logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCoordinator creates a Coordinator and starts its owner goroutine.
func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		cmds: make(chan command),
		done: make(chan struct{}),
		log:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.run()
	return c
}

type command interface {
	apply(c *Coordinator, reg *Registry)
}

type registerCmd struct {
	rule  Rule
	reply chan string
}

type matchCmd struct {
	method, path string
	reply        chan RouteDecision
}

type reportCmd struct {
	ruleID  string
	outcome Outcome
	reply   chan struct{}
}

type sessionErrorCmd struct {
	message string
	reply   chan struct{}
}

type forcePassCmd struct {
	reply chan struct{}
}

type teardownCmd struct {
	reply chan Verdict
}

func (cmd registerCmd) apply(c *Coordinator, reg *Registry) {
	r := cmd.rule
	r.ID = id.Identity()
	r.outcome = Outcome{State: OutcomeWaiting}
	reg.add(&r)
	c.log.Debug("rule registered", "rule", r.String())
	cmd.reply <- r.ID
}

func (cmd matchCmd) apply(c *Coordinator, reg *Registry) {
	dec := route(reg, cmd.method, cmd.path)
	c.log.Debug("request matched",
		"method", cmd.method, "path", cmd.path, "decision", dec.Kind)
	cmd.reply <- dec
}

func (cmd reportCmd) apply(c *Coordinator, reg *Registry) {
	// A stale report racing a ForcePass, or a duplicate report, must
	// not overwrite a settled outcome.
	if r := reg.lookup(cmd.ruleID); r != nil && r.outcome.State == OutcomeWaiting {
		r.outcome = cmd.outcome
		c.log.Debug("outcome reported", "rule", r.String(), "state", cmd.outcome.State)
	}
	cmd.reply <- struct{}{}
}

func (cmd sessionErrorCmd) apply(c *Coordinator, reg *Registry) {
	reg.addError(cmd.message)
	c.log.Debug("session error recorded", "error", cmd.message)
	cmd.reply <- struct{}{}
}

func (cmd forcePassCmd) apply(c *Coordinator, reg *Registry) {
	reg.forcePass()
	c.log.Debug("force pass: all rules marked called")
	cmd.reply <- struct{}{}
}

func (cmd teardownCmd) apply(c *Coordinator, reg *Registry) {
	v := resolve(reg)
	c.log.Debug("session torn down", "verdict", v.Kind)
	cmd.reply <- v
}

// run is the owner loop. It exits after the first teardown command.
func (c *Coordinator) run() {
	reg := NewRegistry()
	for cmd := range c.cmds {
		cmd.apply(c, reg)
		if _, last := cmd.(teardownCmd); last {
			close(c.done)
			return
		}
	}
}

// send submits a command unless the session is already torn down.
func (c *Coordinator) send(cmd command) error {
	select {
	case <-c.done:
		return ErrTornDown
	case c.cmds <- cmd:
		return nil
	}
}

// Register appends a rule to the registry and returns its identity
// token. Registration never fails on a live session.
func (c *Coordinator) Register(r Rule) (string, error) {
	cmd := registerCmd{rule: r, reply: make(chan string, 1)}
	if err := c.send(cmd); err != nil {
		return "", err
	}
	return <-cmd.reply, nil
}

// Match computes the routing decision for (method, path). It never
// blocks on handler execution; the handler, if any, is run by the
// caller after this returns.
func (c *Coordinator) Match(method, path string) (RouteDecision, error) {
	cmd := matchCmd{method: method, path: path, reply: make(chan RouteDecision, 1)}
	if err := c.send(cmd); err != nil {
		return RouteDecision{}, err
	}
	return <-cmd.reply, nil
}

// ReportOutcome settles the outcome of a previously dispatched rule.
// It is a no-op if the rule is unknown or no longer Waiting.
func (c *Coordinator) ReportOutcome(ruleID string, o Outcome) error {
	cmd := reportCmd{ruleID: ruleID, outcome: o, reply: make(chan struct{}, 1)}
	if err := c.send(cmd); err != nil {
		return err
	}
	<-cmd.reply
	return nil
}

// RecordSessionError appends a free-standing session error.
func (c *Coordinator) RecordSessionError(message string) error {
	cmd := sessionErrorCmd{message: message, reply: make(chan struct{}, 1)}
	if err := c.send(cmd); err != nil {
		return err
	}
	<-cmd.reply
	return nil
}

// ForcePass discards all session errors and pending expectations,
// marking every rule Called. It always wins over prior violations.
func (c *Coordinator) ForcePass() error {
	cmd := forcePassCmd{reply: make(chan struct{}, 1)}
	if err := c.send(cmd); err != nil {
		return err
	}
	<-cmd.reply
	return nil
}

// Teardown computes the final verdict and shuts the owner loop down.
// It is the last operation the Coordinator accepts.
func (c *Coordinator) Teardown() (Verdict, error) {
	cmd := teardownCmd{reply: make(chan Verdict, 1)}
	if err := c.send(cmd); err != nil {
		return Verdict{}, err
	}
	return <-cmd.reply, nil
}
