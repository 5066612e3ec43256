package engine

// Registry holds the ordered rules and the session-level errors for one
// session. It is owned exclusively by the Coordinator's goroutine;
// nothing else may read or write it.
type Registry struct {
	rules  []*Rule
	byID   map[string]*Rule
	errors []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Rule)}
}

// add appends a rule, preserving registration order.
func (reg *Registry) add(r *Rule) {
	reg.rules = append(reg.rules, r)
	reg.byID[r.ID] = r
}

// lookup returns the rule registered under id, or nil.
func (reg *Registry) lookup(id string) *Rule {
	return reg.byID[id]
}

// addError records a session-level error not tied to a single rule.
func (reg *Registry) addError(msg string) {
	reg.errors = append(reg.errors, msg)
}

// forcePass clears all session errors and marks every rule Called,
// overriding any pending violation or captured failure.
func (reg *Registry) forcePass() {
	reg.errors = nil
	for _, r := range reg.rules {
		r.outcome = Outcome{State: OutcomeCalled}
	}
}
