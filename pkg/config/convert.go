package config

import (
	"net/http"

	"github.com/getmockd/expectd/pkg/engine"
)

// EngineRules converts the scenario's rules into engine rules with
// canned-response handlers, in file order. Call Validate (or
// LoadScenario, which validates) first.
func (sc *Scenario) EngineRules() []engine.Rule {
	rules := make([]engine.Rule, 0, len(sc.Rules))
	for i := range sc.Rules {
		rules = append(rules, sc.Rules[i].engineRule())
	}
	return rules
}

func (r *ScenarioRule) engineRule() engine.Rule {
	rule := engine.Rule{
		Method: r.Method,
		Path:   r.Path,
	}

	switch r.Kind {
	case RuleExpect:
		rule.Kind = engine.KindAlways
	case RuleExpectOnce:
		rule.Kind = engine.KindOnce
	case RuleExpectNone:
		rule.Kind = engine.KindNone
		return rule // no handler for expect-none
	default:
		rule.Kind = engine.KindStub
	}

	rule.Handler = r.Response.handler()
	return rule
}

// handler builds the canned-response handler. A nil spec answers
// 200 with an empty body.
func (rs *ResponseSpec) handler() http.HandlerFunc {
	var (
		status  = http.StatusOK
		headers map[string]string
		body    []byte
	)
	if rs != nil {
		if rs.Status != 0 {
			status = rs.Status
		}
		headers = rs.Headers
		body = []byte(rs.Body)
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		for name, value := range headers {
			w.Header().Set(name, value)
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}
}
